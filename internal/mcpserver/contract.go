package mcpserver

// CardFormatContract describes the canonical flashcard structure that
// LLM consumers should follow when creating cards.
const CardFormatContract = `# hifzd Flashcard Contract

Every flashcard created through hifzd MUST follow this structure.

## Fields

- **type** (required) – one of:
  - ` + "`mistake`" + ` – a recitation mistake to drill.
  - ` + "`mutashabihat`" + ` – similar-sounding verses that are easy to confuse.
  - ` + "`transition`" + ` – the junction between two consecutive ayahs or pages.
  - ` + "`custom-transition`" + ` – a user-chosen junction anywhere in the text.
  - ` + "`page-number`" + ` – recall which page a passage sits on.
- **front** (required) – the prompt. Quote the Quranic text verbatim with full
  diacritics; never paraphrase a verse.
- **back** (optional) – the answer: the continuation, the distinguishing verse,
  or the page number, depending on type.
- **surah**, **ayah**, **page** (optional) – location anchors. Set them whenever
  the card concerns a specific place in the text; they drive the surah, page,
  and juz filters.

## Rules

1. Verse references use the ` + "`surah:ayah`" + ` key format, e.g. ` + "`2:255`" + `.
2. One card tests one recall. Split compound prompts into separate cards.
3. For ` + "`mutashabihat`" + ` cards the front holds the shared stem and the back
   lists each variant with its verse key.
4. For ` + "`transition`" + ` cards the front is the last words before the junction
   and the back is the first words after it.
5. Review scheduling is automatic. Never set scheduling fields; grade honestly
   with ratings 1 (again) to 4 (easy) and the scheduler does the rest.

## Example

` + "```json" + `
{
  "type": "transition",
  "surah": 2,
  "ayah": 141,
  "page": 22,
  "front": "تِلْكَ أُمَّةٌ قَدْ خَلَتْ ...",
  "back": "سَيَقُولُ السُّفَهَاءُ مِنَ النَّاسِ ..."
}
` + "```" + `
`
