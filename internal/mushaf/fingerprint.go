// Package mushaf reconstructs printed Quran pages: it knows the fixed
// page/line geometry of known editions and rebuilds a page's lines from the
// word-level records of the verse API.
package mushaf

// AyahRef identifies an ayah by surah and ayah number.
type AyahRef struct {
	Surah int `json:"surah"`
	Ayah  int `json:"ayah"`
}

// SamplePage is a registered page boundary used for edition detection.
type SamplePage struct {
	Page      int     `json:"page"`
	FirstAyah AyahRef `json:"firstAyah"`
	LastAyah  AyahRef `json:"lastAyah"`
}

// GridConfig is the layout geometry of an edition's printed page.
type GridConfig struct {
	MarginTop    float64 `json:"marginTop"`
	MarginBottom float64 `json:"marginBottom"`
	MarginLeft   float64 `json:"marginLeft"`
	MarginRight  float64 `json:"marginRight"`
	LineHeight   float64 `json:"lineHeight"`
}

// Indicators describes which ornamental markers an edition prints.
type Indicators struct {
	JuzMarkers    bool `json:"hasJuzMarkers"`
	SajdahMarkers bool `json:"hasSajdahMarkers"`
	RubMarkers    bool `json:"hasRubMarkers"`
}

// Fingerprint is the registered description of one Mushaf edition. It is
// static data, read at runtime and never mutated.
type Fingerprint struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	LinesPerPage int          `json:"linesPerPage"`
	TotalPages   int          `json:"totalPages"`
	HasTajweed   bool         `json:"hasTajweed"`
	SamplePages  []SamplePage `json:"samplePages"`
	Grid         GridConfig   `json:"gridConfig"`
	Indicators   Indicators   `json:"indicators"`
}

// SampleFor returns the registered sample for a page, if any.
func (f *Fingerprint) SampleFor(page int) (SamplePage, bool) {
	for _, sp := range f.SamplePages {
		if sp.Page == page {
			return sp, true
		}
	}
	return SamplePage{}, false
}

// knownEditions is registered in detection-priority order: when sample
// matching cannot separate candidates, the first registered one wins.
var knownEditions = []Fingerprint{
	{
		ID:           "madani-15-tajweed",
		Name:         "Madani Mushaf 15-Line (Tajweed)",
		LinesPerPage: 15,
		TotalPages:   604,
		HasTajweed:   true,
		SamplePages: []SamplePage{
			{Page: 1, FirstAyah: AyahRef{1, 1}, LastAyah: AyahRef{2, 5}},
			{Page: 2, FirstAyah: AyahRef{2, 6}, LastAyah: AyahRef{2, 16}},
			{Page: 50, FirstAyah: AyahRef{2, 254}, LastAyah: AyahRef{2, 260}},
			{Page: 100, FirstAyah: AyahRef{4, 148}, LastAyah: AyahRef{4, 155}},
			{Page: 604, FirstAyah: AyahRef{114, 1}, LastAyah: AyahRef{114, 6}},
		},
		Grid:       GridConfig{MarginTop: 80, MarginBottom: 80, MarginLeft: 60, MarginRight: 60, LineHeight: 35},
		Indicators: Indicators{JuzMarkers: true, SajdahMarkers: true, RubMarkers: true},
	},
	{
		ID:           "madani-15",
		Name:         "Madani Mushaf 15-Line (King Fahd)",
		LinesPerPage: 15,
		TotalPages:   604,
		HasTajweed:   false,
		SamplePages: []SamplePage{
			{Page: 1, FirstAyah: AyahRef{1, 1}, LastAyah: AyahRef{2, 5}},
			{Page: 2, FirstAyah: AyahRef{2, 6}, LastAyah: AyahRef{2, 16}},
			{Page: 50, FirstAyah: AyahRef{2, 254}, LastAyah: AyahRef{2, 260}},
			{Page: 100, FirstAyah: AyahRef{4, 148}, LastAyah: AyahRef{4, 155}},
			{Page: 604, FirstAyah: AyahRef{114, 1}, LastAyah: AyahRef{114, 6}},
		},
		Grid:       GridConfig{MarginTop: 80, MarginBottom: 80, MarginLeft: 60, MarginRight: 60, LineHeight: 35},
		Indicators: Indicators{JuzMarkers: true, SajdahMarkers: true, RubMarkers: true},
	},
	{
		ID:           "indopak-13",
		Name:         "Indo-Pak 13-Line",
		LinesPerPage: 13,
		TotalPages:   540,
		HasTajweed:   false,
		SamplePages: []SamplePage{
			{Page: 1, FirstAyah: AyahRef{1, 1}, LastAyah: AyahRef{2, 7}},
			{Page: 2, FirstAyah: AyahRef{2, 8}, LastAyah: AyahRef{2, 21}},
			{Page: 50, FirstAyah: AyahRef{2, 282}, LastAyah: AyahRef{3, 5}},
			{Page: 540, FirstAyah: AyahRef{114, 1}, LastAyah: AyahRef{114, 6}},
		},
		Grid:       GridConfig{MarginTop: 70, MarginBottom: 70, MarginLeft: 50, MarginRight: 50, LineHeight: 40},
		Indicators: Indicators{JuzMarkers: true, SajdahMarkers: true, RubMarkers: false},
	},
	{
		ID:           "madani-16-warsh",
		Name:         "Madani 16-Line (Warsh)",
		LinesPerPage: 16,
		TotalPages:   559,
		HasTajweed:   false,
		SamplePages: []SamplePage{
			{Page: 1, FirstAyah: AyahRef{1, 1}, LastAyah: AyahRef{2, 6}},
			{Page: 559, FirstAyah: AyahRef{114, 1}, LastAyah: AyahRef{114, 6}},
		},
		Grid:       GridConfig{MarginTop: 75, MarginBottom: 75, MarginLeft: 55, MarginRight: 55, LineHeight: 33},
		Indicators: Indicators{JuzMarkers: true, SajdahMarkers: true, RubMarkers: true},
	},
}

// Editions returns all registered fingerprints in registration order.
func Editions() []Fingerprint {
	out := make([]Fingerprint, len(knownEditions))
	copy(out, knownEditions)
	return out
}

// FingerprintByID looks up a registered edition by its stable id.
func FingerprintByID(id string) (*Fingerprint, bool) {
	for i := range knownEditions {
		if knownEditions[i].ID == id {
			fp := knownEditions[i]
			return &fp, true
		}
	}
	return nil, false
}

// MatchEdition identifies an edition from a detected line count and sampled
// page boundaries. Candidates are filtered by exact lines-per-page; with
// several left, the one matching more than half the supplied samples wins.
// With no candidate clearing that bar the first-registered candidate is
// returned as a deterministic fallback; ties are intentionally unresolved
// beyond registration order.
func MatchEdition(detectedLines int, samples []SamplePage) *Fingerprint {
	var candidates []Fingerprint
	for _, e := range knownEditions {
		if e.LinesPerPage == detectedLines {
			candidates = append(candidates, e)
		}
	}

	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 {
		return &candidates[0]
	}

	for i := range candidates {
		matches := 0
		for _, sample := range samples {
			registered, ok := candidates[i].SampleFor(sample.Page)
			if ok && registered.FirstAyah == sample.FirstAyah && registered.LastAyah == sample.LastAyah {
				matches++
			}
		}
		if matches*2 > len(samples) {
			return &candidates[i]
		}
	}

	return &candidates[0]
}
