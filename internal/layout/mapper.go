// Package layout computes per-word bounding boxes for reconstructed Mushaf
// pages and answers spatial queries (hit-testing, range selection).
//
// The layout is a heuristic: real glyph widths are unknown here, so each
// line's content width is divided equally between its words. Callers must
// treat boxes as approximate; ordering and containment are the contract,
// pixel-exact widths are not.
package layout

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/quranhifz/hifzd/internal/models"
	"github.com/quranhifz/hifzd/internal/mushaf"
)

// wordWidthFactor leaves a share of each word's equal slot as inter-word
// spacing.
const wordWidthFactor = 0.9

// GridConfig is the page geometry the mapper lays words out on.
type GridConfig struct {
	MarginTop    float64 `json:"marginTop"`
	MarginBottom float64 `json:"marginBottom"`
	MarginLeft   float64 `json:"marginLeft"`
	MarginRight  float64 `json:"marginRight"`
	LineHeight   float64 `json:"lineHeight"`
	PageWidth    float64 `json:"pageWidth"`
	PageHeight   float64 `json:"pageHeight"`
}

// DefaultGrid mirrors the madani-15 print geometry.
func DefaultGrid() GridConfig {
	return GridConfig{
		MarginTop:    80,
		MarginBottom: 80,
		MarginLeft:   60,
		MarginRight:  60,
		LineHeight:   35,
		PageWidth:    420,
		PageHeight:   600,
	}
}

// GridFromFingerprint builds a grid from an edition's registered geometry.
func GridFromFingerprint(fp mushaf.Fingerprint, pageWidth, pageHeight float64) GridConfig {
	return GridConfig{
		MarginTop:    fp.Grid.MarginTop,
		MarginBottom: fp.Grid.MarginBottom,
		MarginLeft:   fp.Grid.MarginLeft,
		MarginRight:  fp.Grid.MarginRight,
		LineHeight:   fp.Grid.LineHeight,
		PageWidth:    pageWidth,
		PageHeight:   pageHeight,
	}
}

// WordPosition is a word with its computed box and owning verse.
type WordPosition struct {
	models.Word
	Bounds     models.BoundingBox `json:"bounds"`
	VerseKey   string             `json:"verse_key"`
	LineNumber int                `json:"line_number"`
}

// AyahPosition is all located words of one verse plus their envelope.
type AyahPosition struct {
	VerseKey    string             `json:"verse_key"`
	VerseNumber int                `json:"verse_number"`
	Words       []WordPosition     `json:"words"`
	Bounds      models.BoundingBox `json:"bounds"`
}

// LinePosition is one laid-out line.
type LinePosition struct {
	LineNumber int                `json:"line_number"`
	Words      []WordPosition     `json:"words"`
	Ayahs      []string           `json:"ayahs"`
	Bounds     models.BoundingBox `json:"bounds"`
}

// PageMap is the spatial index of one page view. Built per page load,
// discarded on page change; never persisted except through MarshalJSON.
type PageMap struct {
	PageNumber int
	Lines      []LinePosition
	Ayahs      map[string]*AyahPosition
	Words      []WordPosition
	Bounds     models.BoundingBox
}

// Mapper builds and queries a PageMap for one page at a time.
type Mapper struct {
	grid    GridConfig
	pageMap *PageMap
}

func NewMapper(grid GridConfig) *Mapper {
	return &Mapper{grid: grid}
}

// BuildPageMap lays out a reconstructed page on the grid and indexes it.
func (m *Mapper) BuildPageMap(page *mushaf.Page) *PageMap {
	contentWidth := m.grid.PageWidth - m.grid.MarginLeft - m.grid.MarginRight

	verseByWordID := make(map[int]string)
	verseNumber := make(map[string]int)
	for _, v := range page.Verses {
		verseNumber[v.VerseKey] = v.Number
		for _, w := range v.Words {
			verseByWordID[w.ID] = v.VerseKey
		}
	}

	pm := &PageMap{
		PageNumber: page.PageNumber,
		Ayahs:      make(map[string]*AyahPosition),
		Bounds:     models.BoundingBox{Width: m.grid.PageWidth, Height: m.grid.PageHeight},
	}

	for lineIndex, line := range page.Lines {
		lineY := m.grid.MarginTop + float64(lineIndex)*m.grid.LineHeight

		wordCount := len(line.Words)
		if wordCount == 0 {
			wordCount = 1
		}
		slotWidth := contentWidth / float64(wordCount)

		lineWords := make([]WordPosition, 0, len(line.Words))
		x := m.grid.MarginLeft
		for _, word := range line.Words {
			verseKey := verseByWordID[word.ID]
			if verseKey == "" && len(line.VerseKeys) > 0 {
				verseKey = line.VerseKeys[0]
			}

			wp := WordPosition{
				Word:       word,
				VerseKey:   verseKey,
				LineNumber: line.LineNumber,
				Bounds: models.BoundingBox{
					X:      x,
					Y:      lineY,
					Width:  slotWidth * wordWidthFactor,
					Height: m.grid.LineHeight,
				},
			}

			lineWords = append(lineWords, wp)
			pm.Words = append(pm.Words, wp)

			ayah, ok := pm.Ayahs[verseKey]
			if !ok {
				ayah = &AyahPosition{VerseKey: verseKey, VerseNumber: verseNumber[verseKey]}
				pm.Ayahs[verseKey] = ayah
			}
			ayah.Words = append(ayah.Words, wp)

			x += slotWidth
		}

		pm.Lines = append(pm.Lines, LinePosition{
			LineNumber: line.LineNumber,
			Words:      lineWords,
			Ayahs:      line.VerseKeys,
			Bounds: models.BoundingBox{
				X:      m.grid.MarginLeft,
				Y:      lineY,
				Width:  contentWidth,
				Height: m.grid.LineHeight,
			},
		})
	}

	for _, ayah := range pm.Ayahs {
		if len(ayah.Words) == 0 {
			continue
		}
		bounds := ayah.Words[0].Bounds
		for _, w := range ayah.Words[1:] {
			bounds = bounds.Union(w.Bounds)
		}
		ayah.Bounds = bounds
	}

	m.pageMap = pm
	return pm
}

// PageMap returns the current map, or nil before the first build.
func (m *Mapper) PageMap() *PageMap {
	return m.pageMap
}

// WordAt returns the first word whose box contains the point. A linear scan
// is fine at page scale.
func (m *Mapper) WordAt(x, y float64) *WordPosition {
	if m.pageMap == nil {
		return nil
	}
	for i := range m.pageMap.Words {
		if m.pageMap.Words[i].Bounds.Contains(x, y) {
			return &m.pageMap.Words[i]
		}
	}
	return nil
}

// AyahRange returns the de-duplicated verse keys covered by the inclusive
// word range between two words, in page-reading order. The endpoints may be
// passed in either order.
func (m *Mapper) AyahRange(startWord, endWord *WordPosition) []string {
	if m.pageMap == nil || startWord == nil || endWord == nil {
		return nil
	}

	startIndex, endIndex := -1, -1
	for i := range m.pageMap.Words {
		if m.pageMap.Words[i].ID == startWord.ID {
			startIndex = i
		}
		if m.pageMap.Words[i].ID == endWord.ID {
			endIndex = i
		}
	}
	if startIndex == -1 || endIndex == -1 {
		return nil
	}
	if startIndex > endIndex {
		startIndex, endIndex = endIndex, startIndex
	}

	seen := make(map[string]struct{})
	var keys []string
	for _, w := range m.pageMap.Words[startIndex : endIndex+1] {
		if _, ok := seen[w.VerseKey]; !ok {
			seen[w.VerseKey] = struct{}{}
			keys = append(keys, w.VerseKey)
		}
	}
	return keys
}

// AyahWords returns the located words of one verse.
func (m *Mapper) AyahWords(verseKey string) []WordPosition {
	if m.pageMap == nil {
		return nil
	}
	if ayah, ok := m.pageMap.Ayahs[verseKey]; ok {
		return ayah.Words
	}
	return nil
}

// LineWords returns the located words of one line.
func (m *Mapper) LineWords(lineNumber int) []WordPosition {
	if m.pageMap == nil {
		return nil
	}
	for _, line := range m.pageMap.Lines {
		if line.LineNumber == lineNumber {
			return line.Words
		}
	}
	return nil
}

// AyahsInBounds returns the verse keys whose envelopes intersect the box,
// sorted for deterministic output.
func (m *Mapper) AyahsInBounds(box models.BoundingBox) []string {
	if m.pageMap == nil {
		return nil
	}
	var keys []string
	for key, ayah := range m.pageMap.Ayahs {
		if box.Intersects(ayah.Bounds) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// pageMapJSON is the serialized form: the ayah map flattens into an array.
type pageMapJSON struct {
	PageNumber int                `json:"page_number"`
	Lines      []LinePosition     `json:"lines"`
	Ayahs      []AyahPosition     `json:"ayahs"`
	Words      []WordPosition     `json:"words"`
	Bounds     models.BoundingBox `json:"bounds"`
}

// MarshalJSON serializes the full map.
func (pm *PageMap) MarshalJSON() ([]byte, error) {
	out := pageMapJSON{
		PageNumber: pm.PageNumber,
		Lines:      pm.Lines,
		Words:      pm.Words,
		Bounds:     pm.Bounds,
	}
	keys := make([]string, 0, len(pm.Ayahs))
	for k := range pm.Ayahs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out.Ayahs = append(out.Ayahs, *pm.Ayahs[k])
	}
	return json.Marshal(out)
}

// UnmarshalJSON reconstructs the map, including the verse-key index.
func (pm *PageMap) UnmarshalJSON(data []byte) error {
	var in pageMapJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("layout: decode page map: %w", err)
	}
	pm.PageNumber = in.PageNumber
	pm.Lines = in.Lines
	pm.Words = in.Words
	pm.Bounds = in.Bounds
	pm.Ayahs = make(map[string]*AyahPosition, len(in.Ayahs))
	for i := range in.Ayahs {
		ayah := in.Ayahs[i]
		pm.Ayahs[ayah.VerseKey] = &ayah
	}
	return nil
}

// LoadPageMap restores a previously serialized map into the mapper.
func (m *Mapper) LoadPageMap(data []byte) error {
	var pm PageMap
	if err := pm.UnmarshalJSON(data); err != nil {
		return err
	}
	m.pageMap = &pm
	return nil
}
