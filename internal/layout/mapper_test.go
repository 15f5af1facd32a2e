package layout

import (
	"testing"

	"github.com/quranhifz/hifzd/internal/models"
	"github.com/quranhifz/hifzd/internal/mushaf"
)

func twoLinePage() *mushaf.Page {
	v1 := models.Verse{
		ID:       1,
		VerseKey: "1:1",
		Number:   1,
		Words: []models.Word{
			{ID: 1, Position: 1, Text: "بسم", LineNumber: 1},
			{ID: 2, Position: 2, Text: "الله", LineNumber: 1},
			{ID: 3, Position: 3, Text: "الرحمن", LineNumber: 1},
			{ID: 4, Position: 4, Text: "الرحيم", LineNumber: 1},
		},
	}
	v2 := models.Verse{
		ID:       2,
		VerseKey: "1:2",
		Number:   2,
		Words: []models.Word{
			{ID: 5, Position: 1, Text: "الحمد", LineNumber: 2},
			{ID: 6, Position: 2, Text: "لله", LineNumber: 2},
			{ID: 7, Position: 3, Text: "رب", LineNumber: 2},
			{ID: 8, Position: 4, Text: "العالمين", LineNumber: 2},
		},
	}
	return &mushaf.Page{
		PageNumber: 1,
		Verses:     []models.Verse{v1, v2},
		Lines: []mushaf.Line{
			{LineNumber: 1, Words: v1.Words, VerseKeys: []string{"1:1"}},
			{LineNumber: 2, Words: v2.Words, VerseKeys: []string{"1:2"}},
		},
	}
}

func TestBuildPageMapGeometry(t *testing.T) {
	m := NewMapper(DefaultGrid())
	pm := m.BuildPageMap(twoLinePage())

	if got := len(pm.Words); got != 8 {
		t.Fatalf("words = %d, want 8", got)
	}
	if got := len(pm.Lines); got != 2 {
		t.Fatalf("lines = %d, want 2", got)
	}

	grid := DefaultGrid()
	contentWidth := grid.PageWidth - grid.MarginLeft - grid.MarginRight
	slot := contentWidth / 4

	first := pm.Lines[0].Words[0]
	if first.Bounds.X != grid.MarginLeft {
		t.Errorf("first word x = %v, want %v", first.Bounds.X, grid.MarginLeft)
	}
	if first.Bounds.Y != grid.MarginTop {
		t.Errorf("first word y = %v, want %v", first.Bounds.Y, grid.MarginTop)
	}
	wantWidth := slot * 0.9
	if first.Bounds.Width != wantWidth {
		t.Errorf("word width = %v, want %v", first.Bounds.Width, wantWidth)
	}

	second := pm.Lines[1].Words[0]
	if wantY := grid.MarginTop + grid.LineHeight; second.Bounds.Y != wantY {
		t.Errorf("second line y = %v, want %v", second.Bounds.Y, wantY)
	}
}

func TestWordAt(t *testing.T) {
	m := NewMapper(DefaultGrid())
	m.BuildPageMap(twoLinePage())

	tests := []struct {
		name   string
		x, y   float64
		wantID int
	}{
		{"first word", 65, 85, 1},
		{"second line", 65, 120, 5},
		{"margin miss", 10, 85, 0},
		{"below content", 65, 500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wp := m.WordAt(tt.x, tt.y)
			if tt.wantID == 0 {
				if wp != nil {
					t.Fatalf("WordAt(%v, %v) = word %d, want nil", tt.x, tt.y, wp.ID)
				}
				return
			}
			if wp == nil {
				t.Fatalf("WordAt(%v, %v) = nil, want word %d", tt.x, tt.y, tt.wantID)
			}
			if wp.ID != tt.wantID {
				t.Errorf("WordAt(%v, %v) = word %d, want %d", tt.x, tt.y, wp.ID, tt.wantID)
			}
		})
	}
}

func TestAyahRange(t *testing.T) {
	m := NewMapper(DefaultGrid())
	pm := m.BuildPageMap(twoLinePage())

	start := &pm.Words[2]
	end := &pm.Words[5]

	keys := m.AyahRange(start, end)
	if len(keys) != 2 || keys[0] != "1:1" || keys[1] != "1:2" {
		t.Fatalf("AyahRange = %v, want [1:1 1:2]", keys)
	}

	// Reversed endpoints give the same answer.
	keys = m.AyahRange(end, start)
	if len(keys) != 2 || keys[0] != "1:1" || keys[1] != "1:2" {
		t.Fatalf("reversed AyahRange = %v, want [1:1 1:2]", keys)
	}
}

func TestAyahsInBounds(t *testing.T) {
	m := NewMapper(DefaultGrid())
	m.BuildPageMap(twoLinePage())

	// Box covering only the first line.
	keys := m.AyahsInBounds(models.BoundingBox{X: 60, Y: 80, Width: 300, Height: 30})
	if len(keys) != 1 || keys[0] != "1:1" {
		t.Fatalf("first line ayahs = %v, want [1:1]", keys)
	}

	// Box spanning both lines.
	keys = m.AyahsInBounds(models.BoundingBox{X: 60, Y: 80, Width: 300, Height: 70})
	if len(keys) != 2 {
		t.Fatalf("spanning ayahs = %v, want both", keys)
	}
}

func TestPageMapRoundTrip(t *testing.T) {
	m := NewMapper(DefaultGrid())
	pm := m.BuildPageMap(twoLinePage())

	data, err := pm.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	restored := NewMapper(DefaultGrid())
	if err := restored.LoadPageMap(data); err != nil {
		t.Fatalf("load: %v", err)
	}

	if restored.PageMap().PageNumber != 1 {
		t.Errorf("page number = %d, want 1", restored.PageMap().PageNumber)
	}
	if got := len(restored.PageMap().Ayahs); got != 2 {
		t.Errorf("ayah index size = %d, want 2", got)
	}
	wp := restored.WordAt(65, 85)
	if wp == nil || wp.ID != 1 {
		t.Errorf("hit-test after reload failed: %+v", wp)
	}
}
