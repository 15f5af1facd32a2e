package store

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/quranhifz/hifzd/internal/apperr"
	"github.com/quranhifz/hifzd/internal/models"
)

func highlightData(t *testing.T) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(models.HighlightData{X: 60, Y: 80, Width: 120, Height: 35, Color: "#f59e0b"})
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestAnnotationAddAssignsIdentity(t *testing.T) {
	repo := NewAnnotationRepo(testDB(t))

	created, err := repo.Add(models.Annotation{
		Type:       models.AnnotationHighlight,
		PageNumber: 42,
		VerseKey:   "2:255",
		Data:       highlightData(t),
		Tags:       []string{"revision"},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if created.ID == "" {
		t.Fatal("no id assigned")
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.ModifiedAt) {
		t.Errorf("timestamps: created=%v modified=%v", created.CreatedAt, created.ModifiedAt)
	}

	got, err := repo.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var data models.HighlightData
	if err := json.Unmarshal(got.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Color != "#f59e0b" {
		t.Errorf("color = %q", data.Color)
	}
}

func TestAnnotationUpdatePreservesCreation(t *testing.T) {
	db := testDB(t)
	repo := NewAnnotationRepo(db)

	created, err := repo.Add(models.Annotation{
		Type:       models.AnnotationNote,
		PageNumber: 10,
		Data:       json.RawMessage(`{"text":"check tajweed here","x":100,"y":200}`),
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	// A later clock makes the modified bump observable.
	repo.now = func() time.Time { return created.CreatedAt.Add(time.Minute) }

	created.Tags = []string{"tajweed"}
	updated, err := repo.Update(*created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
	if !updated.ModifiedAt.After(created.ModifiedAt) {
		t.Errorf("modified_at not bumped: %v", updated.ModifiedAt)
	}

	missing := *created
	missing.ID = "nope"
	if _, err := repo.Update(missing); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Update missing err = %v, want ErrNotFound", err)
	}
}

func TestAnnotationQueryFilters(t *testing.T) {
	repo := NewAnnotationRepo(testDB(t))

	add := func(aType models.AnnotationType, page int, verseKey string, tags ...string) {
		t.Helper()
		if _, err := repo.Add(models.Annotation{
			Type: aType, PageNumber: page, VerseKey: verseKey,
			Data: json.RawMessage(`{}`), Tags: tags,
		}); err != nil {
			t.Fatal(err)
		}
	}

	add(models.AnnotationHighlight, 1, "1:1", "fatihah")
	add(models.AnnotationDrawing, 1, "")
	add(models.AnnotationHighlight, 2, "1:1")
	add(models.AnnotationNote, 3, "2:5", "fatihah", "review")

	tests := []struct {
		name   string
		filter models.AnnotationFilter
		want   int
	}{
		{"all", models.AnnotationFilter{}, 4},
		{"by page", models.AnnotationFilter{PageNumber: 1}, 2},
		{"by verse", models.AnnotationFilter{VerseKey: "1:1"}, 2},
		{"by type", models.AnnotationFilter{Type: models.AnnotationHighlight}, 2},
		{"page and type", models.AnnotationFilter{PageNumber: 1, Type: models.AnnotationHighlight}, 1},
		{"by tag", models.AnnotationFilter{Tags: []string{"fatihah"}}, 2},
		{"tag any-of", models.AnnotationFilter{Tags: []string{"review", "missing"}}, 1},
		{"no match", models.AnnotationFilter{PageNumber: 99}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Query(tt.filter)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("matches = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestAnnotationBulkDelete(t *testing.T) {
	repo := NewAnnotationRepo(testDB(t))

	for i := 0; i < 3; i++ {
		if _, err := repo.Add(models.Annotation{
			Type: models.AnnotationDrawing, PageNumber: 7, VerseKey: "2:10",
			Data: json.RawMessage(`{}`),
		}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := repo.Add(models.Annotation{
		Type: models.AnnotationDrawing, PageNumber: 8, Data: json.RawMessage(`{}`),
	}); err != nil {
		t.Fatal(err)
	}

	n, err := repo.DeleteByPage(7)
	if err != nil {
		t.Fatalf("DeleteByPage: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted = %d, want 3", n)
	}

	n, err = repo.DeleteByVerse("2:10")
	if err != nil {
		t.Fatalf("DeleteByVerse: %v", err)
	}
	if n != 0 {
		t.Errorf("verse delete after page delete = %d, want 0", n)
	}

	remaining, err := repo.Query(models.AnnotationFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 {
		t.Errorf("remaining = %d, want 1", len(remaining))
	}
}

func TestAnnotationStatsAndExport(t *testing.T) {
	repo := NewAnnotationRepo(testDB(t))

	for _, page := range []int{1, 1, 2} {
		if _, err := repo.Add(models.Annotation{
			Type: models.AnnotationHighlight, PageNumber: page, Data: json.RawMessage(`{}`),
		}); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 3 || stats.ByType[models.AnnotationHighlight] != 3 || stats.ByPage[1] != 2 {
		t.Errorf("stats = %+v", stats)
	}

	data, err := repo.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	n, err := repo.ImportJSON(data, true)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if n != 3 {
		t.Errorf("imported = %d, want 3", n)
	}
	after, err := repo.Query(models.AnnotationFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != 3 {
		t.Errorf("after clearing import = %d, want 3", len(after))
	}
}
