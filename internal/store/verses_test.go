package store

import (
	"testing"

	"github.com/quranhifz/hifzd/internal/models"
)

func sampleVerses() []models.Verse {
	return []models.Verse{
		{VerseKey: "1:1", PageNumber: 1, JuzNumber: 1, Text: "بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ"},
		{VerseKey: "1:2", PageNumber: 1, JuzNumber: 1, Text: "الْحَمْدُ لِلَّهِ رَبِّ الْعَالَمِينَ"},
		{VerseKey: "112:1", PageNumber: 604, JuzNumber: 30, Text: "قُلْ هُوَ اللَّهُ أَحَدٌ"},
	}
}

func TestUpsertAndCount(t *testing.T) {
	repo := NewVerseRepo(testDB(t))

	if err := repo.UpsertVerses(sampleVerses()); err != nil {
		t.Fatalf("UpsertVerses: %v", err)
	}
	n, err := repo.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}

	// Re-indexing the same verses does not duplicate them.
	if err := repo.UpsertVerses(sampleVerses()); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	n, err = repo.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Fatalf("count after re-upsert = %d, want 3", n)
	}
}

func TestSearchIgnoresDiacritics(t *testing.T) {
	repo := NewVerseRepo(testDB(t))
	if err := repo.UpsertVerses(sampleVerses()); err != nil {
		t.Fatalf("UpsertVerses: %v", err)
	}

	// Bare query without harakat matches the vocalized text.
	hits, err := repo.Search("الحمد", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	if hits[0].VerseKey != "1:2" {
		t.Errorf("hit = %q, want 1:2", hits[0].VerseKey)
	}
	if hits[0].SurahName != "Al-Fatihah" {
		t.Errorf("surah name = %q", hits[0].SurahName)
	}
	if hits[0].Page != 1 || hits[0].Juz != 1 {
		t.Errorf("hit location = page %d juz %d", hits[0].Page, hits[0].Juz)
	}
}

func TestSearchNoMatch(t *testing.T) {
	repo := NewVerseRepo(testDB(t))
	if err := repo.UpsertVerses(sampleVerses()); err != nil {
		t.Fatalf("UpsertVerses: %v", err)
	}

	hits, err := repo.Search("xyz", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("hits = %+v, want none", hits)
	}
}

func TestStripDiacritics(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"بِسْمِ", "بسم"},
		{"الرَّحْمَٰنِ", "الرحمن"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripDiacritics(tt.in); got != tt.want {
			t.Errorf("StripDiacritics(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
