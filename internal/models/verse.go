// Package models holds the domain types shared by the Quran engines.
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Word is a single word of a verse as delivered by the upstream API.
// Position is unique and monotonically increasing within its verse.
// LineNumber is assigned upstream and is the ground truth for page layout.
type Word struct {
	ID              int    `json:"id"`
	Position        int    `json:"position"`
	Text            string `json:"text_uthmani"`
	Translation     string `json:"translation,omitempty"`
	Transliteration string `json:"transliteration,omitempty"`
	CharType        string `json:"char_type_name,omitempty"`
	LineNumber      int    `json:"line_number"`
	PageNumber      int    `json:"page_number"`
	AudioURL        string `json:"audio_url,omitempty"`
}

// Verse is an immutable verse record identified by its verse key
// ("surah:ayah"). Consumers receive copies owned by the cache.
type Verse struct {
	ID         int    `json:"id"`
	VerseKey   string `json:"verse_key"`
	Number     int    `json:"verse_number"`
	PageNumber int    `json:"page_number"`
	JuzNumber  int    `json:"juz_number"`
	Text       string `json:"text_uthmani"`
	Words      []Word `json:"words,omitempty"`
}

// Surah returns the surah component of the verse key, or 0 when malformed.
func (v Verse) Surah() int {
	s, _, _ := SplitVerseKey(v.VerseKey)
	return s
}

// Ayah returns the ayah component of the verse key, or 0 when malformed.
func (v Verse) Ayah() int {
	_, a, _ := SplitVerseKey(v.VerseKey)
	return a
}

// VerseKey formats a surah/ayah pair as "surah:ayah".
func VerseKey(surah, ayah int) string {
	return fmt.Sprintf("%d:%d", surah, ayah)
}

// SplitVerseKey parses a "surah:ayah" key.
func SplitVerseKey(key string) (surah, ayah int, err error) {
	parts := strings.SplitN(key, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed verse key %q", key)
	}
	surah, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed verse key %q", key)
	}
	ayah, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed verse key %q", key)
	}
	return surah, ayah, nil
}
