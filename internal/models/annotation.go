package models

import (
	"encoding/json"
	"time"
)

// AnnotationType classifies user marks on a page.
type AnnotationType string

const (
	AnnotationDrawing   AnnotationType = "drawing"
	AnnotationHighlight AnnotationType = "highlight"
	AnnotationUnderline AnnotationType = "underline"
	AnnotationCircle    AnnotationType = "circle"
	AnnotationNote      AnnotationType = "note"
)

// AnnotationTypes lists every valid annotation type.
func AnnotationTypes() []AnnotationType {
	return []AnnotationType{
		AnnotationDrawing, AnnotationHighlight, AnnotationUnderline, AnnotationCircle, AnnotationNote,
	}
}

// ValidAnnotationType reports whether t is a known annotation type.
func ValidAnnotationType(t AnnotationType) bool {
	for _, known := range AnnotationTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Point is one sampled position of a drawing stroke.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DrawingData is the payload of a freehand drawing annotation.
type DrawingData struct {
	Points  []Point `json:"points"`
	Color   string  `json:"color"`
	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity,omitempty"`
}

// HighlightData is the payload of a box annotation (highlight, underline,
// circle).
type HighlightData struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity,omitempty"`
}

// NoteData is the payload of a positioned text note.
type NoteData struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Annotation is one user mark anchored to a page and optionally a verse.
// Data holds the type-specific payload and is stored as-is.
type Annotation struct {
	ID         string          `json:"id"`
	Type       AnnotationType  `json:"type"`
	PageNumber int             `json:"page_number"`
	VerseKey   string          `json:"verse_key,omitempty"`
	Data       json.RawMessage `json:"data"`
	Tags       []string        `json:"tags,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	ModifiedAt time.Time       `json:"modified_at"`
}

// AnnotationFilter narrows annotation queries. Zero fields match anything;
// filters combine with AND, except Tags which matches any listed tag.
type AnnotationFilter struct {
	PageNumber int
	VerseKey   string
	Type       AnnotationType
	Tags       []string
}

// AnnotationStats summarizes stored annotations.
type AnnotationStats struct {
	Total  int                    `json:"total"`
	ByType map[AnnotationType]int `json:"by_type"`
	ByPage map[int]int            `json:"by_page"`
}
