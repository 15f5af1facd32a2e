package models

import "testing"

func TestVerseKeyRoundTrip(t *testing.T) {
	key := VerseKey(2, 255)
	if key != "2:255" {
		t.Fatalf("VerseKey = %q", key)
	}

	surah, ayah, err := SplitVerseKey(key)
	if err != nil {
		t.Fatalf("SplitVerseKey: %v", err)
	}
	if surah != 2 || ayah != 255 {
		t.Errorf("split = %d:%d", surah, ayah)
	}
}

func TestSplitVerseKeyMalformed(t *testing.T) {
	for _, key := range []string{"", "2", "2:", ":5", "a:b", "2:x", "2-255"} {
		if _, _, err := SplitVerseKey(key); err == nil {
			t.Errorf("SplitVerseKey(%q) should fail", key)
		}
	}
}

func TestVerseSurahAyah(t *testing.T) {
	v := Verse{VerseKey: "18:10"}
	if v.Surah() != 18 || v.Ayah() != 10 {
		t.Errorf("got %d:%d", v.Surah(), v.Ayah())
	}

	bad := Verse{VerseKey: "garbage"}
	if bad.Surah() != 0 || bad.Ayah() != 0 {
		t.Errorf("malformed key should yield zeros, got %d:%d", bad.Surah(), bad.Ayah())
	}
}

func TestBoundingBoxContains(t *testing.T) {
	b := BoundingBox{X: 10, Y: 20, Width: 100, Height: 30}

	cases := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 60, 35, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 50, true},
		{"left of box", 9, 35, false},
		{"below box", 60, 51, false},
	}
	for _, tc := range cases {
		if got := b.Contains(tc.x, tc.y); got != tc.want {
			t.Errorf("%s: Contains(%v, %v) = %v, want %v", tc.name, tc.x, tc.y, got, tc.want)
		}
	}
}

func TestBoundingBoxIntersects(t *testing.T) {
	a := BoundingBox{X: 0, Y: 0, Width: 10, Height: 10}

	if !a.Intersects(BoundingBox{X: 5, Y: 5, Width: 10, Height: 10}) {
		t.Error("overlapping boxes should intersect")
	}
	if !a.Intersects(BoundingBox{X: 10, Y: 0, Width: 10, Height: 10}) {
		t.Error("edge-touching boxes should intersect")
	}
	if a.Intersects(BoundingBox{X: 20, Y: 20, Width: 5, Height: 5}) {
		t.Error("disjoint boxes should not intersect")
	}
}

func TestBoundingBoxUnion(t *testing.T) {
	a := BoundingBox{X: 0, Y: 0, Width: 10, Height: 10}
	b := BoundingBox{X: 20, Y: 5, Width: 10, Height: 10}

	u := a.Union(b)
	want := BoundingBox{X: 0, Y: 0, Width: 30, Height: 15}
	if u != want {
		t.Errorf("Union = %+v, want %+v", u, want)
	}

	// Union with itself is the identity.
	if got := a.Union(a); got != a {
		t.Errorf("self union = %+v", got)
	}
}

func TestFlashcardTypes(t *testing.T) {
	for _, ft := range FlashcardTypes() {
		if !ValidFlashcardType(ft) {
			t.Errorf("registered type %q reported invalid", ft)
		}
	}
	if ValidFlashcardType("cloze") {
		t.Error("unregistered type reported valid")
	}
}

func TestAnnotationTypes(t *testing.T) {
	for _, at := range AnnotationTypes() {
		if !ValidAnnotationType(at) {
			t.Errorf("registered type %q reported invalid", at)
		}
	}
	if ValidAnnotationType("doodle") {
		t.Error("unregistered type reported valid")
	}
}
