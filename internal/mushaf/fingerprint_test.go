package mushaf

import "testing"

func TestFingerprintByID(t *testing.T) {
	fp, ok := FingerprintByID("madani-15")
	if !ok {
		t.Fatal("madani-15 not registered")
	}
	if fp.LinesPerPage != 15 || fp.TotalPages != 604 || fp.HasTajweed {
		t.Errorf("madani-15 fingerprint wrong: %+v", fp)
	}

	if _, ok := FingerprintByID("nonexistent"); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestFingerprintByIDReturnsCopy(t *testing.T) {
	fp, _ := FingerprintByID("madani-15")
	fp.LinesPerPage = 99

	again, _ := FingerprintByID("madani-15")
	if again.LinesPerPage != 15 {
		t.Error("mutating a returned fingerprint leaked into the registry")
	}
}

func TestSampleFor(t *testing.T) {
	fp, _ := FingerprintByID("madani-15")

	sample, ok := fp.SampleFor(1)
	if !ok {
		t.Fatal("page 1 should carry a sample")
	}
	if sample.FirstAyah != (AyahRef{1, 1}) || sample.LastAyah != (AyahRef{2, 5}) {
		t.Errorf("page 1 sample = %+v", sample)
	}

	if _, ok := fp.SampleFor(3); ok {
		t.Error("page 3 should carry no sample")
	}
}

func TestMatchEditionByLineCount(t *testing.T) {
	// 13 lines matches exactly one registered edition.
	fp := MatchEdition(13, nil)
	if fp == nil || fp.ID != "indopak-13" {
		t.Errorf("13 lines matched %+v, want indopak-13", fp)
	}

	fp = MatchEdition(16, nil)
	if fp == nil || fp.ID != "madani-16-warsh" {
		t.Errorf("16 lines matched %+v, want madani-16-warsh", fp)
	}

	if fp := MatchEdition(11, nil); fp != nil {
		t.Errorf("11 lines matched %+v, want nil", fp)
	}
}

func TestMatchEditionTieBreaksByRegistrationOrder(t *testing.T) {
	// Two 15-line editions share identical samples; the first registered
	// one wins.
	samples := []SamplePage{
		{Page: 1, FirstAyah: AyahRef{1, 1}, LastAyah: AyahRef{2, 5}},
		{Page: 604, FirstAyah: AyahRef{114, 1}, LastAyah: AyahRef{114, 6}},
	}
	fp := MatchEdition(15, samples)
	if fp == nil || fp.ID != "madani-15-tajweed" {
		t.Errorf("matched %+v, want madani-15-tajweed", fp)
	}
}

func TestMatchEditionFallsBackOnUnmatchedSamples(t *testing.T) {
	samples := []SamplePage{
		{Page: 1, FirstAyah: AyahRef{9, 9}, LastAyah: AyahRef{9, 10}},
		{Page: 2, FirstAyah: AyahRef{9, 11}, LastAyah: AyahRef{9, 12}},
	}
	fp := MatchEdition(15, samples)
	if fp == nil || fp.ID != "madani-15-tajweed" {
		t.Errorf("matched %+v, want first-registered fallback", fp)
	}
}

func TestEditionsReturnsAllRegistered(t *testing.T) {
	editions := Editions()
	if len(editions) != 4 {
		t.Fatalf("got %d editions, want 4", len(editions))
	}
	seen := make(map[string]bool)
	for _, e := range editions {
		if e.ID == "" || e.LinesPerPage == 0 || e.TotalPages == 0 {
			t.Errorf("incomplete fingerprint: %+v", e)
		}
		if seen[e.ID] {
			t.Errorf("duplicate edition id %q", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestMetadataTables(t *testing.T) {
	if got := SurahForPage(1); got != 1 {
		t.Errorf("SurahForPage(1) = %d", got)
	}
	if got := SurahForPage(604); got != 114 {
		t.Errorf("SurahForPage(604) = %d", got)
	}
	if got := JuzForPage(604); got != 30 {
		t.Errorf("JuzForPage(604) = %d", got)
	}
	if got := JuzForPage(1); got != 1 {
		t.Errorf("JuzForPage(1) = %d", got)
	}

	info, ok := SurahInfo(2)
	if !ok || info.Name != "Al-Baqarah" {
		t.Errorf("SurahInfo(2) = %+v, %v", info, ok)
	}
	if _, ok := SurahInfo(115); ok {
		t.Error("SurahInfo(115) should fail")
	}

	juz, ok := JuzInfo(30)
	if !ok || juz.StartPage != 582 || juz.EndPage != 604 {
		t.Errorf("JuzInfo(30) = %+v, %v", juz, ok)
	}
	if _, ok := JuzInfo(0); ok {
		t.Error("JuzInfo(0) should fail")
	}

	if name := SurahName(1); name != "Al-Fatihah" {
		t.Errorf("SurahName(1) = %q", name)
	}
	if name := SurahName(0); name != "" {
		t.Errorf("SurahName(0) = %q", name)
	}
}
