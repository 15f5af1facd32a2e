package mushaf

// Metadata tables for the standard 604-page Madani pagination: which pages
// each surah and juz span. Static reference data, read-only at runtime.

const (
	// TotalPages is the page count of the standard Madani Mushaf.
	TotalPages = 604

	// TotalSurahs is the number of surahs in the Quran.
	TotalSurahs = 114

	// TotalJuz is the number of juz sections.
	TotalJuz = 30
)

// SurahRange is one surah's span of pages and juz sections.
type SurahRange struct {
	Surah     int
	Name      string
	StartPage int
	EndPage   int
	StartJuz  int
	EndJuz    int
}

// JuzRange is one juz's span of pages.
type JuzRange struct {
	Juz       int
	StartPage int
	EndPage   int
}

var surahRanges = []SurahRange{
	{1, "Al-Fatihah", 1, 1, 1, 1},
	{2, "Al-Baqarah", 2, 49, 1, 3},
	{3, "Aal-e-Imran", 50, 76, 3, 4},
	{4, "An-Nisa", 77, 106, 4, 6},
	{5, "Al-Maidah", 106, 127, 6, 7},
	{6, "Al-Anam", 128, 151, 7, 8},
	{7, "Al-Araf", 151, 176, 8, 9},
	{8, "Al-Anfal", 177, 186, 9, 10},
	{9, "At-Tawbah", 187, 207, 10, 11},
	{10, "Yunus", 208, 221, 11, 11},
	{11, "Hud", 221, 235, 11, 12},
	{12, "Yusuf", 235, 248, 12, 13},
	{13, "Ar-Rad", 249, 255, 13, 13},
	{14, "Ibrahim", 255, 261, 13, 13},
	{15, "Al-Hijr", 262, 267, 14, 14},
	{16, "An-Nahl", 267, 281, 14, 14},
	{17, "Al-Isra", 282, 293, 15, 15},
	{18, "Al-Kahf", 293, 304, 15, 16},
	{19, "Maryam", 305, 312, 16, 16},
	{20, "Taha", 312, 321, 16, 16},
	{21, "Al-Anbiya", 322, 331, 17, 17},
	{22, "Al-Hajj", 332, 341, 17, 17},
	{23, "Al-Muminun", 342, 349, 18, 18},
	{24, "An-Nur", 350, 359, 18, 18},
	{25, "Al-Furqan", 359, 366, 18, 19},
	{26, "Ash-Shuara", 367, 377, 19, 19},
	{27, "An-Naml", 377, 385, 19, 20},
	{28, "Al-Qasas", 385, 396, 20, 20},
	{29, "Al-Ankabut", 396, 404, 20, 21},
	{30, "Ar-Rum", 404, 410, 21, 21},
	{31, "Luqman", 411, 414, 21, 21},
	{32, "As-Sajdah", 415, 417, 21, 21},
	{33, "Al-Ahzab", 418, 427, 21, 22},
	{34, "Saba", 428, 433, 22, 22},
	{35, "Fatir", 434, 440, 22, 22},
	{36, "Ya-Sin", 440, 445, 22, 23},
	{37, "As-Saffat", 446, 452, 23, 23},
	{38, "Sad", 453, 458, 23, 23},
	{39, "Az-Zumar", 458, 467, 23, 24},
	{40, "Ghafir", 467, 476, 24, 24},
	{41, "Fussilat", 477, 482, 24, 25},
	{42, "Ash-Shuraa", 483, 489, 25, 25},
	{43, "Az-Zukhruf", 489, 495, 25, 25},
	{44, "Ad-Dukhan", 496, 498, 25, 25},
	{45, "Al-Jathiyah", 499, 502, 25, 25},
	{46, "Al-Ahqaf", 502, 507, 26, 26},
	{47, "Muhammad", 507, 511, 26, 26},
	{48, "Al-Fath", 511, 515, 26, 26},
	{49, "Al-Hujurat", 515, 518, 26, 26},
	{50, "Qaf", 518, 520, 26, 26},
	{51, "Adh-Dhariyat", 520, 523, 26, 27},
	{52, "At-Tur", 523, 525, 27, 27},
	{53, "An-Najm", 526, 528, 27, 27},
	{54, "Al-Qamar", 528, 531, 27, 27},
	{55, "Ar-Rahman", 531, 534, 27, 27},
	{56, "Al-Waqiah", 534, 537, 27, 27},
	{57, "Al-Hadid", 537, 541, 27, 27},
	{58, "Al-Mujadila", 542, 545, 28, 28},
	{59, "Al-Hashr", 545, 548, 28, 28},
	{60, "Al-Mumtahanah", 549, 551, 28, 28},
	{61, "As-Saff", 551, 553, 28, 28},
	{62, "Al-Jumuah", 553, 554, 28, 28},
	{63, "Al-Munafiqun", 554, 556, 28, 28},
	{64, "At-Taghabun", 556, 558, 28, 28},
	{65, "At-Talaq", 558, 560, 28, 28},
	{66, "At-Tahrim", 560, 562, 28, 28},
	{67, "Al-Mulk", 562, 564, 29, 29},
	{68, "Al-Qalam", 564, 566, 29, 29},
	{69, "Al-Haqqah", 566, 568, 29, 29},
	{70, "Al-Maarij", 568, 570, 29, 29},
	{71, "Nuh", 570, 571, 29, 29},
	{72, "Al-Jinn", 572, 573, 29, 29},
	{73, "Al-Muzzammil", 574, 575, 29, 29},
	{74, "Al-Muddaththir", 575, 577, 29, 29},
	{75, "Al-Qiyamah", 577, 578, 29, 29},
	{76, "Al-Insan", 578, 580, 29, 29},
	{77, "Al-Mursalat", 580, 581, 29, 29},
	{78, "An-Naba", 582, 583, 30, 30},
	{79, "An-Naziat", 583, 585, 30, 30},
	{80, "Abasa", 585, 586, 30, 30},
	{81, "At-Takwir", 586, 587, 30, 30},
	{82, "Al-Infitar", 587, 587, 30, 30},
	{83, "Al-Mutaffifin", 587, 589, 30, 30},
	{84, "Al-Inshiqaq", 589, 590, 30, 30},
	{85, "Al-Buruj", 590, 591, 30, 30},
	{86, "At-Tariq", 591, 591, 30, 30},
	{87, "Al-Ala", 591, 592, 30, 30},
	{88, "Al-Ghashiyah", 592, 592, 30, 30},
	{89, "Al-Fajr", 593, 594, 30, 30},
	{90, "Al-Balad", 594, 595, 30, 30},
	{91, "Ash-Shams", 595, 595, 30, 30},
	{92, "Al-Lail", 595, 596, 30, 30},
	{93, "Ad-Duhaa", 596, 596, 30, 30},
	{94, "Ash-Sharh", 596, 596, 30, 30},
	{95, "At-Tin", 597, 597, 30, 30},
	{96, "Al-Alaq", 597, 597, 30, 30},
	{97, "Al-Qadr", 598, 598, 30, 30},
	{98, "Al-Bayyinah", 598, 598, 30, 30},
	{99, "Az-Zalzalah", 599, 599, 30, 30},
	{100, "Al-Adiyat", 599, 599, 30, 30},
	{101, "Al-Qariah", 600, 600, 30, 30},
	{102, "At-Takathur", 600, 600, 30, 30},
	{103, "Al-Asr", 600, 600, 30, 30},
	{104, "Al-Humazah", 601, 601, 30, 30},
	{105, "Al-Fil", 601, 601, 30, 30},
	{106, "Quraish", 601, 601, 30, 30},
	{107, "Al-Maun", 602, 602, 30, 30},
	{108, "Al-Kawthar", 602, 602, 30, 30},
	{109, "Al-Kafirun", 602, 602, 30, 30},
	{110, "An-Nasr", 603, 603, 30, 30},
	{111, "Al-Masad", 603, 603, 30, 30},
	{112, "Al-Ikhlas", 604, 604, 30, 30},
	{113, "Al-Falaq", 604, 604, 30, 30},
	{114, "An-Nas", 604, 604, 30, 30},}

var juzRanges = []JuzRange{
	{1, 1, 21},
	{2, 22, 41},
	{3, 42, 61},
	{4, 62, 81},
	{5, 82, 101},
	{6, 102, 121},
	{7, 122, 141},
	{8, 142, 161},
	{9, 162, 181},
	{10, 182, 201},
	{11, 202, 221},
	{12, 222, 241},
	{13, 242, 261},
	{14, 262, 281},
	{15, 282, 301},
	{16, 302, 321},
	{17, 322, 341},
	{18, 342, 361},
	{19, 362, 381},
	{20, 382, 401},
	{21, 402, 421},
	{22, 422, 441},
	{23, 442, 461},
	{24, 462, 481},
	{25, 482, 501},
	{26, 502, 521},
	{27, 522, 541},
	{28, 542, 561},
	{29, 562, 581},
	{30, 582, 604},
}

// SurahForPage returns the number of the surah a page opens in, falling
// back to 1 for out-of-table pages.
func SurahForPage(page int) int {
	for _, s := range surahRanges {
		if page >= s.StartPage && page <= s.EndPage {
			return s.Surah
		}
	}
	return 1
}

// JuzForPage returns the juz a page belongs to, falling back to 1.
func JuzForPage(page int) int {
	for _, j := range juzRanges {
		if page >= j.StartPage && page <= j.EndPage {
			return j.Juz
		}
	}
	return 1
}

// SurahInfo returns a surah's page range.
func SurahInfo(surah int) (SurahRange, bool) {
	if surah < 1 || surah > TotalSurahs {
		return SurahRange{}, false
	}
	return surahRanges[surah-1], true
}

// JuzInfo returns a juz's page range.
func JuzInfo(juz int) (JuzRange, bool) {
	if juz < 1 || juz > TotalJuz {
		return JuzRange{}, false
	}
	return juzRanges[juz-1], true
}

// SurahName returns the transliterated surah name, or "" outside the
// valid range.
func SurahName(surah int) string {
	if info, ok := SurahInfo(surah); ok {
		return info.Name
	}
	return ""
}
