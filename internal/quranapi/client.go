// Package quranapi implements the HTTP client for the remote verse API
// (Quran.com v4 compatible). It only fetches; caching lives in versecache.
package quranapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quranhifz/hifzd/internal/models"
)

const (
	// DefaultBaseURL is the public Quran.com API endpoint.
	DefaultBaseURL = "https://api.quran.com/api/v4"

	// pageWordFields is the word field set requested for page rebuilds.
	pageWordFields = "text_uthmani,line_number,page_number,position"

	// richWordFields adds translation, transliteration and audio data for
	// per-verse word lookups.
	richWordFields = "text_uthmani,text_imlaei,translation,transliteration,char_type_name,line_number,page_number,position,audio_url"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchPageVerses fetches all verses of one Mushaf page with the word
// fields needed for line grouping. Range validation is the caller's job.
func (c *Client) FetchPageVerses(ctx context.Context, page int) ([]models.Verse, error) {
	endpoint := fmt.Sprintf("/verses/by_page/%d?words=true&word_fields=%s", page, pageWordFields)

	var result struct {
		Verses []verseResponse `json:"verses"`
	}
	if err := c.get(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	verses := make([]models.Verse, len(result.Verses))
	for i, v := range result.Verses {
		verses[i] = mapVerse(&v)
	}
	return verses, nil
}

// FetchVerse fetches a single verse by key, without word data.
func (c *Client) FetchVerse(ctx context.Context, surah, ayah int) (*models.Verse, error) {
	endpoint := fmt.Sprintf("/verses/by_key/%d:%d", surah, ayah)

	var result struct {
		Verse verseResponse `json:"verse"`
	}
	if err := c.get(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	verse := mapVerse(&result.Verse)
	return &verse, nil
}

// FetchVerseWithWords fetches a single verse with the full word field set
// (translation, transliteration, audio reference).
func (c *Client) FetchVerseWithWords(ctx context.Context, surah, ayah int) (*models.Verse, error) {
	endpoint := fmt.Sprintf("/verses/by_key/%d:%d?words=true&word_fields=%s", surah, ayah, richWordFields)

	var result struct {
		Verse verseResponse `json:"verse"`
	}
	if err := c.get(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	verse := mapVerse(&result.Verse)
	return &verse, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type wordResponse struct {
	ID              int    `json:"id"`
	Position        int    `json:"position"`
	TextUthmani     string `json:"text_uthmani"`
	Translation     *struct {
		Text string `json:"text"`
	} `json:"translation"`
	Transliteration *struct {
		Text string `json:"text"`
	} `json:"transliteration"`
	CharTypeName string `json:"char_type_name"`
	LineNumber   int    `json:"line_number"`
	PageNumber   int    `json:"page_number"`
	AudioURL     string `json:"audio_url"`
}

type verseResponse struct {
	ID          int            `json:"id"`
	VerseNumber int            `json:"verse_number"`
	VerseKey    string         `json:"verse_key"`
	JuzNumber   int            `json:"juz_number"`
	TextUthmani string         `json:"text_uthmani"`
	PageNumber  int            `json:"page_number"`
	Words       []wordResponse `json:"words"`
}

func mapVerse(v *verseResponse) models.Verse {
	verse := models.Verse{
		ID:         v.ID,
		VerseKey:   v.VerseKey,
		Number:     v.VerseNumber,
		PageNumber: v.PageNumber,
		JuzNumber:  v.JuzNumber,
		Text:       v.TextUthmani,
	}
	if len(v.Words) > 0 {
		verse.Words = make([]models.Word, len(v.Words))
		for i, w := range v.Words {
			verse.Words[i] = mapWord(&w)
		}
	}
	return verse
}

func mapWord(w *wordResponse) models.Word {
	word := models.Word{
		ID:         w.ID,
		Position:   w.Position,
		Text:       w.TextUthmani,
		CharType:   w.CharTypeName,
		LineNumber: w.LineNumber,
		PageNumber: w.PageNumber,
		AudioURL:   w.AudioURL,
	}
	if w.Translation != nil {
		word.Translation = w.Translation.Text
	}
	if w.Transliteration != nil {
		word.Transliteration = w.Transliteration.Text
	}
	return word
}
