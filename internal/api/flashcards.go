package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/quranhifz/hifzd/internal/fsrs"
	"github.com/quranhifz/hifzd/internal/models"
	"github.com/quranhifz/hifzd/internal/studyservice"
)

func flashcardFromRequest(req CreateFlashcardRequest) models.Flashcard {
	return models.Flashcard{
		Type:     models.FlashcardType(req.Type),
		Surah:    req.Surah,
		Ayah:     req.Ayah,
		Page:     req.Page,
		Front:    req.Front,
		Back:     req.Back,
		Metadata: req.Metadata,
	}
}

// ListFlashcards handles GET /flashcards.
//
//	@Summary		List flashcards with optional type, surah, page, or juz filter
//	@Tags			flashcards
//	@Produce		json
//	@Param			type	query		string	false	"Card type"	Enums(mistake, mutashabihat, transition, custom-transition, page-number)
//	@Param			surah	query		int		false	"Filter by surah"
//	@Param			page	query		int		false	"Filter by page"
//	@Param			juz		query		int		false	"Filter by juz"
//	@Success		200		{object}	FlashcardListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/flashcards [get]
func (h *Handler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	surah, _ := strconv.Atoi(q.Get("surah"))
	page, _ := strconv.Atoi(q.Get("page"))
	juz, _ := strconv.Atoi(q.Get("juz"))
	filter := studyservice.CardFilter{
		Type:  models.FlashcardType(q.Get("type")),
		Surah: surah,
		Page:  page,
		Juz:   juz,
	}
	cards, err := h.svc.ListFlashcards(r.Context(), filter)
	if err != nil {
		writeError(w, "list flashcards", err)
		return
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	writeJSON(w, http.StatusOK, FlashcardListResponse{Flashcards: cards, Total: len(cards)})
}

// CreateFlashcard handles POST /flashcards.
//
//	@Summary		Create a flashcard
//	@Tags			flashcards
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateFlashcardRequest	true	"Card to create"
//	@Success		201		{object}	models.Flashcard
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/flashcards [post]
func (h *Handler) CreateFlashcard(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateFlashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Type == "" || req.Front == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("type and front are required"))
		return
	}
	card, err := h.svc.CreateFlashcard(r.Context(), flashcardFromRequest(req))
	if err != nil {
		writeError(w, "create flashcard", err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// GetFlashcard handles GET /flashcards/{id}.
//
//	@Summary		Get a flashcard by id
//	@Tags			flashcards
//	@Produce		json
//	@Param			id	path		string	true	"Card id"
//	@Success		200	{object}	models.Flashcard
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/flashcards/{id} [get]
func (h *Handler) GetFlashcard(w http.ResponseWriter, r *http.Request) {
	card, err := h.svc.GetFlashcard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get flashcard", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// UpdateFlashcard handles PUT /flashcards/{id}.
//
//	@Summary		Update a flashcard's content fields
//	@Tags			flashcards
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Card id"
//	@Param			body	body		UpdateFlashcardRequest	true	"Updated content"
//	@Success		200		{object}	models.Flashcard
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/flashcards/{id} [put]
func (h *Handler) UpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req UpdateFlashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	card := flashcardFromRequest(req)
	card.ID = chi.URLParam(r, "id")
	updated, err := h.svc.UpdateFlashcard(r.Context(), card)
	if err != nil {
		writeError(w, "update flashcard", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteFlashcard handles DELETE /flashcards/{id}.
//
//	@Summary		Delete a flashcard
//	@Tags			flashcards
//	@Param			id	path	string	true	"Card id"
//	@Success		204	"Card deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/flashcards/{id} [delete]
func (h *Handler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteFlashcard(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete flashcard", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DueFlashcards handles GET /flashcards/due.
//
//	@Summary		List cards due for review now, oldest due first
//	@Tags			flashcards
//	@Produce		json
//	@Param			type	query		string	false	"Card type"
//	@Success		200		{object}	FlashcardListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/flashcards/due [get]
func (h *Handler) DueFlashcards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.svc.DueFlashcards(r.Context(), models.FlashcardType(r.URL.Query().Get("type")))
	if err != nil {
		writeError(w, "due flashcards", err)
		return
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	writeJSON(w, http.StatusOK, FlashcardListResponse{Flashcards: cards, Total: len(cards)})
}

// ReviewFlashcard handles POST /flashcards/{id}/review.
//
//	@Summary		Grade a card and advance its review schedule
//	@Tags			flashcards
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Card id"
//	@Param			body	body		ReviewRequest	true	"Rating 1 (again) to 4 (easy)"
//	@Success		200		{object}	models.Flashcard
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/flashcards/{id}/review [post]
func (h *Handler) ReviewFlashcard(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	card, err := h.svc.ReviewFlashcard(r.Context(), chi.URLParam(r, "id"), fsrs.Rating(req.Rating))
	if err != nil {
		writeError(w, "review flashcard", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// FlashcardStats handles GET /flashcards/stats.
//
//	@Summary		Flashcard collection statistics
//	@Tags			flashcards
//	@Produce		json
//	@Success		200	{object}	models.FlashcardStats
//	@Security		BearerAuth
//	@Router			/flashcards/stats [get]
func (h *Handler) FlashcardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.FlashcardStats(r.Context())
	if err != nil {
		writeError(w, "flashcard stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ExportFlashcards handles GET /flashcards/export.
//
//	@Summary		Export all flashcards as JSON
//	@Tags			flashcards
//	@Produce		json
//	@Success		200	{array}	models.Flashcard
//	@Security		BearerAuth
//	@Router			/flashcards/export [get]
func (h *Handler) ExportFlashcards(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportFlashcards(r.Context())
	if err != nil {
		writeError(w, "export flashcards", err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ImportFlashcards handles POST /flashcards/import.
//
//	@Summary		Import flashcards from an export
//	@Tags			flashcards
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ImportRequest	true	"Exported cards, optionally replacing the collection"
//	@Success		200		{object}	ImportResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/flashcards/import [post]
func (h *Handler) ImportFlashcards(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	n, err := h.svc.ImportFlashcards(r.Context(), req.Data, req.Replace)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid export payload"))
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Imported: n})
}
