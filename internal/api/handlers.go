package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/quranhifz/hifzd/internal/apperr"
	"github.com/quranhifz/hifzd/internal/studyservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *studyservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *studyservice.Service) *Handler {
	return &Handler{svc: svc}
}

// writeError maps domain errors onto HTTP statuses. Anything unmapped is a
// logged 500 with a generic body.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrNoData):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrOutOfRange):
		writeJSON(w, http.StatusBadRequest, errorBody("out of range"))
	case errors.Is(err, apperr.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody("already exists"))
	case errors.Is(err, apperr.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("unavailable"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// pageParam parses the {number} URL parameter.
func pageParam(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "number"))
	return n, err == nil
}

// GetPage handles GET /pages/{number}.
//
//	@Summary		Get a reconstructed page with its spatial map
//	@Tags			pages
//	@Produce		json
//	@Param			number	path		int	true	"Page number (1-604)"
//	@Success		200		{object}	PageDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/pages/{number} [get]
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid page number"))
		return
	}
	detail, err := h.svc.GetPage(r.Context(), page)
	if err != nil {
		writeError(w, "get page", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// GetPageMap handles GET /pages/{number}/map.
//
//	@Summary		Get only the spatial word map of a page
//	@Tags			pages
//	@Produce		json
//	@Param			number	path		int	true	"Page number (1-604)"
//	@Success		200		{object}	layout.PageMap
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/pages/{number}/map [get]
func (h *Handler) GetPageMap(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid page number"))
		return
	}
	pm, err := h.svc.PageMap(r.Context(), page)
	if err != nil {
		writeError(w, "get page map", err)
		return
	}
	writeJSON(w, http.StatusOK, pm)
}

// VerifyPage handles GET /pages/{number}/verify.
//
//	@Summary		Verify a page's boundaries against the edition sample
//	@Tags			pages
//	@Produce		json
//	@Param			number	path		int	true	"Page number (1-604)"
//	@Success		200		{object}	PageCheck
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/pages/{number}/verify [get]
func (h *Handler) VerifyPage(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid page number"))
		return
	}
	check, err := h.svc.VerifyPage(r.Context(), page)
	if err != nil {
		writeError(w, "verify page", err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

// GetVerse handles GET /verses/{key}.
//
//	@Summary		Get a single verse with word segments
//	@Tags			verses
//	@Produce		json
//	@Param			key	path		string	true	"Verse key, e.g. 2:255"
//	@Success		200	{object}	models.Verse
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/verses/{key} [get]
func (h *Handler) GetVerse(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("verse key is required"))
		return
	}
	verse, err := h.svc.GetVerse(r.Context(), key)
	if err != nil {
		writeError(w, "get verse", err)
		return
	}
	writeJSON(w, http.StatusOK, verse)
}

// Search handles GET /search.
//
//	@Summary		Diacritic-insensitive full-text search over indexed verses
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.SearchVerses(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	if results == nil {
		results = []VerseHit{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// CacheStats handles GET /cache/stats.
//
//	@Summary		Verse cache usage
//	@Tags			cache
//	@Produce		json
//	@Success		200	{object}	versecache.Stats
//	@Security		BearerAuth
//	@Router			/cache/stats [get]
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.CacheStats(r.Context())
	if err != nil {
		writeError(w, "cache stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ClearCache handles DELETE /cache.
//
//	@Summary		Drop all cached verse data
//	@Tags			cache
//	@Success		204	"Cache cleared"
//	@Security		BearerAuth
//	@Router			/cache [delete]
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearCache(r.Context()); err != nil {
		writeError(w, "clear cache", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Undo handles POST /history/undo.
//
//	@Summary		Undo the most recent edit
//	@Tags			history
//	@Produce		json
//	@Success		200	{object}	UndoResponse
//	@Security		BearerAuth
//	@Router			/history/undo [post]
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	done, desc, err := h.svc.Undo(r.Context())
	if err != nil {
		writeError(w, "undo", err)
		return
	}
	writeJSON(w, http.StatusOK, UndoResponse{Done: done, Description: desc})
}

// Redo handles POST /history/redo.
//
//	@Summary		Reapply the most recently undone edit
//	@Tags			history
//	@Produce		json
//	@Success		200	{object}	UndoResponse
//	@Security		BearerAuth
//	@Router			/history/redo [post]
func (h *Handler) Redo(w http.ResponseWriter, r *http.Request) {
	done, desc, err := h.svc.Redo(r.Context())
	if err != nil {
		writeError(w, "redo", err)
		return
	}
	writeJSON(w, http.StatusOK, UndoResponse{Done: done, Description: desc})
}

// History handles GET /history.
//
//	@Summary		List the undo and redo stacks
//	@Tags			history
//	@Produce		json
//	@Success		200	{object}	HistoryResponse
//	@Security		BearerAuth
//	@Router			/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.History(r.Context()))
}
