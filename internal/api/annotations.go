package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/quranhifz/hifzd/internal/models"
)

func annotationFromRequest(req AnnotationRequest) models.Annotation {
	return models.Annotation{
		Type:       models.AnnotationType(req.Type),
		PageNumber: req.PageNumber,
		VerseKey:   req.VerseKey,
		Data:       req.Data,
		Tags:       req.Tags,
	}
}

// ListAnnotations handles GET /annotations.
//
//	@Summary		List annotations with optional page, verse, type, or tag filters
//	@Tags			annotations
//	@Produce		json
//	@Param			page	query		int		false	"Filter by page"
//	@Param			verse	query		string	false	"Filter by verse key"
//	@Param			type	query		string	false	"Annotation type"	Enums(drawing, highlight, underline, circle, note)
//	@Param			tag		query		string	false	"Filter by tag"
//	@Success		200		{object}	AnnotationListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/annotations [get]
func (h *Handler) ListAnnotations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	filter := models.AnnotationFilter{
		PageNumber: page,
		VerseKey:   q.Get("verse"),
		Type:       models.AnnotationType(q.Get("type")),
	}
	if tag := q.Get("tag"); tag != "" {
		filter.Tags = []string{tag}
	}
	items, err := h.svc.QueryAnnotations(r.Context(), filter)
	if err != nil {
		writeError(w, "list annotations", err)
		return
	}
	if items == nil {
		items = []models.Annotation{}
	}
	writeJSON(w, http.StatusOK, AnnotationListResponse{Annotations: items, Total: len(items)})
}

// CreateAnnotation handles POST /annotations.
//
//	@Summary		Create an annotation on a page or verse
//	@Tags			annotations
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AnnotationRequest	true	"Annotation to create"
//	@Success		201		{object}	models.Annotation
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/annotations [post]
func (h *Handler) CreateAnnotation(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req AnnotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Type == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("type is required"))
		return
	}
	a, err := h.svc.AddAnnotation(r.Context(), annotationFromRequest(req))
	if err != nil {
		writeError(w, "create annotation", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// GetAnnotation handles GET /annotations/{id}.
//
//	@Summary		Get an annotation by id
//	@Tags			annotations
//	@Produce		json
//	@Param			id	path		string	true	"Annotation id"
//	@Success		200	{object}	models.Annotation
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/annotations/{id} [get]
func (h *Handler) GetAnnotation(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetAnnotation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get annotation", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// UpdateAnnotation handles PUT /annotations/{id}.
//
//	@Summary		Update an annotation
//	@Tags			annotations
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Annotation id"
//	@Param			body	body		AnnotationRequest	true	"Updated annotation"
//	@Success		200		{object}	models.Annotation
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/annotations/{id} [put]
func (h *Handler) UpdateAnnotation(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req AnnotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	a := annotationFromRequest(req)
	a.ID = chi.URLParam(r, "id")
	updated, err := h.svc.UpdateAnnotation(r.Context(), a)
	if err != nil {
		writeError(w, "update annotation", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteAnnotation handles DELETE /annotations/{id}.
//
//	@Summary		Delete an annotation
//	@Tags			annotations
//	@Param			id	path	string	true	"Annotation id"
//	@Success		204	"Annotation deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/annotations/{id} [delete]
func (h *Handler) DeleteAnnotation(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAnnotation(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete annotation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearPageAnnotations handles DELETE /pages/{number}/annotations.
//
//	@Summary		Remove every annotation on a page
//	@Tags			annotations
//	@Produce		json
//	@Param			number	path		int	true	"Page number"
//	@Success		200		{object}	map[string]int
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/pages/{number}/annotations [delete]
func (h *Handler) ClearPageAnnotations(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid page number"))
		return
	}
	n, err := h.svc.ClearPageAnnotations(r.Context(), page)
	if err != nil {
		writeError(w, "clear page annotations", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

// AnnotationStats handles GET /annotations/stats.
//
//	@Summary		Annotation statistics
//	@Tags			annotations
//	@Produce		json
//	@Success		200	{object}	models.AnnotationStats
//	@Security		BearerAuth
//	@Router			/annotations/stats [get]
func (h *Handler) AnnotationStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.AnnotationStats(r.Context())
	if err != nil {
		writeError(w, "annotation stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ExportAnnotations handles GET /annotations/export.
//
//	@Summary		Export all annotations as JSON
//	@Tags			annotations
//	@Produce		json
//	@Success		200	{array}	models.Annotation
//	@Security		BearerAuth
//	@Router			/annotations/export [get]
func (h *Handler) ExportAnnotations(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportAnnotations(r.Context())
	if err != nil {
		writeError(w, "export annotations", err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ImportAnnotations handles POST /annotations/import.
//
//	@Summary		Import annotations from an export
//	@Tags			annotations
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ImportRequest	true	"Exported annotations, optionally replacing the collection"
//	@Success		200		{object}	ImportResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/annotations/import [post]
func (h *Handler) ImportAnnotations(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	n, err := h.svc.ImportAnnotations(r.Context(), req.Data, req.Replace)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid export payload"))
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Imported: n})
}
