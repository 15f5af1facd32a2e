package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quranhifz/hifzd/internal/studyservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *studyservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Pages.
	r.Get("/pages/{number}", h.GetPage)
	r.Get("/pages/{number}/map", h.GetPageMap)
	r.Get("/pages/{number}/verify", h.VerifyPage)
	r.Delete("/pages/{number}/annotations", h.ClearPageAnnotations)

	// Verses and search.
	r.Get("/verses/{key}", h.GetVerse)
	r.Get("/search", h.Search)

	// Flashcards. Fixed segments are registered before the id routes so
	// chi matches them first.
	r.Get("/flashcards", h.ListFlashcards)
	r.Post("/flashcards", h.CreateFlashcard)
	r.Get("/flashcards/due", h.DueFlashcards)
	r.Get("/flashcards/stats", h.FlashcardStats)
	r.Get("/flashcards/export", h.ExportFlashcards)
	r.Post("/flashcards/import", h.ImportFlashcards)
	r.Get("/flashcards/{id}", h.GetFlashcard)
	r.Put("/flashcards/{id}", h.UpdateFlashcard)
	r.Delete("/flashcards/{id}", h.DeleteFlashcard)
	r.Post("/flashcards/{id}/review", h.ReviewFlashcard)

	// Annotations.
	r.Get("/annotations", h.ListAnnotations)
	r.Post("/annotations", h.CreateAnnotation)
	r.Get("/annotations/stats", h.AnnotationStats)
	r.Get("/annotations/export", h.ExportAnnotations)
	r.Post("/annotations/import", h.ImportAnnotations)
	r.Get("/annotations/{id}", h.GetAnnotation)
	r.Put("/annotations/{id}", h.UpdateAnnotation)
	r.Delete("/annotations/{id}", h.DeleteAnnotation)

	// Audio playback highlight loop.
	r.Get("/playback", h.Playback)
	r.Post("/playback/start", h.StartPlayback)
	r.Post("/playback/position", h.UpdatePlayback)
	r.Post("/playback/stop", h.StopPlayback)
	r.Post("/playback/transform", h.SetTransform)

	// Undo history.
	r.Get("/history", h.History)
	r.Post("/history/undo", h.Undo)
	r.Post("/history/redo", h.Redo)

	// Verse cache.
	r.Get("/cache/stats", h.CacheStats)
	r.Delete("/cache", h.ClearCache)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
