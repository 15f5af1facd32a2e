package api

import (
	"encoding/json"
	"net/http"

	"github.com/quranhifz/hifzd/internal/highlight"
)

// PlaybackStartRequest begins highlight synchronization for a verse.
type PlaybackStartRequest struct {
	VerseKey string `json:"verse_key" example:"2:255" validate:"required"`
}

// PlaybackPositionRequest reports the current audio position.
type PlaybackPositionRequest struct {
	Position float64 `json:"position" example:"3.25" validate:"required"`
}

// TransformRequest applies the client's view transform to highlights.
type TransformRequest struct {
	Zoom float64 `json:"zoom" example:"1.5"`
	PanX float64 `json:"pan_x" example:"10"`
	PanY float64 `json:"pan_y" example:"-4"`
}

// StartPlayback handles POST /playback/start.
//
//	@Summary		Start the highlight loop for a verse
//	@Tags			playback
//	@Accept			json
//	@Param			body	body	PlaybackStartRequest	true	"Verse to follow"
//	@Success		204		"Playback started"
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/playback/start [post]
func (h *Handler) StartPlayback(w http.ResponseWriter, r *http.Request) {
	var req PlaybackStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VerseKey == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("verse_key is required"))
		return
	}
	if err := h.svc.StartPlayback(r.Context(), req.VerseKey); err != nil {
		writeError(w, "start playback", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdatePlayback handles POST /playback/position.
//
//	@Summary		Report the audio position in seconds
//	@Tags			playback
//	@Accept			json
//	@Param			body	body	PlaybackPositionRequest	true	"Playback position"
//	@Success		204		"Position updated"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/playback/position [post]
func (h *Handler) UpdatePlayback(w http.ResponseWriter, r *http.Request) {
	var req PlaybackPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.UpdatePlayback(r.Context(), req.Position); err != nil {
		writeError(w, "update playback", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StopPlayback handles POST /playback/stop.
//
//	@Summary		Stop the highlight loop
//	@Tags			playback
//	@Success		204	"Playback stopped"
//	@Security		BearerAuth
//	@Router			/playback/stop [post]
func (h *Handler) StopPlayback(w http.ResponseWriter, r *http.Request) {
	h.svc.StopPlayback(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// SetTransform handles POST /playback/transform.
//
//	@Summary		Apply the client's zoom and pan to emitted highlights
//	@Tags			playback
//	@Accept			json
//	@Param			body	body	TransformRequest	true	"View transform"
//	@Success		204		"Transform applied"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/playback/transform [post]
func (h *Handler) SetTransform(w http.ResponseWriter, r *http.Request) {
	var req TransformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	t := highlight.Transform{Zoom: req.Zoom, PanX: req.PanX, PanY: req.PanY}
	if err := h.svc.SetViewTransform(r.Context(), t); err != nil {
		writeError(w, "set transform", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Playback handles GET /playback.
//
//	@Summary		Report the highlight loop state
//	@Tags			playback
//	@Produce		json
//	@Success		200	{object}	studyservice.PlaybackStatus
//	@Security		BearerAuth
//	@Router			/playback [get]
func (h *Handler) Playback(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Playback(r.Context()))
}
