package note

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdant/service/internal/middleware"
	"github.com/verdant/service/internal/response"
)

// Handler holds HTTP handlers for note endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new note Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List godoc
//
//	@Summary	List notes for a plant
//	@Tags		notes
//	@Produce	json
//	@Security	BearerAuth
//	@Param		plantID	path		string	true	"Plant ID"
//	@Success	200		{object}	response.Envelope{data=[]Note}
//	@Failure	500		{object}	response.Envelope
//	@Router		/plants/{plantID}/notes [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	notes, err := h.svc.List(r.Context(), chi.URLParam(r, "plantID"), userID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, "notes retrieved", notes)
}

type noteRequest struct {
	Content string `json:"content"`
}

// Create godoc
//
//	@Summary	Create a note
//	@Tags		notes
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		plantID	path		string		true	"Plant ID"
//	@Param		body	body		noteRequest	true	"Note"
//	@Success	201		{object}	response.Envelope{data=Note}
//	@Failure	400		{object}	response.Envelope
//	@Failure	404		{object}	response.Envelope
//	@Router		/plants/{plantID}/notes [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err.Error())
		return
	}

	n, err := h.svc.Create(r.Context(), chi.URLParam(r, "plantID"), userID, req.Content)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, "note created", n)
}

// Update godoc
//
//	@Summary	Update a note
//	@Tags		notes
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		noteID	path		string		true	"Note ID"
//	@Param		body	body		noteRequest	true	"Note"
//	@Success	200		{object}	response.Envelope{data=Note}
//	@Failure	400		{object}	response.Envelope
//	@Failure	404		{object}	response.Envelope
//	@Router		/notes/{noteID} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err.Error())
		return
	}

	n, err := h.svc.Update(r.Context(), chi.URLParam(r, "noteID"), userID, req.Content)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, "note updated", n)
}

// Delete godoc
//
//	@Summary	Delete a note
//	@Tags		notes
//	@Produce	json
//	@Security	BearerAuth
//	@Param		noteID	path		string	true	"Note ID"
//	@Success	200		{object}	response.Envelope
//	@Failure	404		{object}	response.Envelope
//	@Router		/notes/{noteID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "noteID"), userID); err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, "note deleted", nil)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingFields):
		response.BadRequest(w, "Missing required fields", err.Error())
	case h.svc.IsNotFound(err):
		response.NotFound(w, err.Error())
	default:
		response.InternalError(w)
	}
}
