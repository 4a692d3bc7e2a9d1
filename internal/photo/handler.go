package photo

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/verdant/service/internal/middleware"
	"github.com/verdant/service/internal/response"
	"github.com/verdant/service/internal/storage"
)

// maxUploadBytes caps a single multipart image upload.
const maxUploadBytes = 20 << 20

// Handler holds HTTP handlers for photo and growth-stage endpoints.
type Handler struct {
	svc   *Service
	store storage.Storage
}

// NewHandler creates a new photo Handler.
func NewHandler(svc *Service, store storage.Storage) *Handler {
	return &Handler{svc: svc, store: store}
}

// readImage pulls the "image" file field out of a multipart request.
// Returns nil bytes when the field is absent; the services treat that as a
// validation failure with no side effects.
func readImage(r *http.Request) (data []byte, name, contentType string) {
	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, "", ""
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		return nil, "", ""
	}
	return data, header.Filename, header.Header.Get("Content-Type")
}

// parseOptionalDate parses a YYYY-MM-DD form value, nil when absent.
func parseOptionalDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Upload godoc
//
//	@Summary		Upload a photo
//	@Description	Stores the image blob, resolves the capture date (form date_taken, else EXIF, else now), and records the photo for the plant.
//	@Tags			photos
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			plantID		path		string	true	"Plant ID"
//	@Param			image		formData	file	true	"Image file"
//	@Param			date_taken	formData	string	false	"Capture date (YYYY-MM-DD)"
//	@Param			stage_id	formData	int		false	"Stage ID"
//	@Success		201			{object}	response.Envelope{data=Photo}
//	@Failure		400			{object}	response.Envelope
//	@Failure		404			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/plants/{plantID}/photos [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.BadRequest(w, "Missing required fields", "multipart form with an image field is required")
		return
	}

	data, name, contentType := readImage(r)

	dateTaken, err := parseOptionalDate(r.FormValue("date_taken"))
	if err != nil {
		response.BadRequest(w, "invalid date", "date_taken must be YYYY-MM-DD")
		return
	}

	var stageID *int
	if v := r.FormValue("stage_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "invalid stage", "stage_id must be an integer")
			return
		}
		stageID = &id
	}

	p, err := h.svc.Upload(r.Context(), UploadInput{
		PlantID:      chi.URLParam(r, "plantID"),
		UserID:       userID,
		OriginalName: name,
		ContentType:  contentType,
		Data:         data,
		DateTaken:    dateTaken,
		StageID:      stageID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	p.URL = h.store.PublicURL(p.ObjectKey)
	response.Created(w, "photo uploaded", p)
}

// AddStage godoc
//
//	@Summary		Log a growth stage with an image
//	@Description	Legacy stage-with-image flow: uploads the image and records a growth-stage event with the given status label.
//	@Tags			photos
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			plantID	path		string	true	"Plant ID"
//	@Param			image	formData	file	true	"Image file"
//	@Param			status	formData	string	true	"Status label, e.g. germinated"
//	@Param			date	formData	string	false	"Stage date (YYYY-MM-DD)"
//	@Success		201		{object}	response.Envelope{data=GrowthStage}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/plants/{plantID}/stages [post]
func (h *Handler) AddStage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.BadRequest(w, "Missing required fields", "multipart form with an image field is required")
		return
	}

	data, name, contentType := readImage(r)

	stageDate, err := parseOptionalDate(r.FormValue("date"))
	if err != nil {
		response.BadRequest(w, "invalid date", "date must be YYYY-MM-DD")
		return
	}

	g, err := h.svc.AddStage(r.Context(), UploadInput{
		PlantID:      chi.URLParam(r, "plantID"),
		UserID:       userID,
		OriginalName: name,
		ContentType:  contentType,
		Data:         data,
		DateTaken:    stageDate,
		Status:       r.FormValue("status"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	if g.ObjectKey != nil {
		g.URL = h.store.PublicURL(*g.ObjectKey)
	}
	response.Created(w, "growth stage recorded", g)
}

type updatePhotoRequest struct {
	DateTaken *string `json:"dateTaken"`
	StageID   *int    `json:"stageId"`
}

// Update godoc
//
//	@Summary	Update a photo's date or stage
//	@Tags		photos
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		photoID	path		string				true	"Photo ID"
//	@Param		body	body		updatePhotoRequest	true	"Fields to update"
//	@Success	200		{object}	response.Envelope{data=Photo}
//	@Failure	400		{object}	response.Envelope
//	@Failure	404		{object}	response.Envelope
//	@Failure	500		{object}	response.Envelope
//	@Router		/photos/{photoID} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req updatePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err.Error())
		return
	}

	var dateTaken *time.Time
	if req.DateTaken != nil {
		d, err := parseOptionalDate(*req.DateTaken)
		if err != nil {
			response.BadRequest(w, "invalid date", "dateTaken must be YYYY-MM-DD")
			return
		}
		dateTaken = d
	}

	p, err := h.svc.Update(r.Context(), chi.URLParam(r, "photoID"), userID, dateTaken, req.StageID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	p.URL = h.store.PublicURL(p.ObjectKey)
	response.OK(w, "photo updated", p)
}

// Delete godoc
//
//	@Summary		Delete a photo
//	@Description	Removes the photo record, then its blob (best effort). The blob is never touched when the record does not exist.
//	@Tags			photos
//	@Produce		json
//	@Security		BearerAuth
//	@Param			photoID	path		string	true	"Photo ID"
//	@Success		200		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/photos/{photoID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "photoID"), userID); err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, "photo deleted", nil)
}

// writeError maps service errors onto the response contract in one place.
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
