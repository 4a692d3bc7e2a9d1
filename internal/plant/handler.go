package plant

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdant/service/internal/middleware"
	"github.com/verdant/service/internal/response"
	"github.com/verdant/service/internal/storage"
)

// Handler holds HTTP handlers for plant and catalog endpoints.
type Handler struct {
	svc   *Service
	store storage.Storage
}

// NewHandler creates a new plant Handler.
func NewHandler(svc *Service, store storage.Storage) *Handler {
	return &Handler{svc: svc, store: store}
}

// attachURLs fills the presentation-only URL fields from the stored keys.
// Keys are what persists; URLs exist only in responses.
func (h *Handler) attachURLs(agg *Aggregate) {
	for i := range agg.Photos {
		if agg.Photos[i].Key != "" {
			agg.Photos[i].URL = h.store.PublicURL(agg.Photos[i].Key)
		}
	}
	for i := range agg.GrowthStages {
		if k := agg.GrowthStages[i].Key; k != nil && *k != "" {
			agg.GrowthStages[i].URL = h.store.PublicURL(*k)
		}
	}
}

// List godoc
//
//	@Summary		List plants
//	@Description	Returns the full aggregate for every plant owned by the caller.
//	@Tags			plants
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=[]Aggregate}
//	@Failure		401	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/plants [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	aggs, err := h.svc.ListAggregates(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}
	for i := range aggs {
		h.attachURLs(&aggs[i])
	}
	response.OK(w, "plants retrieved", aggs)
}

// Get godoc
//
//	@Summary		Get one plant
//	@Description	Returns the aggregate view of a single plant.
//	@Tags			plants
//	@Produce		json
//	@Security		BearerAuth
//	@Param			plantID	path		string	true	"Plant ID"
//	@Success		200		{object}	response.Envelope{data=Aggregate}
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/plants/{plantID} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	agg, err := h.svc.GetAggregate(r.Context(), chi.URLParam(r, "plantID"), userID)
	if err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "plant not found")
			return
		}
		response.InternalError(w)
		return
	}
	h.attachURLs(agg)
	response.OK(w, "plant retrieved", agg)
}

type createPlantRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	VarietyID     *int     `json:"varietyId"`
	LocationID    *int     `json:"locationId"`
	Sensitivities []string `json:"sensitivities"`
	DatePlanted   string   `json:"datePlanted"`
}

// Create godoc
//
//	@Summary		Create a plant
//	@Tags			plants
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		createPlantRequest	true	"Plant"
//	@Success		201		{object}	response.Envelope{data=Plant}
//	@Failure		400		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/plants [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req createPlantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err.Error())
		return
	}

	datePlanted, err := ParseDate(req.DatePlanted)
	if err != nil {
		response.BadRequest(w, "invalid date", "datePlanted must be YYYY-MM-DD")
		return
	}

	pl, err := h.svc.Create(r.Context(), CreateParams{
		UserID:        userID,
		Name:          req.Name,
		Description:   req.Description,
		VarietyID:     req.VarietyID,
		LocationID:    req.LocationID,
		Sensitivities: req.Sensitivities,
		DatePlanted:   datePlanted,
	})
	if err != nil {
		if errors.Is(err, ErrMissingFields) {
			response.BadRequest(w, "Missing required fields", "name is required")
			return
		}
		response.InternalError(w)
		return
	}
	response.Created(w, "plant created", pl)
}

type updatePlantRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	VarietyID     *int     `json:"varietyId"`
	LocationID    *int     `json:"locationId"`
	Sensitivities []string `json:"sensitivities"`
	DatePlanted   *string  `json:"datePlanted"`
}

// Update godoc
//
//	@Summary		Update plant metadata
//	@Description	Applies the provided fields to the plant. Last write wins.
//	@Tags			plants
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			plantID	path		string				true	"Plant ID"
//	@Param			body	body		updatePlantRequest	true	"Fields to update"
//	@Success		200		{object}	response.Envelope{data=Plant}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/plants/{plantID} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req updatePlantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err.Error())
		return
	}

	upd := UpdateParams{
		Name:          req.Name,
		Description:   req.Description,
		VarietyID:     req.VarietyID,
		LocationID:    req.LocationID,
		Sensitivities: req.Sensitivities,
	}
	if req.DatePlanted != nil {
		d, err := ParseDate(*req.DatePlanted)
		if err != nil {
			response.BadRequest(w, "invalid date", "datePlanted must be YYYY-MM-DD")
			return
		}
		upd.DatePlanted = d
	}

	pl, err := h.svc.Update(r.Context(), chi.URLParam(r, "plantID"), userID, upd)
	if err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "plant not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, "plant updated", pl)
}

// Varieties godoc
//
//	@Summary	List varieties
//	@Tags		catalog
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	response.Envelope{data=[]Variety}
//	@Router		/varieties [get]
func (h *Handler) Varieties(w http.ResponseWriter, r *http.Request) {
	vs, err := h.svc.Varieties(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, "varieties retrieved", vs)
}

type createVarietyRequest struct {
	Name string `json:"name"`
}

// CreateVariety godoc
//
//	@Summary	Create a variety
//	@Tags		catalog
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		createVarietyRequest	true	"Variety"
//	@Success	201		{object}	response.Envelope{data=Variety}
//	@Failure	400		{object}	response.Envelope
//	@Router		/varieties [post]
func (h *Handler) CreateVariety(w http.ResponseWriter, r *http.Request) {
	var req createVarietyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err.Error())
		return
	}

	v, err := h.svc.CreateVariety(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, ErrMissingFields) {
			response.BadRequest(w, "Missing required fields", "name is required")
			return
		}
		response.InternalError(w)
		return
	}
	response.Created(w, "variety created", v)
}

// Stages godoc
//
//	@Summary	List growth stages
//	@Tags		catalog
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	response.Envelope{data=[]Stage}
//	@Router		/stages [get]
func (h *Handler) Stages(w http.ResponseWriter, r *http.Request) {
	ss, err := h.svc.Stages(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, "stages retrieved", ss)
}

// Locations godoc
//
//	@Summary	List locations
//	@Tags		catalog
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	response.Envelope{data=[]Location}
//	@Router		/locations [get]
func (h *Handler) Locations(w http.ResponseWriter, r *http.Request) {
	ls, err := h.svc.Locations(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, "locations retrieved", ls)
}
