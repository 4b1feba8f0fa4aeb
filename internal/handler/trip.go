package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ecopass/internal/domain"
	"ecopass/internal/middleware"
	"ecopass/internal/service"
)

// TripHandler handles HTTP requests for the user-facing trip lifecycle.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// WaypointResponse is a recorded waypoint in a trip response.
type WaypointResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	ImageURL  string  `json:"image_url,omitempty"`
}

// TripResponse is the HTTP representation of a trip.
type TripResponse struct {
	TripID    string            `json:"trip_id"`
	UserID    string            `json:"user_id"`
	Status    string            `json:"status"`
	Start     WaypointResponse  `json:"start"`
	Transfer  *WaypointResponse `json:"transfer,omitempty"`
	Arrival   *WaypointResponse `json:"arrival,omitempty"`
	Points    *int              `json:"points,omitempty"`
	AdminNote string            `json:"admin_note,omitempty"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
}

// TripListResponse is a paginated trip listing.
type TripListResponse struct {
	Trips  []TripResponse `json:"trips"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func toTripResponse(trip *domain.Trip) TripResponse {
	resp := TripResponse{
		TripID: trip.ID,
		UserID: trip.UserID,
		Status: string(trip.Status),
		Start: WaypointResponse{
			Latitude:  trip.StartLatitude,
			Longitude: trip.StartLongitude,
		},
		AdminNote: trip.AdminNote,
		CreatedAt: trip.CreatedAt.Format(timeLayout),
		UpdatedAt: trip.UpdatedAt.Format(timeLayout),
	}

	if trip.HasTransfer() {
		resp.Transfer = &WaypointResponse{
			Latitude:  trip.TransferLatitude,
			Longitude: trip.TransferLongitude,
			ImageURL:  trip.TransferImageURL,
		}
	}

	if trip.HasArrival() {
		resp.Arrival = &WaypointResponse{
			Latitude:  trip.ArrivalLatitude,
			Longitude: trip.ArrivalLongitude,
			ImageURL:  trip.ArrivalImageURL,
		}
		points := trip.Points
		resp.Points = &points
	}

	return resp
}

// StartTripRequest is the body for POST /v1/trips.
type StartTripRequest struct {
	Latitude  float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" binding:"gte=-180,lte=180"`
}

// StartTrip handles POST /v1/trips
func (h *TripHandler) StartTrip(c *gin.Context) {
	var req StartTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}

	trip, err := h.tripService.StartTrip(c.Request.Context(), service.StartTripRequest{
		UserID:    middleware.CallerID(c),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTripResponse(trip))
}

// WaypointRequest is the body for transfer and arrival calls.
type WaypointRequest struct {
	Latitude  float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" binding:"gte=-180,lte=180"`
	ImageURL  string  `json:"image_url" binding:"required"`
}

// validImageRef checks the opaque proof-image reference at the boundary:
// non-empty with an http(s) scheme. The core treats it as opaque.
func validImageRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// TransferTrip handles POST /v1/trips/:id/transfer
func (h *TripHandler) TransferTrip(c *gin.Context) {
	var req WaypointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}
	if !validImageRef(req.ImageURL) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "image_url must be an http(s) URL"})
		return
	}

	trip, err := h.tripService.TransferTrip(c.Request.Context(), service.TransferTripRequest{
		TripID:    c.Param("id"),
		UserID:    middleware.CallerID(c),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// ArriveTrip handles POST /v1/trips/:id/arrive
func (h *TripHandler) ArriveTrip(c *gin.Context) {
	var req WaypointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}
	if !validImageRef(req.ImageURL) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "image_url must be an http(s) URL"})
		return
	}

	trip, err := h.tripService.ArriveTrip(c.Request.Context(), service.ArriveTripRequest{
		TripID:    c.Param("id"),
		UserID:    middleware.CallerID(c),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// ListTrips handles GET /v1/trips
func (h *TripHandler) ListTrips(c *gin.Context) {
	limit := intQuery(c, "limit", 10)
	offset := intQuery(c, "offset", 0)

	trips, total, err := h.tripService.ListTrips(c.Request.Context(), service.ListTripsRequest{
		UserID: middleware.CallerID(c),
		Status: domain.TripStatus(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := TripListResponse{
		Trips:  make([]TripResponse, 0, len(trips)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, trip := range trips {
		resp.Trips = append(resp.Trips, toTripResponse(trip))
	}

	respondJSON(c, http.StatusOK, resp)
}

// intQuery parses an integer query parameter with a default. A malformed
// value falls back to the default; range checks happen in the service.
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}
