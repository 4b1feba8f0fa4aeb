package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ecopass/internal/domain"
	"ecopass/internal/service"
)

// StationHandler handles HTTP requests for station and parking-lot
// reference data.
type StationHandler struct {
	stationService *service.StationService
}

// NewStationHandler creates a new StationHandler.
func NewStationHandler(stationService *service.StationService) *StationHandler {
	return &StationHandler{stationService: stationService}
}

// StationResponse is the HTTP representation of a station.
type StationResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	LineNumber int     `json:"line_number"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// NearbyStationResponse adds the distance from the query point.
type NearbyStationResponse struct {
	StationResponse
	DistanceMeters float64 `json:"distance_meters"`
}

// ParkingLotResponse is the HTTP representation of a parking lot.
type ParkingLotResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	Capacity  int     `json:"capacity"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func toStationResponse(s domain.Station) StationResponse {
	return StationResponse{
		ID:         s.ID,
		Name:       s.Name,
		LineNumber: s.LineNumber,
		Latitude:   s.Latitude,
		Longitude:  s.Longitude,
	}
}

// ListStations handles GET /v1/stations
func (h *StationHandler) ListStations(c *gin.Context) {
	line := intQuery(c, "line", 0)

	stations, err := h.stationService.ListStations(c.Request.Context(), line)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]StationResponse, 0, len(stations))
	for _, s := range stations {
		resp = append(resp, toStationResponse(s))
	}

	respondJSON(c, http.StatusOK, resp)
}

// FindNearby handles GET /v1/stations/nearby
func (h *StationHandler) FindNearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "latitude must be a number"})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "longitude must be a number"})
		return
	}

	radius := 1000.0
	if raw := c.Query("radius"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "radius must be a number"})
			return
		}
	}

	results, err := h.stationService.FindNearby(c.Request.Context(), lat, lng, radius, intQuery(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]NearbyStationResponse, 0, len(results))
	for _, sd := range results {
		resp = append(resp, NearbyStationResponse{
			StationResponse: toStationResponse(sd.Station),
			DistanceMeters:  sd.DistanceMeter,
		})
	}

	respondJSON(c, http.StatusOK, resp)
}

// ListParkingLots handles GET /v1/parking-lots
func (h *StationHandler) ListParkingLots(c *gin.Context) {
	lots, err := h.stationService.ListParkingLots(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]ParkingLotResponse, 0, len(lots))
	for _, l := range lots {
		resp = append(resp, ParkingLotResponse{
			ID:        l.ID,
			Name:      l.Name,
			Address:   l.Address,
			Capacity:  l.Capacity,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
		})
	}

	respondJSON(c, http.StatusOK, resp)
}
