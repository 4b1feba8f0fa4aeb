package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ecopass/internal/service"
)

// AdminHandler handles HTTP requests for the review workflow.
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// UserInfo is the owner profile embedded in review listings. It is
// omitted when the lookup failed; a missing profile never fails the
// listing.
type UserInfo struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	VehicleNumber string `json:"vehicle_number,omitempty"`
	TotalPoints   int    `json:"total_points"`
}

// ReviewTripResponse is a trip with its owner's profile.
type ReviewTripResponse struct {
	TripResponse
	User *UserInfo `json:"user,omitempty"`
}

// ReviewListResponse is a paginated review listing.
type ReviewListResponse struct {
	Trips  []ReviewTripResponse `json:"trips"`
	Total  int                  `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

func toReviewResponse(tw service.TripWithUser) ReviewTripResponse {
	resp := ReviewTripResponse{TripResponse: toTripResponse(tw.Trip)}
	if tw.User != nil {
		resp.User = &UserInfo{
			ID:            tw.User.ID,
			Username:      tw.User.Username,
			VehicleNumber: tw.User.VehicleNumber,
			TotalPoints:   tw.User.TotalPoints,
		}
	}
	return resp
}

func toReviewListResponse(trips []service.TripWithUser, total, limit, offset int) ReviewListResponse {
	resp := ReviewListResponse{
		Trips:  make([]ReviewTripResponse, 0, len(trips)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, tw := range trips {
		resp.Trips = append(resp.Trips, toReviewResponse(tw))
	}
	return resp
}

// ListPending handles GET /v1/admin/trips/pending
func (h *AdminHandler) ListPending(c *gin.Context) {
	limit := intQuery(c, "limit", 10)
	offset := intQuery(c, "offset", 0)

	trips, total, err := h.adminService.ListPending(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toReviewListResponse(trips, total, limit, offset))
}

// ListAll handles GET /v1/admin/trips
func (h *AdminHandler) ListAll(c *gin.Context) {
	limit := intQuery(c, "limit", 10)
	offset := intQuery(c, "offset", 0)

	from, ok := dateQuery(c, "from", false)
	if !ok {
		return
	}
	to, ok := dateQuery(c, "to", true)
	if !ok {
		return
	}

	trips, total, err := h.adminService.ListAll(c.Request.Context(), service.ListAllRequest{
		Status: c.Query("status"),
		UserID: c.Query("user_id"),
		From:   from,
		To:     to,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toReviewListResponse(trips, total, limit, offset))
}

// GetTripDetail handles GET /v1/admin/trips/:id
func (h *AdminHandler) GetTripDetail(c *gin.Context) {
	detail, err := h.adminService.GetTripDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toReviewResponse(*detail))
}

// ApproveTrip handles POST /v1/admin/trips/:id/approve
func (h *AdminHandler) ApproveTrip(c *gin.Context) {
	trip, err := h.adminService.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// RejectTripRequest is the body for POST /v1/admin/trips/:id/reject.
type RejectTripRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// RejectTrip handles POST /v1/admin/trips/:id/reject
func (h *AdminHandler) RejectTrip(c *gin.Context) {
	var req RejectTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}

	trip, err := h.adminService.Reject(c.Request.Context(), c.Param("id"), req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// DashboardStatsResponse is the status-count aggregation.
type DashboardStatsResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Approved   int `json:"approved"`
	Rejected   int `json:"rejected"`
	InProgress int `json:"in_progress"`
}

// GetDashboardStats handles GET /v1/admin/dashboard
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, DashboardStatsResponse{
		Total:      stats.Total,
		Pending:    stats.Pending,
		Approved:   stats.Approved,
		Rejected:   stats.Rejected,
		InProgress: stats.InProgress,
	})
}

// dateQuery parses an optional YYYY-MM-DD query parameter. endOfDay
// shifts the value to the end of the named day so "to" is inclusive.
// Writes a 422 response and returns ok=false on a malformed value.
func dateQuery(c *gin.Context, name string, endOfDay bool) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}

	value, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: name + " must be formatted as YYYY-MM-DD"})
		return time.Time{}, false
	}

	if endOfDay {
		value = value.Add(24*time.Hour - time.Nanosecond)
	}
	return value, true
}
