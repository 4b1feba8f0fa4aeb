package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ecopass/internal/domain"
	"ecopass/internal/geo"
	"ecopass/internal/repository"
	"ecopass/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status
// code. Unexpected errors are not echoed back with internal detail.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(code, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps domain/service/repository errors to HTTP
// status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Ownership violations
	case errors.Is(err, service.ErrNotTripOwner):
		return http.StatusForbidden

	// Active-trip conflicts
	case errors.Is(err, service.ErrActiveTripExists),
		errors.Is(err, repository.ErrActiveTripExists):
		return http.StatusConflict

	// State machine guard violations and input validation
	case errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidImageURL),
		errors.Is(err, service.ErrInvalidPagination),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidRadius),
		errors.Is(err, geo.ErrInvalidCoordinate),
		errors.Is(err, geo.ErrInvalidDistance):
		return http.StatusUnprocessableEntity

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
