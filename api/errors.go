package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mpetrov/aviabooking/internal/domain"
)

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientSeats),
		errors.Is(err, domain.ErrNoPassengers),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrCompanyNameTaken),
		errors.Is(err, domain.ErrInvalidManager),
		errors.Is(err, domain.ErrFlightHasTickets):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTicketNotCancelable):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidLogin):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserInactive), errors.Is(err, domain.ErrNoCompany):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}
