package utils

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"fuko-store/checkout"
	"fuko-store/models"
)

// ErrorStatus maps a domain error to an HTTP status and a client-facing message
func ErrorStatus(err error) (int, string) {
	var validation *models.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Error()
	case errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrProfileNotFound),
		errors.Is(err, models.ErrAddressNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrDuplicateOrder),
		errors.Is(err, checkout.ErrInvalidStep):
		return http.StatusConflict, err.Error()
	case errors.Is(err, models.ErrTooManyImages),
		errors.Is(err, models.ErrCartEmpty),
		errors.Is(err, checkout.ErrAddressOutOfList),
		errors.Is(err, checkout.ErrNoAddress),
		errors.Is(err, checkout.ErrNotOnboarded):
		return http.StatusBadRequest, err.Error()
	case models.IsPersistence(err):
		return http.StatusInternalServerError, "Something went wrong. Please try again."
	}
	return http.StatusInternalServerError, "Internal server error"
}

// Error replies with the status and message chosen by ErrorStatus
func Error(w http.ResponseWriter, err error) {
	status, message := ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).Error("Request failed")
	}
	http.Error(w, message, status)
}
