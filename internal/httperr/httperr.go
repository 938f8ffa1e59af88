package httperr

import (
	"errors"
	"log"
	"net/http"
	"parkhouse/internal/engine"
)

// Status maps an engine error to the HTTP status the web layer should return.
func Status(err error) int {
	switch {
	case errors.Is(err, engine.ErrValidation), errors.Is(err, engine.ErrClockSkew):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrCapacityConflict),
		errors.Is(err, engine.ErrOccupiedSpotsExist),
		errors.Is(err, engine.ErrDuplicateActiveReservation),
		errors.Is(err, engine.ErrNoAvailableSpot):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func Write(w http.ResponseWriter, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		http.Error(w, "internal server error", status)
		return
	}
	http.Error(w, err.Error(), status)
}
