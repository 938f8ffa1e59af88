package api

import (
	"context"
	"net/http"
	"parkhouse/internal/auth"
	"parkhouse/internal/entities"
	"parkhouse/internal/httperr"
	"time"
)

type BookingService interface {
	BookFirstAvailable(ctx context.Context, lotID, userID int) (*entities.ReservationResponse, error)
	CloseReservation(ctx context.Context, reservationID, userID int, exitTime time.Time) (*entities.ReservationResponse, error)
	GetActiveReservation(ctx context.Context, userID int) (*entities.ReservationResponse, error)
	ListReservationsForUser(ctx context.Context, userID int) (*entities.ReservationHistory, error)
}

type ReservationHandler struct {
	Service BookingService
}

func NewReservationHandler(svc BookingService) *ReservationHandler {
	return &ReservationHandler{Service: svc}
}

// Book claims the first available spot in the lot for the caller.
func (h *ReservationHandler) Book(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	lotID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	res, err := h.Service.BookFirstAvailable(r.Context(), lotID, userID)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// Release closes the caller's reservation and frees the spot.
func (h *ReservationHandler) Release(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	reservationID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	res, err := h.Service.CloseReservation(r.Context(), reservationID, userID, time.Now().UTC())
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) Active(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	res, err := h.Service.GetActiveReservation(r.Context(), userID)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	history, err := h.Service.ListReservationsForUser(r.Context(), userID)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
