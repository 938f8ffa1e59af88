package service

import (
	"context"
	"log"
	"parkhouse/internal/db"
	"parkhouse/internal/engine"
	"parkhouse/internal/entities"
	"parkhouse/internal/repository"
	"time"
)

// Notifier delivers a receipt after a reservation is closed.
type Notifier interface {
	ReservationClosed(user *db.User, res *entities.ReservationResponse)
}

// BookingService is the allocation and reservation lifecycle engine: it
// claims the first available spot on booking and closes reservations with a
// deterministic cost on release.
type BookingService struct {
	reservations repository.ReservationRepository
	users        repository.UserRepository
	notifier     Notifier
	now          func() time.Time
}

func NewBookingService(
	reservations repository.ReservationRepository,
	users repository.UserRepository,
	notifier Notifier,
) *BookingService {
	return &BookingService{
		reservations: reservations,
		users:        users,
		notifier:     notifier,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// BookFirstAvailable claims the lowest-numbered available spot in the lot for
// the user and opens a reservation at the current time.
func (s *BookingService) BookFirstAvailable(ctx context.Context, lotID, userID int) (*entities.ReservationResponse, error) {
	detail, err := s.reservations.Book(ctx, lotID, userID, s.now())
	if err != nil {
		return nil, err
	}
	log.Printf("Spot %d in lot %q booked by user %d (reservation %d)",
		detail.SpotNumber, detail.LotName, userID, detail.ID)
	return s.toResponse(detail), nil
}

// CloseReservation stamps the exit time, computes the final cost and frees
// the spot. Only the owning user can close, and only while the reservation
// is still open.
func (s *BookingService) CloseReservation(ctx context.Context, reservationID, userID int, exitTime time.Time) (*entities.ReservationResponse, error) {
	detail, err := s.reservations.Close(ctx, reservationID, userID, exitTime)
	if err != nil {
		return nil, err
	}
	log.Printf("Reservation %d closed by user %d, cost %.2f", detail.ID, userID, *detail.Cost)

	resp := s.toResponse(detail)
	if s.notifier != nil {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			log.Printf("Could not load user %d for receipt: %v", userID, err)
		} else {
			go s.notifier.ReservationClosed(user, resp)
		}
	}
	return resp, nil
}

func (s *BookingService) GetActiveReservation(ctx context.Context, userID int) (*entities.ReservationResponse, error) {
	detail, err := s.reservations.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(detail), nil
}

// ListReservationsForUser returns the user's history, newest first, with a
// running cost on the active reservation and the total of all closed ones.
func (s *BookingService) ListReservationsForUser(ctx context.Context, userID int) (*entities.ReservationHistory, error) {
	details, err := s.reservations.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	history := &entities.ReservationHistory{Reservations: make([]entities.ReservationResponse, 0, len(details))}
	for i := range details {
		resp := s.toResponse(&details[i])
		history.Reservations = append(history.Reservations, *resp)
		if resp.ExitTime == nil {
			history.Active = resp
		} else if resp.Cost != nil {
			history.TotalPastCost += *resp.Cost
		}
	}
	return history, nil
}

func (s *BookingService) GetOpenReservationForSpot(ctx context.Context, spotID int) (*entities.ReservationResponse, error) {
	detail, err := s.reservations.GetOpenBySpot(ctx, spotID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(detail), nil
}

func (s *BookingService) toResponse(d *db.ReservationDetail) *entities.ReservationResponse {
	resp := &entities.ReservationResponse{
		ID:         d.ID,
		SpotID:     d.SpotID,
		SpotNumber: d.SpotNumber,
		LotID:      d.LotID,
		LotName:    d.LotName,
		HourlyRate: d.HourlyRate,
		EntryTime:  d.EntryTime,
		ExitTime:   d.ExitTime,
		Cost:       d.Cost,
	}
	if d.ExitTime == nil {
		running := engine.RunningCost(d.EntryTime, s.now(), d.HourlyRate)
		resp.CurrentCost = &running
	}
	return resp
}
