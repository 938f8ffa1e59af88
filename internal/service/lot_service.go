package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"parkhouse/internal/db"
	"parkhouse/internal/engine"
	"parkhouse/internal/entities"
	"parkhouse/internal/repository"
	"strings"
)

// LotService owns parking lot structure: creation, capacity changes and
// deletion, keeping the capacity always equal to the lot's spot count.
type LotService struct {
	lots         repository.LotRepository
	spots        repository.SpotRepository
	reservations repository.ReservationRepository
}

func NewLotService(
	lots repository.LotRepository,
	spots repository.SpotRepository,
	reservations repository.ReservationRepository,
) *LotService {
	return &LotService{lots: lots, spots: spots, reservations: reservations}
}

func (s *LotService) CreateLot(ctx context.Context, req entities.LotRequest) (*db.ParkingLot, error) {
	if err := validateLotFields(req); err != nil {
		return nil, err
	}
	if req.Capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be at least 1", engine.ErrValidation)
	}

	lot := &db.ParkingLot{
		Name:       req.Name,
		HourlyRate: req.HourlyRate,
		Address:    req.Address,
		PostalCode: req.PostalCode,
		Capacity:   req.Capacity,
	}
	if err := s.lots.Create(ctx, lot); err != nil {
		return nil, fmt.Errorf("create lot: %w", err)
	}
	log.Printf("Lot %q created with %d spots (id=%d)", lot.Name, lot.Capacity, lot.ID)
	return lot, nil
}

func (s *LotService) UpdateLotDetails(ctx context.Context, lotID int, req entities.LotRequest) error {
	if err := validateLotFields(req); err != nil {
		return err
	}
	lot := &db.ParkingLot{
		ID:         lotID,
		Name:       req.Name,
		HourlyRate: req.HourlyRate,
		Address:    req.Address,
		PostalCode: req.PostalCode,
	}
	return s.lots.UpdateDetails(ctx, lot)
}

func (s *LotService) ResizeLot(ctx context.Context, lotID, newCapacity int) error {
	if newCapacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1", engine.ErrValidation)
	}
	if err := s.lots.Resize(ctx, lotID, newCapacity); err != nil {
		return err
	}
	log.Printf("Lot %d resized to %d spots", lotID, newCapacity)
	return nil
}

func (s *LotService) DeleteLot(ctx context.Context, lotID int) error {
	if err := s.lots.Delete(ctx, lotID); err != nil {
		return err
	}
	log.Printf("Lot %d deleted", lotID)
	return nil
}

func (s *LotService) ListLots(ctx context.Context) ([]entities.LotSummary, error) {
	return s.lots.List(ctx)
}

// GetLot returns the lot with its full spot set, attaching the open
// reservation to every occupied spot.
func (s *LotService) GetLot(ctx context.Context, lotID int) (*entities.LotDetail, error) {
	lot, err := s.lots.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}

	spots, err := s.GetSpotsForLot(ctx, lotID)
	if err != nil {
		return nil, err
	}

	detail := &entities.LotDetail{
		LotSummary: entities.LotSummary{
			ID:         lot.ID,
			Name:       lot.Name,
			HourlyRate: lot.HourlyRate,
			Address:    lot.Address,
			PostalCode: lot.PostalCode,
			TotalSpots: len(spots),
		},
		ParkingSpots: spots,
	}
	for _, sp := range spots {
		if sp.Status == db.SpotOccupied {
			detail.OccupiedSpots++
		}
	}
	detail.AvailableSpots = detail.TotalSpots - detail.OccupiedSpots
	return detail, nil
}

func (s *LotService) GetSpotsForLot(ctx context.Context, lotID int) ([]entities.SpotStatus, error) {
	spots, err := s.spots.ListByLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	open, err := s.reservations.ListOpenByLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	openBySpot := make(map[int]db.ReservationDetail, len(open))
	for _, r := range open {
		openBySpot[r.SpotID] = r
	}

	statuses := make([]entities.SpotStatus, 0, len(spots))
	for _, sp := range spots {
		st := entities.SpotStatus{ID: sp.ID, SpotNumber: sp.SpotNumber, Status: sp.Status}
		if r, ok := openBySpot[sp.ID]; ok {
			st.Reservation = &entities.SpotOccupation{
				ReservationID: r.ID,
				UserID:        r.UserID,
				UserName:      r.UserName,
				EntryTime:     r.EntryTime,
			}
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func (s *LotService) ListAllSpots(ctx context.Context) ([]entities.SpotResponse, error) {
	spots, err := s.spots.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]entities.SpotResponse, 0, len(spots))
	for _, sp := range spots {
		resp = append(resp, entities.SpotResponse{
			ID:         sp.ID,
			LotID:      sp.LotID,
			SpotNumber: sp.SpotNumber,
			Status:     sp.Status,
		})
	}
	return resp, nil
}

// GetSpot returns one spot with the reservation currently holding it, if any.
func (s *LotService) GetSpot(ctx context.Context, spotID int) (*entities.SpotDetail, error) {
	spot, err := s.spots.GetByID(ctx, spotID)
	if err != nil {
		return nil, err
	}

	detail := &entities.SpotDetail{
		SpotResponse: entities.SpotResponse{
			ID:         spot.ID,
			LotID:      spot.LotID,
			LotName:    spot.LotName,
			SpotNumber: spot.SpotNumber,
			Status:     spot.Status,
		},
	}
	if spot.Status == db.SpotOccupied {
		open, err := s.reservations.GetOpenBySpot(ctx, spot.ID)
		if err != nil && !errors.Is(err, engine.ErrNotFound) {
			return nil, err
		}
		if open != nil {
			detail.Reservation = &entities.SpotOccupation{
				ReservationID: open.ID,
				UserID:        open.UserID,
				UserName:      open.UserName,
				EntryTime:     open.EntryTime,
			}
		}
	}
	return detail, nil
}

func validateLotFields(req entities.LotRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", engine.ErrValidation)
	}
	if strings.TrimSpace(req.Address) == "" {
		return fmt.Errorf("%w: address is required", engine.ErrValidation)
	}
	if strings.TrimSpace(req.PostalCode) == "" {
		return fmt.Errorf("%w: postal code is required", engine.ErrValidation)
	}
	if req.HourlyRate <= 0 {
		return fmt.Errorf("%w: hourly rate must be positive", engine.ErrValidation)
	}
	return nil
}
