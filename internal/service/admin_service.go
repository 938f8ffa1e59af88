package service

import (
	"context"
	"errors"
	"fmt"
	"parkhouse/internal/db"
	"parkhouse/internal/engine"
	"parkhouse/internal/entities"
	"parkhouse/internal/repository"
	"strconv"
)

// AdminService serves the occupancy dashboard and spot search views.
type AdminService struct {
	spots        repository.SpotRepository
	reservations repository.ReservationRepository
	users        repository.UserRepository
}

func NewAdminService(
	spots repository.SpotRepository,
	reservations repository.ReservationRepository,
	users repository.UserRepository,
) *AdminService {
	return &AdminService{spots: spots, reservations: reservations, users: users}
}

func (s *AdminService) Dashboard(ctx context.Context) (*entities.DashboardSummary, error) {
	counts, err := s.spots.CountsByLot(ctx)
	if err != nil {
		return nil, err
	}

	summary := &entities.DashboardSummary{TotalLots: len(counts), Lots: counts}
	for _, c := range counts {
		summary.TotalSpots += c.TotalSpots
		summary.OccupiedSpots += c.OccupiedSpots
		summary.AvailableSpots += c.AvailableSpots
	}
	return summary, nil
}

// SearchSpots finds spots by lot name or, for searchType "spot_number", by
// their number across all lots.
func (s *AdminService) SearchSpots(ctx context.Context, query, searchType string) ([]entities.SpotSearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", engine.ErrValidation)
	}

	var spots []repository.SpotWithLot
	var err error
	switch searchType {
	case "lot_name":
		spots, err = s.spots.SearchByLotName(ctx, query)
	case "spot_number":
		n, convErr := strconv.Atoi(query)
		if convErr != nil {
			return nil, fmt.Errorf("%w: spot number must be an integer", engine.ErrValidation)
		}
		spots, err = s.spots.FindBySpotNumber(ctx, n)
	default:
		return nil, fmt.Errorf("%w: unknown search type %q", engine.ErrValidation, searchType)
	}
	if err != nil {
		return nil, err
	}

	results := make([]entities.SpotSearchResult, 0, len(spots))
	for _, sp := range spots {
		result := entities.SpotSearchResult{
			LotID:      sp.LotID,
			LotName:    sp.LotName,
			SpotID:     sp.ID,
			SpotNumber: sp.SpotNumber,
			Status:     sp.Status,
		}
		if sp.Status == db.SpotOccupied {
			open, err := s.reservations.GetOpenBySpot(ctx, sp.ID)
			if err != nil && !errors.Is(err, engine.ErrNotFound) {
				return nil, err
			}
			if open != nil {
				result.Reservation = &entities.SpotOccupation{
					ReservationID: open.ID,
					UserID:        open.UserID,
					UserName:      open.UserName,
					EntryTime:     open.EntryTime,
				}
			}
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]entities.UserResponse, error) {
	users, err := s.users.ListByRole(ctx, db.RoleUser)
	if err != nil {
		return nil, err
	}
	resp := make([]entities.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, *toUserResponse(&users[i]))
	}
	return resp, nil
}
