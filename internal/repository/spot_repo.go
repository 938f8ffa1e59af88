package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"parkhouse/internal/db"
	"parkhouse/internal/engine"
	"parkhouse/internal/entities"
)

// SpotWithLot carries a spot together with its lot's name for search and
// detail views.
type SpotWithLot struct {
	db.ParkingSpot
	LotName string
}

type SpotRepository interface {
	GetByID(ctx context.Context, spotID int) (*SpotWithLot, error)
	ListByLot(ctx context.Context, lotID int) ([]db.ParkingSpot, error)
	ListAll(ctx context.Context) ([]db.ParkingSpot, error)
	SearchByLotName(ctx context.Context, name string) ([]SpotWithLot, error)
	FindBySpotNumber(ctx context.Context, spotNumber int) ([]SpotWithLot, error)
	CountsByLot(ctx context.Context) ([]entities.LotOccupancy, error)
}

type spotRepository struct {
	db *sql.DB
}

func NewSpotRepository(conn *sql.DB) SpotRepository {
	return &spotRepository{db: conn}
}

func (r *spotRepository) GetByID(ctx context.Context, spotID int) (*SpotWithLot, error) {
	s := &SpotWithLot{}
	query := `
		SELECT s.id, s.lot_id, s.spot_number, s.status, l.name
		FROM parking_spots s
		JOIN parking_lots l ON l.id = s.lot_id
		WHERE s.id = $1`
	err := r.db.QueryRowContext(ctx, query, spotID).Scan(
		&s.ID, &s.LotID, &s.SpotNumber, &s.Status, &s.LotName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: spot %d", engine.ErrNotFound, spotID)
		}
		return nil, fmt.Errorf("get spot: %w", err)
	}
	return s, nil
}

func (r *spotRepository) ListByLot(ctx context.Context, lotID int) ([]db.ParkingSpot, error) {
	query := `
		SELECT id, lot_id, spot_number, status
		FROM parking_spots WHERE lot_id = $1
		ORDER BY spot_number`
	return r.scanSpots(r.db.QueryContext(ctx, query, lotID))
}

func (r *spotRepository) ListAll(ctx context.Context) ([]db.ParkingSpot, error) {
	query := `
		SELECT id, lot_id, spot_number, status
		FROM parking_spots
		ORDER BY lot_id, spot_number`
	return r.scanSpots(r.db.QueryContext(ctx, query))
}

func (r *spotRepository) SearchByLotName(ctx context.Context, name string) ([]SpotWithLot, error) {
	query := `
		SELECT s.id, s.lot_id, s.spot_number, s.status, l.name
		FROM parking_spots s
		JOIN parking_lots l ON l.id = s.lot_id
		WHERE l.name ILIKE '%' || $1 || '%'
		ORDER BY l.name, s.spot_number`
	return r.scanSpotsWithLot(r.db.QueryContext(ctx, query, name))
}

// FindBySpotNumber returns all spots with the given number across lots; spot
// numbers are only unique within a lot.
func (r *spotRepository) FindBySpotNumber(ctx context.Context, spotNumber int) ([]SpotWithLot, error) {
	query := `
		SELECT s.id, s.lot_id, s.spot_number, s.status, l.name
		FROM parking_spots s
		JOIN parking_lots l ON l.id = s.lot_id
		WHERE s.spot_number = $1
		ORDER BY l.name`
	return r.scanSpotsWithLot(r.db.QueryContext(ctx, query, spotNumber))
}

func (r *spotRepository) CountsByLot(ctx context.Context) ([]entities.LotOccupancy, error) {
	query := `
		SELECT l.name,
		       COUNT(s.id) AS total_spots,
		       COUNT(s.id) FILTER (WHERE s.status = $1) AS occupied_spots
		FROM parking_lots l
		LEFT JOIN parking_spots s ON s.lot_id = l.id
		GROUP BY l.id
		ORDER BY l.name`
	rows, err := r.db.QueryContext(ctx, query, db.SpotOccupied)
	if err != nil {
		return nil, fmt.Errorf("counts by lot: %w", err)
	}
	defer rows.Close()

	var counts []entities.LotOccupancy
	for rows.Next() {
		var c entities.LotOccupancy
		if err := rows.Scan(&c.LotName, &c.TotalSpots, &c.OccupiedSpots); err != nil {
			return nil, fmt.Errorf("scan lot occupancy: %w", err)
		}
		c.AvailableSpots = c.TotalSpots - c.OccupiedSpots
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *spotRepository) scanSpots(rows *sql.Rows, err error) ([]db.ParkingSpot, error) {
	if err != nil {
		return nil, fmt.Errorf("query spots: %w", err)
	}
	defer rows.Close()

	var spots []db.ParkingSpot
	for rows.Next() {
		var s db.ParkingSpot
		if err := rows.Scan(&s.ID, &s.LotID, &s.SpotNumber, &s.Status); err != nil {
			return nil, fmt.Errorf("scan spot: %w", err)
		}
		spots = append(spots, s)
	}
	return spots, rows.Err()
}

func (r *spotRepository) scanSpotsWithLot(rows *sql.Rows, err error) ([]SpotWithLot, error) {
	if err != nil {
		return nil, fmt.Errorf("query spots: %w", err)
	}
	defer rows.Close()

	var spots []SpotWithLot
	for rows.Next() {
		var s SpotWithLot
		if err := rows.Scan(&s.ID, &s.LotID, &s.SpotNumber, &s.Status, &s.LotName); err != nil {
			return nil, fmt.Errorf("scan spot: %w", err)
		}
		spots = append(spots, s)
	}
	return spots, rows.Err()
}
