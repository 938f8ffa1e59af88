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

type LotRepository interface {
	Create(ctx context.Context, lot *db.ParkingLot) error
	UpdateDetails(ctx context.Context, lot *db.ParkingLot) error
	Resize(ctx context.Context, lotID, newCapacity int) error
	Delete(ctx context.Context, lotID int) error
	GetByID(ctx context.Context, lotID int) (*db.ParkingLot, error)
	List(ctx context.Context) ([]entities.LotSummary, error)
}

type lotRepository struct {
	db *sql.DB
}

func NewLotRepository(conn *sql.DB) LotRepository {
	return &lotRepository{db: conn}
}

// Create inserts the lot and its spots numbered 1..capacity in one transaction.
func (r *lotRepository) Create(ctx context.Context, lot *db.ParkingLot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO parking_lots (name, hourly_rate, address, postal_code, capacity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, query,
		lot.Name, lot.HourlyRate, lot.Address, lot.PostalCode, lot.Capacity,
	).Scan(&lot.ID, &lot.CreatedAt, &lot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}

	if err := insertSpots(ctx, tx, lot.ID, 1, lot.Capacity); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *lotRepository) UpdateDetails(ctx context.Context, lot *db.ParkingLot) error {
	query := `
		UPDATE parking_lots
		SET name = $1, hourly_rate = $2, address = $3, postal_code = $4, updated_at = NOW()
		WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query,
		lot.Name, lot.HourlyRate, lot.Address, lot.PostalCode, lot.ID,
	)
	if err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lot rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: lot %d", engine.ErrNotFound, lot.ID)
	}
	return nil
}

// Resize grows or shrinks the lot's spot set. Shrinking is rejected whole if
// any spot above the new capacity is occupied. The lot row is locked so the
// resize serializes against bookings on the same lot.
func (r *lotRepository) Resize(ctx context.Context, lotID, newCapacity int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var capacity int
	err = tx.QueryRowContext(ctx,
		`SELECT capacity FROM parking_lots WHERE id = $1 FOR UPDATE`, lotID,
	).Scan(&capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: lot %d", engine.ErrNotFound, lotID)
		}
		return fmt.Errorf("lock lot: %w", err)
	}

	switch {
	case newCapacity > capacity:
		if err := insertSpots(ctx, tx, lotID, capacity+1, newCapacity); err != nil {
			return err
		}
	case newCapacity < capacity:
		var occupied int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM parking_spots
			 WHERE lot_id = $1 AND spot_number > $2 AND status = $3`,
			lotID, newCapacity, db.SpotOccupied,
		).Scan(&occupied)
		if err != nil {
			return fmt.Errorf("count occupied spots: %w", err)
		}
		if occupied > 0 {
			return fmt.Errorf("%w: %d occupied above spot %d", engine.ErrCapacityConflict, occupied, newCapacity)
		}
		_, err = tx.ExecContext(ctx,
			`DELETE FROM parking_spots WHERE lot_id = $1 AND spot_number > $2`,
			lotID, newCapacity,
		)
		if err != nil {
			return fmt.Errorf("delete spots: %w", err)
		}
	default:
		return tx.Commit()
	}

	_, err = r.updateCapacity(ctx, tx, lotID, newCapacity)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes the lot and all its spots, unless any spot is occupied.
func (r *lotRepository) Delete(ctx context.Context, lotID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id int
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM parking_lots WHERE id = $1 FOR UPDATE`, lotID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: lot %d", engine.ErrNotFound, lotID)
		}
		return fmt.Errorf("lock lot: %w", err)
	}

	var occupied int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM parking_spots WHERE lot_id = $1 AND status = $2`,
		lotID, db.SpotOccupied,
	).Scan(&occupied)
	if err != nil {
		return fmt.Errorf("count occupied spots: %w", err)
	}
	if occupied > 0 {
		return fmt.Errorf("%w: %d occupied in lot %d", engine.ErrOccupiedSpotsExist, occupied, lotID)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM parking_spots WHERE lot_id = $1`, lotID); err != nil {
		return fmt.Errorf("delete spots: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM parking_lots WHERE id = $1`, lotID); err != nil {
		return fmt.Errorf("delete lot: %w", err)
	}
	return tx.Commit()
}

func (r *lotRepository) GetByID(ctx context.Context, lotID int) (*db.ParkingLot, error) {
	lot := &db.ParkingLot{}
	query := `
		SELECT id, name, hourly_rate, address, postal_code, capacity, created_at, updated_at
		FROM parking_lots WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, lotID).Scan(
		&lot.ID, &lot.Name, &lot.HourlyRate, &lot.Address, &lot.PostalCode,
		&lot.Capacity, &lot.CreatedAt, &lot.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: lot %d", engine.ErrNotFound, lotID)
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return lot, nil
}

func (r *lotRepository) List(ctx context.Context) ([]entities.LotSummary, error) {
	query := `
		SELECT l.id, l.name, l.hourly_rate, l.address, l.postal_code,
		       COUNT(s.id) AS total_spots,
		       COUNT(s.id) FILTER (WHERE s.status = $1) AS occupied_spots
		FROM parking_lots l
		LEFT JOIN parking_spots s ON s.lot_id = l.id
		GROUP BY l.id
		ORDER BY l.name`
	rows, err := r.db.QueryContext(ctx, query, db.SpotOccupied)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	var lots []entities.LotSummary
	for rows.Next() {
		var l entities.LotSummary
		if err := rows.Scan(
			&l.ID, &l.Name, &l.HourlyRate, &l.Address, &l.PostalCode,
			&l.TotalSpots, &l.OccupiedSpots,
		); err != nil {
			return nil, fmt.Errorf("scan lot summary: %w", err)
		}
		l.AvailableSpots = l.TotalSpots - l.OccupiedSpots
		lots = append(lots, l)
	}
	return lots, rows.Err()
}

func (r *lotRepository) updateCapacity(ctx context.Context, tx *sql.Tx, lotID, capacity int) (sql.Result, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE parking_lots SET capacity = $1, updated_at = NOW() WHERE id = $2`,
		capacity, lotID,
	)
	if err != nil {
		return nil, fmt.Errorf("update capacity: %w", err)
	}
	return res, nil
}

func insertSpots(ctx context.Context, tx *sql.Tx, lotID, from, to int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO parking_spots (lot_id, spot_number, status)
		 SELECT $1, n, $2 FROM generate_series($3::int, $4::int) AS n`,
		lotID, db.SpotAvailable, from, to,
	)
	if err != nil {
		return fmt.Errorf("insert spots %d..%d: %w", from, to, err)
	}
	return nil
}
