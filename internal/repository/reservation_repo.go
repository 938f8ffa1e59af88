package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"parkhouse/internal/db"
	"parkhouse/internal/engine"
	"time"

	"github.com/lib/pq"
)

type ReservationRepository interface {
	Book(ctx context.Context, lotID, userID int, entryTime time.Time) (*db.ReservationDetail, error)
	Close(ctx context.Context, reservationID, userID int, exitTime time.Time) (*db.ReservationDetail, error)
	GetActiveByUser(ctx context.Context, userID int) (*db.ReservationDetail, error)
	ListByUser(ctx context.Context, userID int) ([]db.ReservationDetail, error)
	GetOpenBySpot(ctx context.Context, spotID int) (*db.ReservationDetail, error)
	ListOpenByLot(ctx context.Context, lotID int) ([]db.ReservationDetail, error)
	ListOpenOlderThan(ctx context.Context, cutoff time.Time) ([]db.ReservationDetail, error)
}

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(conn *sql.DB) ReservationRepository {
	return &reservationRepository{db: conn}
}

// Book claims the lowest-numbered available spot in the lot and opens a
// reservation for it, all in one transaction. The lot row is locked first so
// two concurrent bookings for the same lot cannot pick the same spot, and so
// bookings serialize against resize and delete.
func (r *reservationRepository) Book(ctx context.Context, lotID, userID int, entryTime time.Time) (*db.ReservationDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var lotName string
	var hourlyRate float64
	err = tx.QueryRowContext(ctx,
		`SELECT name, hourly_rate FROM parking_lots WHERE id = $1 FOR UPDATE`, lotID,
	).Scan(&lotName, &hourlyRate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: lot %d", engine.ErrNotFound, lotID)
		}
		return nil, fmt.Errorf("lock lot: %w", err)
	}

	var open int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE user_id = $1 AND exit_time IS NULL`, userID,
	).Scan(&open)
	if err != nil {
		return nil, fmt.Errorf("count open reservations: %w", err)
	}
	if open > 0 {
		return nil, fmt.Errorf("%w: user %d", engine.ErrDuplicateActiveReservation, userID)
	}

	var spotID, spotNumber int
	err = tx.QueryRowContext(ctx,
		`SELECT id, spot_number FROM parking_spots
		 WHERE lot_id = $1 AND status = $2
		 ORDER BY spot_number
		 LIMIT 1`,
		lotID, db.SpotAvailable,
	).Scan(&spotID, &spotNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: lot %d", engine.ErrNoAvailableSpot, lotID)
		}
		return nil, fmt.Errorf("select available spot: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE parking_spots SET status = $1 WHERE id = $2`, db.SpotOccupied, spotID,
	)
	if err != nil {
		return nil, fmt.Errorf("occupy spot: %w", err)
	}

	detail := &db.ReservationDetail{
		Reservation: db.Reservation{SpotID: spotID, UserID: userID, EntryTime: entryTime},
		SpotNumber:  spotNumber,
		LotID:       lotID,
		LotName:     lotName,
		HourlyRate:  hourlyRate,
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO reservations (spot_id, user_id, entry_time) VALUES ($1, $2, $3) RETURNING id`,
		spotID, userID, entryTime,
	).Scan(&detail.ID)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Partial unique index on open reservations per user; a racing
			// booking by the same user in another lot got there first.
			return nil, fmt.Errorf("%w: user %d", engine.ErrDuplicateActiveReservation, userID)
		}
		return nil, fmt.Errorf("insert reservation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit booking: %w", err)
	}
	return detail, nil
}

// Close stamps the exit time, computes the final cost from the lot's current
// rate, and frees the spot, all in one transaction. The lot row is locked so
// the close-and-free pair is never observable half done by a booking.
func (r *reservationRepository) Close(ctx context.Context, reservationID, userID int, exitTime time.Time) (*db.ReservationDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	detail := &db.ReservationDetail{}
	err = tx.QueryRowContext(ctx,
		`SELECT r.id, r.spot_id, r.user_id, r.entry_time, s.spot_number, s.lot_id
		 FROM reservations r
		 JOIN parking_spots s ON s.id = r.spot_id
		 WHERE r.id = $1 AND r.user_id = $2 AND r.exit_time IS NULL`,
		reservationID, userID,
	).Scan(&detail.ID, &detail.SpotID, &detail.UserID, &detail.EntryTime, &detail.SpotNumber, &detail.LotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: open reservation %d for user %d", engine.ErrNotFound, reservationID, userID)
		}
		return nil, fmt.Errorf("get open reservation: %w", err)
	}

	err = tx.QueryRowContext(ctx,
		`SELECT name, hourly_rate FROM parking_lots WHERE id = $1 FOR UPDATE`, detail.LotID,
	).Scan(&detail.LotName, &detail.HourlyRate)
	if err != nil {
		return nil, fmt.Errorf("lock lot: %w", err)
	}

	if exitTime.Before(detail.EntryTime) {
		return nil, fmt.Errorf("%w: exit %s before entry %s",
			engine.ErrClockSkew, exitTime.Format(time.RFC3339), detail.EntryTime.Format(time.RFC3339))
	}

	cost := engine.Cost(detail.EntryTime, exitTime, detail.HourlyRate)
	res, err := tx.ExecContext(ctx,
		`UPDATE reservations SET exit_time = $1, cost = $2 WHERE id = $3 AND exit_time IS NULL`,
		exitTime, cost, reservationID,
	)
	if err != nil {
		return nil, fmt.Errorf("close reservation: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("close reservation rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: open reservation %d", engine.ErrNotFound, reservationID)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE parking_spots SET status = $1 WHERE id = $2`, db.SpotAvailable, detail.SpotID,
	)
	if err != nil {
		return nil, fmt.Errorf("free spot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit close: %w", err)
	}
	detail.ExitTime = &exitTime
	detail.Cost = &cost
	return detail, nil
}

const detailColumns = `
	r.id, r.spot_id, r.user_id, r.entry_time, r.exit_time, r.cost,
	s.spot_number, s.lot_id, l.name, l.hourly_rate, u.username`

// Spot and lot joins are LEFT: a closed reservation outlives its spot when the
// lot shrinks or is deleted, and must still list in history.
const detailJoins = `
	FROM reservations r
	LEFT JOIN parking_spots s ON s.id = r.spot_id
	LEFT JOIN parking_lots l ON l.id = s.lot_id
	JOIN users u ON u.id = r.user_id`

func (r *reservationRepository) GetActiveByUser(ctx context.Context, userID int) (*db.ReservationDetail, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+detailColumns+detailJoins+`
		 WHERE r.user_id = $1 AND r.exit_time IS NULL`, userID)
	detail, err := scanDetail(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no active reservation for user %d", engine.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("get active reservation: %w", err)
	}
	return detail, nil
}

func (r *reservationRepository) ListByUser(ctx context.Context, userID int) ([]db.ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+detailColumns+detailJoins+`
		 WHERE r.user_id = $1
		 ORDER BY r.entry_time DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return scanDetails(rows)
}

func (r *reservationRepository) GetOpenBySpot(ctx context.Context, spotID int) (*db.ReservationDetail, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+detailColumns+detailJoins+`
		 WHERE r.spot_id = $1 AND r.exit_time IS NULL`, spotID)
	detail, err := scanDetail(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no open reservation for spot %d", engine.ErrNotFound, spotID)
		}
		return nil, fmt.Errorf("get open reservation for spot: %w", err)
	}
	return detail, nil
}

func (r *reservationRepository) ListOpenByLot(ctx context.Context, lotID int) ([]db.ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+detailColumns+detailJoins+`
		 WHERE s.lot_id = $1 AND r.exit_time IS NULL`, lotID)
	if err != nil {
		return nil, fmt.Errorf("list open reservations for lot: %w", err)
	}
	return scanDetails(rows)
}

func (r *reservationRepository) ListOpenOlderThan(ctx context.Context, cutoff time.Time) ([]db.ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+detailColumns+detailJoins+`
		 WHERE r.exit_time IS NULL AND r.entry_time < $1
		 ORDER BY r.entry_time`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list overstayed reservations: %w", err)
	}
	return scanDetails(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDetail(row rowScanner) (*db.ReservationDetail, error) {
	var d db.ReservationDetail
	var exitTime sql.NullTime
	var cost sql.NullFloat64
	var spotID, spotNumber, lotID sql.NullInt64
	var lotName sql.NullString
	var rate sql.NullFloat64
	err := row.Scan(
		&d.ID, &spotID, &d.UserID, &d.EntryTime, &exitTime, &cost,
		&spotNumber, &lotID, &lotName, &rate, &d.UserName,
	)
	if err != nil {
		return nil, err
	}
	// The spot columns are NULL for closed reservations whose spot was
	// removed; the zero values mark the orphaned row.
	d.SpotID = int(spotID.Int64)
	d.SpotNumber = int(spotNumber.Int64)
	d.LotID = int(lotID.Int64)
	d.LotName = lotName.String
	d.HourlyRate = rate.Float64
	if exitTime.Valid {
		t := exitTime.Time
		d.ExitTime = &t
	}
	if cost.Valid {
		c := cost.Float64
		d.Cost = &c
	}
	return &d, nil
}

func scanDetails(rows *sql.Rows) ([]db.ReservationDetail, error) {
	defer rows.Close()
	var details []db.ReservationDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		details = append(details, *d)
	}
	return details, rows.Err()
}
