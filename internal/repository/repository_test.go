package repository

import (
	"context"
	"database/sql"
	"os"
	"parkhouse/internal/db"
	"parkhouse/internal/engine"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run against a real Postgres and are skipped unless
// TEST_DATABASE_URL is set. Each test starts from empty tables.

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	conn, err := db.Open(url)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.EnsureSchema(conn))
	_, err = conn.Exec(`TRUNCATE reservations, parking_spots, parking_lots, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return conn
}

func seedUser(t *testing.T, conn *sql.DB, username string) int {
	t.Helper()
	u := &db.User{Username: username, PasswordHash: "x", Role: db.RoleUser}
	require.NoError(t, NewUserRepository(conn).Create(context.Background(), u))
	return u.ID
}

func seedLot(t *testing.T, conn *sql.DB, name string, capacity int, rate float64) *db.ParkingLot {
	t.Helper()
	lot := &db.ParkingLot{
		Name:       name,
		HourlyRate: rate,
		Address:    "1 Main St",
		PostalCode: "12345",
		Capacity:   capacity,
	}
	require.NoError(t, NewLotRepository(conn).Create(context.Background(), lot))
	return lot
}

var testEntry = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func TestBookPicksLowestSpotNumber(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	reservations := NewReservationRepository(conn)
	lot := seedLot(t, conn, "Central", 3, 10.0)

	alice := seedUser(t, conn, "alice")
	bob := seedUser(t, conn, "bob")
	carol := seedUser(t, conn, "carol")

	first, err := reservations.Book(ctx, lot.ID, alice, testEntry)
	require.NoError(t, err)
	assert.Equal(t, 1, first.SpotNumber)

	second, err := reservations.Book(ctx, lot.ID, bob, testEntry)
	require.NoError(t, err)
	assert.Equal(t, 2, second.SpotNumber)

	// Spot 1 frees up; the next booking takes it, not spot 3.
	_, err = reservations.Close(ctx, first.ID, alice, testEntry.Add(time.Hour))
	require.NoError(t, err)

	third, err := reservations.Book(ctx, lot.ID, carol, testEntry.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, third.SpotNumber)
}

func TestBookLotFull(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	reservations := NewReservationRepository(conn)
	lot := seedLot(t, conn, "Tiny", 1, 10.0)

	alice := seedUser(t, conn, "alice")
	bob := seedUser(t, conn, "bob")

	_, err := reservations.Book(ctx, lot.ID, alice, testEntry)
	require.NoError(t, err)

	_, err = reservations.Book(ctx, lot.ID, bob, testEntry)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrNoAvailableSpot)
}

func TestBookDuplicateUser(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	reservations := NewReservationRepository(conn)
	central := seedLot(t, conn, "Central", 2, 10.0)
	north := seedLot(t, conn, "North", 2, 8.0)

	alice := seedUser(t, conn, "alice")

	_, err := reservations.Book(ctx, central.ID, alice, testEntry)
	require.NoError(t, err)

	// One open reservation per user, across all lots.
	_, err = reservations.Book(ctx, north.ID, alice, testEntry)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrDuplicateActiveReservation)
}

func TestCloseComputesCostAndFreesSpot(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	reservations := NewReservationRepository(conn)
	spots := NewSpotRepository(conn)
	lot := seedLot(t, conn, "Central", 2, 10.0)
	alice := seedUser(t, conn, "alice")

	booked, err := reservations.Book(ctx, lot.ID, alice, testEntry)
	require.NoError(t, err)

	exit := testEntry.Add(2*time.Hour + 30*time.Minute)
	closed, err := reservations.Close(ctx, booked.ID, alice, exit)
	require.NoError(t, err)
	require.NotNil(t, closed.Cost)
	assert.InDelta(t, 25.00, *closed.Cost, 1e-9)
	require.NotNil(t, closed.ExitTime)

	spot, err := spots.GetByID(ctx, booked.SpotID)
	require.NoError(t, err)
	assert.Equal(t, db.SpotAvailable, spot.Status)

	// A second close finds no open row.
	_, err = reservations.Close(ctx, booked.ID, alice, exit.Add(time.Hour))
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestCloseRejectsExitBeforeEntry(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	reservations := NewReservationRepository(conn)
	lot := seedLot(t, conn, "Central", 1, 10.0)
	alice := seedUser(t, conn, "alice")

	booked, err := reservations.Book(ctx, lot.ID, alice, testEntry)
	require.NoError(t, err)

	_, err = reservations.Close(ctx, booked.ID, alice, testEntry.Add(-time.Minute))
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrClockSkew)

	// The reservation stays open.
	active, err := reservations.GetActiveByUser(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, booked.ID, active.ID)
}

func TestResizeGrowsAndShrinks(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	lots := NewLotRepository(conn)
	spots := NewSpotRepository(conn)
	lot := seedLot(t, conn, "Central", 2, 10.0)

	require.NoError(t, lots.Resize(ctx, lot.ID, 4))
	grown, err := spots.ListByLot(ctx, lot.ID)
	require.NoError(t, err)
	require.Len(t, grown, 4)
	assert.Equal(t, 4, grown[3].SpotNumber)

	require.NoError(t, lots.Resize(ctx, lot.ID, 3))
	shrunk, err := spots.ListByLot(ctx, lot.ID)
	require.NoError(t, err)
	require.Len(t, shrunk, 3)

	updated, err := lots.GetByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Capacity)
}

func TestResizeRejectedWholeWhileHighSpotsOccupied(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	lots := NewLotRepository(conn)
	spots := NewSpotRepository(conn)
	reservations := NewReservationRepository(conn)
	lot := seedLot(t, conn, "Central", 3, 10.0)

	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := reservations.Book(ctx, lot.ID, seedUser(t, conn, name), testEntry)
		require.NoError(t, err)
	}

	err := lots.Resize(ctx, lot.ID, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrCapacityConflict)

	// The rejection leaves nothing behind: capacity and spot set unchanged.
	unchanged, err := lots.GetByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, unchanged.Capacity)
	remaining, err := spots.ListByLot(ctx, lot.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 3)
}

func TestDeleteRejectedWhileOccupied(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	lots := NewLotRepository(conn)
	reservations := NewReservationRepository(conn)
	lot := seedLot(t, conn, "Central", 1, 10.0)
	alice := seedUser(t, conn, "alice")

	booked, err := reservations.Book(ctx, lot.ID, alice, testEntry)
	require.NoError(t, err)

	err = lots.Delete(ctx, lot.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrOccupiedSpotsExist)

	_, err = lots.GetByID(ctx, lot.ID)
	require.NoError(t, err)

	_, err = reservations.Close(ctx, booked.ID, alice, testEntry.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, lots.Delete(ctx, lot.ID))

	_, err = lots.GetByID(ctx, lot.ID)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestDeleteKeepsClosedHistory(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	lots := NewLotRepository(conn)
	reservations := NewReservationRepository(conn)
	lot := seedLot(t, conn, "Central", 1, 10.0)
	alice := seedUser(t, conn, "alice")

	booked, err := reservations.Book(ctx, lot.ID, alice, testEntry)
	require.NoError(t, err)
	_, err = reservations.Close(ctx, booked.ID, alice, testEntry.Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, lots.Delete(ctx, lot.ID))

	// The closed reservation survives the lot; the spot reference is gone.
	history, err := reservations.ListByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, booked.ID, history[0].ID)
	require.NotNil(t, history[0].Cost)
	assert.InDelta(t, 10.00, *history[0].Cost, 1e-9)
	assert.Equal(t, 0, history[0].SpotID)
}
