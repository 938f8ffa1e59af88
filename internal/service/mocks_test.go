package service

import (
	"context"
	"parkhouse/internal/db"
	"parkhouse/internal/entities"
	"parkhouse/internal/repository"
	"time"

	"github.com/stretchr/testify/mock"
)

type mockLotRepo struct{ mock.Mock }

func (m *mockLotRepo) Create(ctx context.Context, lot *db.ParkingLot) error {
	return m.Called(ctx, lot).Error(0)
}

func (m *mockLotRepo) UpdateDetails(ctx context.Context, lot *db.ParkingLot) error {
	return m.Called(ctx, lot).Error(0)
}

func (m *mockLotRepo) Resize(ctx context.Context, lotID, newCapacity int) error {
	return m.Called(ctx, lotID, newCapacity).Error(0)
}

func (m *mockLotRepo) Delete(ctx context.Context, lotID int) error {
	return m.Called(ctx, lotID).Error(0)
}

func (m *mockLotRepo) GetByID(ctx context.Context, lotID int) (*db.ParkingLot, error) {
	args := m.Called(ctx, lotID)
	if lot := args.Get(0); lot != nil {
		return lot.(*db.ParkingLot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLotRepo) List(ctx context.Context) ([]entities.LotSummary, error) {
	args := m.Called(ctx)
	if lots := args.Get(0); lots != nil {
		return lots.([]entities.LotSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSpotRepo struct{ mock.Mock }

func (m *mockSpotRepo) GetByID(ctx context.Context, spotID int) (*repository.SpotWithLot, error) {
	args := m.Called(ctx, spotID)
	if s := args.Get(0); s != nil {
		return s.(*repository.SpotWithLot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSpotRepo) ListByLot(ctx context.Context, lotID int) ([]db.ParkingSpot, error) {
	args := m.Called(ctx, lotID)
	if s := args.Get(0); s != nil {
		return s.([]db.ParkingSpot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSpotRepo) ListAll(ctx context.Context) ([]db.ParkingSpot, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.([]db.ParkingSpot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSpotRepo) SearchByLotName(ctx context.Context, name string) ([]repository.SpotWithLot, error) {
	args := m.Called(ctx, name)
	if s := args.Get(0); s != nil {
		return s.([]repository.SpotWithLot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSpotRepo) FindBySpotNumber(ctx context.Context, spotNumber int) ([]repository.SpotWithLot, error) {
	args := m.Called(ctx, spotNumber)
	if s := args.Get(0); s != nil {
		return s.([]repository.SpotWithLot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSpotRepo) CountsByLot(ctx context.Context) ([]entities.LotOccupancy, error) {
	args := m.Called(ctx)
	if c := args.Get(0); c != nil {
		return c.([]entities.LotOccupancy), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockReservationRepo struct{ mock.Mock }

func (m *mockReservationRepo) Book(ctx context.Context, lotID, userID int, entryTime time.Time) (*db.ReservationDetail, error) {
	args := m.Called(ctx, lotID, userID, entryTime)
	if d := args.Get(0); d != nil {
		return d.(*db.ReservationDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepo) Close(ctx context.Context, reservationID, userID int, exitTime time.Time) (*db.ReservationDetail, error) {
	args := m.Called(ctx, reservationID, userID, exitTime)
	if d := args.Get(0); d != nil {
		return d.(*db.ReservationDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepo) GetActiveByUser(ctx context.Context, userID int) (*db.ReservationDetail, error) {
	args := m.Called(ctx, userID)
	if d := args.Get(0); d != nil {
		return d.(*db.ReservationDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepo) ListByUser(ctx context.Context, userID int) ([]db.ReservationDetail, error) {
	args := m.Called(ctx, userID)
	if d := args.Get(0); d != nil {
		return d.([]db.ReservationDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepo) GetOpenBySpot(ctx context.Context, spotID int) (*db.ReservationDetail, error) {
	args := m.Called(ctx, spotID)
	if d := args.Get(0); d != nil {
		return d.(*db.ReservationDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepo) ListOpenByLot(ctx context.Context, lotID int) ([]db.ReservationDetail, error) {
	args := m.Called(ctx, lotID)
	if d := args.Get(0); d != nil {
		return d.([]db.ReservationDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReservationRepo) ListOpenOlderThan(ctx context.Context, cutoff time.Time) ([]db.ReservationDetail, error) {
	args := m.Called(ctx, cutoff)
	if d := args.Get(0); d != nil {
		return d.([]db.ReservationDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *db.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*db.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*db.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int) (*db.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*db.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) ListByRole(ctx context.Context, role string) ([]db.User, error) {
	args := m.Called(ctx, role)
	if u := args.Get(0); u != nil {
		return u.([]db.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) ReservationClosed(user *db.User, res *entities.ReservationResponse) {
	m.Called(user, res)
}
