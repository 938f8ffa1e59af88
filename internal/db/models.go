package db

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	SpotAvailable = "available"
	SpotOccupied  = "occupied"
)

type User struct {
	ID           int
	Username     string
	PasswordHash string
	Role         string
	Email        string
	Phone        string
	CreatedAt    time.Time
}

type ParkingLot struct {
	ID         int
	Name       string
	HourlyRate float64
	Address    string
	PostalCode string
	Capacity   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ParkingSpot struct {
	ID         int
	LotID      int
	SpotNumber int
	Status     string
}

// Reservation rows are append-only. SpotID is 0 for closed reservations
// whose spot was removed in a lot shrink or delete.
type Reservation struct {
	ID        int
	SpotID    int
	UserID    int
	EntryTime time.Time
	ExitTime  *time.Time
	Cost      *float64
}

// ReservationDetail joins a reservation with the spot and lot it refers to,
// for display and cost computation.
type ReservationDetail struct {
	Reservation
	SpotNumber int
	LotID      int
	LotName    string
	HourlyRate float64
	UserName   string
}
