package entities

import "time"

type LotRequest struct {
	Name       string  `json:"name"`
	HourlyRate float64 `json:"hourly_rate"`
	Address    string  `json:"address"`
	PostalCode string  `json:"postal_code"`
	Capacity   int     `json:"capacity"`
}

type LotSummary struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	HourlyRate     float64 `json:"hourly_rate"`
	Address        string  `json:"address"`
	PostalCode     string  `json:"postal_code"`
	TotalSpots     int     `json:"total_spots"`
	OccupiedSpots  int     `json:"occupied_spots"`
	AvailableSpots int     `json:"available_spots"`
}

type LotDetail struct {
	LotSummary
	ParkingSpots []SpotStatus `json:"parking_spots"`
}

type SpotStatus struct {
	ID          int             `json:"id"`
	SpotNumber  int             `json:"spot_number"`
	Status      string          `json:"status"`
	Reservation *SpotOccupation `json:"reservation,omitempty"`
}

// SpotOccupation describes the open reservation holding a spot.
type SpotOccupation struct {
	ReservationID int       `json:"reservation_id"`
	UserID        int       `json:"user_id"`
	UserName      string    `json:"user_name,omitempty"`
	EntryTime     time.Time `json:"entry_time"`
}

type SpotResponse struct {
	ID         int    `json:"id"`
	LotID      int    `json:"lot_id"`
	LotName    string `json:"lot_name,omitempty"`
	SpotNumber int    `json:"spot_number"`
	Status     string `json:"status"`
}

type SpotDetail struct {
	SpotResponse
	Reservation *SpotOccupation `json:"reservation,omitempty"`
}

type SpotSearchResult struct {
	LotID       int             `json:"lot_id"`
	LotName     string          `json:"lot_name"`
	SpotID      int             `json:"spot_id"`
	SpotNumber  int             `json:"spot_number"`
	Status      string          `json:"status"`
	Reservation *SpotOccupation `json:"reservation,omitempty"`
}

type LotOccupancy struct {
	LotName        string `json:"lot_name"`
	TotalSpots     int    `json:"total_spots"`
	OccupiedSpots  int    `json:"occupied_spots"`
	AvailableSpots int    `json:"available_spots"`
}

type DashboardSummary struct {
	TotalLots      int            `json:"total_lots"`
	TotalSpots     int            `json:"total_spots"`
	AvailableSpots int            `json:"available_spots"`
	OccupiedSpots  int            `json:"occupied_spots"`
	Lots           []LotOccupancy `json:"lots"`
}
