package entities

import "time"

type ReservationResponse struct {
	ID         int        `json:"id"`
	SpotID     int        `json:"spot_id"`
	SpotNumber int        `json:"spot_number"`
	LotID      int        `json:"lot_id"`
	LotName    string     `json:"lot_name"`
	HourlyRate float64    `json:"hourly_rate"`
	EntryTime  time.Time  `json:"entry_time"`
	ExitTime   *time.Time `json:"exit_time,omitempty"`
	Cost       *float64   `json:"cost,omitempty"`
	// CurrentCost is the running charge of an open reservation, computed
	// against the query time. Never persisted.
	CurrentCost *float64 `json:"current_cost,omitempty"`
}

type ReservationHistory struct {
	Reservations  []ReservationResponse `json:"reservations"`
	Active        *ReservationResponse  `json:"active_reservation,omitempty"`
	TotalPastCost float64               `json:"total_past_cost"`
}
