package service

import (
	"context"
	"fmt"
	"log"
	"parkhouse/internal/repository"
	"time"
)

// JobService runs the periodic overstay sweep. The sweep only reports:
// reservations are never closed by anything but their owner.
type JobService struct {
	reservations  repository.ReservationRepository
	overstayAfter time.Duration
}

func NewJobService(reservations repository.ReservationRepository, overstayAfter time.Duration) *JobService {
	return &JobService{reservations: reservations, overstayAfter: overstayAfter}
}

func (s *JobService) ReportOverstays() error {
	ctx := context.Background()
	cutoff := time.Now().UTC().Add(-s.overstayAfter)

	overstayed, err := s.reservations.ListOpenOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("sweep: list overstayed reservations: %w", err)
	}

	if len(overstayed) == 0 {
		log.Println("Sweep: no reservations open longer than", s.overstayAfter)
		return nil
	}

	log.Printf("Sweep: %d reservations open longer than %s", len(overstayed), s.overstayAfter)
	for _, r := range overstayed {
		log.Printf("Sweep: reservation %d (user %s, spot %d at %q) open since %s",
			r.ID, r.UserName, r.SpotNumber, r.LotName, r.EntryTime.Format(time.RFC3339))
	}
	return nil
}
