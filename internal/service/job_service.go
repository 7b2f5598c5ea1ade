package service

import (
	"context"
	"fmt"
	"log"

	"rapidpark/internal/db"
	"rapidpark/internal/repository"
)

type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// MarkFinishedReservations finds confirmed reservations past their end
// time and marks them finished, freeing their spots for allocation.
func (s *JobService) MarkFinishedReservations(ctx context.Context) error {
	ids, err := s.Repo.GetConfirmedIDsPastEndTime(ctx)
	if err != nil {
		return fmt.Errorf("cron job: failed to get confirmed reservations past end time: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	log.Printf("Cron Job: marking %d reservations as '%s'. IDs: %v", len(ids), db.StatusFinished, ids)
	if err := s.Repo.UpdateReservationStatuses(ctx, ids, db.StatusFinished); err != nil {
		return fmt.Errorf("cron job: failed to update reservation statuses: %w", err)
	}
	return nil
}
