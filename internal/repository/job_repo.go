package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/lib/pq"

	"rapidpark/internal/db"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetConfirmedIDsPastEndTime returns IDs of confirmed reservations whose
// end time has already passed.
func (r *JobRepository) GetConfirmedIDsPastEndTime(ctx context.Context) ([]int, error) {
	query := `SELECT id FROM reservations WHERE status = $1 AND end_time < NOW()`
	rows, err := r.DB.QueryContext(ctx, query, db.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("error querying confirmed reservations past end time: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning reservation ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

// UpdateReservationStatuses sets the status of the given reservations.
func (r *JobRepository) UpdateReservationStatuses(ctx context.Context, ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE reservations SET status = $1 WHERE id = ANY($2)`
	result, err := r.DB.ExecContext(ctx, query, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating reservation statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Updated status for %d reservations to '%s'", rowsAffected, newStatus)
	}
	return nil
}
