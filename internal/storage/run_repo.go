package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run groups the papers submitted together in one batch.
type Run struct {
	RunID     string
	Name      string
	Status    string
	Total     int
	Completed int
	Failed    int
	CreatedAt time.Time
}

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

func (r *RunRepo) CreateRun(ctx context.Context, name string, total int) (string, error) {
	runID := uuid.NewString()
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO runs (run_id, name, status, total) VALUES ($1::uuid, $2, 'running', $3)`,
		runID, name, total)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return runID, nil
}

func (r *RunRepo) FinishRun(ctx context.Context, runID string, completed, failed int) error {
	status := "completed"
	if failed > 0 {
		status = "completed_with_failures"
	}
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE runs SET status=$2, completed=$3, failed=$4, finished_at=NOW() WHERE run_id=$1::uuid`,
		runID, status, completed, failed)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

func (r *RunRepo) GetRun(ctx context.Context, runID string) (Run, error) {
	var run Run
	err := r.db.Pool.QueryRow(ctx,
		`SELECT run_id::text, name, status, total, completed, failed, created_at FROM runs WHERE run_id=$1::uuid`,
		runID).Scan(&run.RunID, &run.Name, &run.Status, &run.Total, &run.Completed, &run.Failed, &run.CreatedAt)
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}
