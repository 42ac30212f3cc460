package persist

import (
	"context"
)

// RunRow is one engine run.
type RunRow struct {
	ID        int64
	Scene     string
	Capacity  int
	Clusters  int
	TargetFPS int
}

// RunTotals are the counters recorded when a run finishes.
type RunTotals struct {
	Frames   uint64
	Lagged   uint64
	Overruns uint64
	Rejected uint64
}

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// Start records a new run and fills in its id.
func (r *RunRepo) Start(ctx context.Context, run *RunRow) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO runs (scene, capacity, clusters, target_fps)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		run.Scene, run.Capacity, run.Clusters, run.TargetFPS,
	).Scan(&run.ID)
}

// Finish stamps the run's end time and totals.
func (r *RunRepo) Finish(ctx context.Context, id int64, t RunTotals) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE runs SET finished_at = NOW(), frames = $2, lagged = $3, overruns = $4, rejected = $5
		 WHERE id = $1`,
		id, int64(t.Frames), int64(t.Lagged), int64(t.Overruns), int64(t.Rejected),
	)
	return err
}
