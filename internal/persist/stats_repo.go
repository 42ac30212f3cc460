package persist

import (
	"context"
	"time"

	"github.com/swarmloop/engine/internal/core/timer"
)

type StatsRepo struct {
	db *DB
}

func NewStatsRepo(db *DB) *StatsRepo {
	return &StatsRepo{db: db}
}

// Insert stores one frame pacing sample of a run.
func (r *StatsRepo) Insert(ctx context.Context, runID int64, s timer.Sample) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO frame_stats (run_id, frames, elapsed_ms, avg_fps, avg_frame_ms)
		 VALUES ($1, $2, $3, $4, $5)`,
		runID, int32(s.Frames), s.Elapsed.Milliseconds(), s.AverageFPS,
		float64(s.AverageFrame)/float64(time.Millisecond),
	)
	return err
}
