package persist

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/swarmloop/engine/internal/core/ecs"
	"golang.org/x/crypto/blake2b"
)

// recordSize is the canonical encoded length of one ecs.Record.
const recordSize = 4 + 4*8 + 4 + 4 + 2 + 8

// EncodeRecords appends the canonical big-endian encoding of rows to dst.
// Two runs that reach the same logical state encode identically.
func EncodeRecords(dst []byte, rows []ecs.Record) []byte {
	for _, r := range rows {
		dst = binary.BigEndian.AppendUint32(dst, uint32(r.Index))
		dst = binary.BigEndian.AppendUint64(dst, math.Float64bits(r.X))
		dst = binary.BigEndian.AppendUint64(dst, math.Float64bits(r.Y))
		dst = binary.BigEndian.AppendUint64(dst, math.Float64bits(r.Z))
		dst = binary.BigEndian.AppendUint64(dst, math.Float64bits(r.Rotation))
		dst = binary.BigEndian.AppendUint32(dst, uint32(int32(r.TextureID)))
		dst = binary.BigEndian.AppendUint32(dst, uint32(int32(r.Animation)))
		dst = binary.BigEndian.AppendUint16(dst, r.CurrentFrame)
		dst = binary.BigEndian.AppendUint64(dst, r.MillisPassed)
	}
	return dst
}

// Digest is the BLAKE2b-256 of the canonical encoding of rows.
func Digest(rows []ecs.Record) [blake2b.Size256]byte {
	return blake2b.Sum256(EncodeRecords(make([]byte, 0, len(rows)*recordSize), rows))
}

type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Save stores rows as the snapshot of frame and returns its digest. The
// header and the rows are written in one transaction; rows go through COPY.
func (r *SnapshotRepo) Save(ctx context.Context, runID int64, frame uint64, rows []ecs.Record) ([]byte, error) {
	sum := Digest(rows)

	err := r.db.InTx(ctx, func(tx pgx.Tx) error {
		var id int64
		if err := tx.QueryRow(ctx,
			`INSERT INTO snapshots (run_id, frame, entities, digest)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			runID, int64(frame), len(rows), sum[:],
		).Scan(&id); err != nil {
			return fmt.Errorf("insert header: %w", err)
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"entity_snapshots"},
			[]string{"snapshot_id", "idx", "x", "y", "z", "rotation", "texture_id", "animation", "current_frame", "millis_passed"},
			pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
				e := rows[i]
				return []any{
					id, int32(e.Index), e.X, e.Y, e.Z, e.Rotation,
					int32(e.TextureID), int32(e.Animation), int32(e.CurrentFrame), int64(e.MillisPassed),
				}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot frame %d: %w", frame, err)
	}
	return sum[:], nil
}

// Digests returns the stored digest of every snapshot of a run by frame.
func (r *SnapshotRepo) Digests(ctx context.Context, runID int64) (map[uint64][]byte, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT frame, digest FROM snapshots WHERE run_id = $1 ORDER BY frame`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uint64][]byte)
	for rows.Next() {
		var (
			frame  int64
			digest []byte
		)
		if err := rows.Scan(&frame, &digest); err != nil {
			return nil, err
		}
		result[uint64(frame)] = digest
	}
	return result, rows.Err()
}
