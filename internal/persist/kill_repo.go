package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// KillRow is one entry of the match history.
type KillRow struct {
	Tick     int64
	Killer   string // session id; may belong to a disconnected player
	Victim   string
	Credited bool
	KilledAt time.Time
}

type KillRepo struct {
	db *DB
}

func NewKillRepo(db *DB) *KillRepo {
	return &KillRepo{db: db}
}

// InsertKills writes a batch in a single transaction.
func (r *KillRepo) InsertKills(ctx context.Context, rows []KillRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("kill log begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, k := range rows {
		batch.Queue(
			`INSERT INTO kill_log (tick, killer, victim, credited, killed_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			k.Tick, k.Killer, k.Victim, k.Credited, k.KilledAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("kill log insert: %w", err)
	}
	return tx.Commit(ctx)
}
