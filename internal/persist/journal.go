package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// BattleRecord is the outcome of one finished battle.
type BattleRecord struct {
	ID         int64
	StartedAt  time.Time
	EndedAt    time.Time
	Rounds     int
	Victory    bool
	HeroName   string
	HeroHealth int
	Enemies    []string // roster in spawn order
}

// Journal is the append-only battle log. Rows are written once and never
// read back into a running encounter.
type Journal struct {
	db *DB
}

func NewJournal(db *DB) *Journal {
	return &Journal{db: db}
}

// Record writes one battle and its roster in a single transaction.
func (j *Journal) Record(ctx context.Context, rec BattleRecord) error {
	tx, err := j.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(ctx,
		`INSERT INTO battles (started_at, ended_at, rounds, victory, hero_name, hero_health)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING battle_id`,
		rec.StartedAt, rec.EndedAt, rec.Rounds, rec.Victory, rec.HeroName, rec.HeroHealth,
	).Scan(&id); err != nil {
		return fmt.Errorf("journal insert battle: %w", err)
	}

	if len(rec.Enemies) > 0 {
		rows := make([][]any, 0, len(rec.Enemies))
		for i, name := range rec.Enemies {
			rows = append(rows, []any{id, i, name})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"battle_enemies"},
			[]string{"battle_id", "slot", "name"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("journal insert roster: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("journal commit: %w", err)
	}
	j.db.log.Debug("battle journaled")
	return nil
}

// Recent returns the last limit battles, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]BattleRecord, error) {
	rows, err := j.db.Pool.Query(ctx,
		`SELECT b.battle_id, b.started_at, b.ended_at, b.rounds, b.victory, b.hero_name, b.hero_health,
		        COALESCE(array_agg(e.name ORDER BY e.slot) FILTER (WHERE e.name IS NOT NULL), '{}')
		 FROM battles b
		 LEFT JOIN battle_enemies e ON e.battle_id = b.battle_id
		 GROUP BY b.battle_id
		 ORDER BY b.ended_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal query: %w", err)
	}
	defer rows.Close()

	var out []BattleRecord
	for rows.Next() {
		var r BattleRecord
		if err := rows.Scan(
			&r.ID, &r.StartedAt, &r.EndedAt, &r.Rounds, &r.Victory, &r.HeroName, &r.HeroHealth,
			&r.Enemies,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
