package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/eggsim/internal/domain/save"
	"github.com/rpggio/eggsim/internal/repository"
)

// DefaultHistoryDepth is the number of replaced payloads kept per slot.
const DefaultHistoryDepth = 10

// SaveRepository implements save.Repository for SQLite
type SaveRepository struct {
	db    *DB
	depth int
}

// NewSaveRepository creates a new SaveRepository keeping depth replaced
// payloads per slot. A non-positive depth uses DefaultHistoryDepth.
func NewSaveRepository(db *DB, depth int) *SaveRepository {
	if depth <= 0 {
		depth = DefaultHistoryDepth
	}
	return &SaveRepository{db: db, depth: depth}
}

// Get retrieves the current save of a slot
func (r *SaveRepository) Get(ctx context.Context, slot string) (*save.Record, error) {
	query := `
		SELECT slot, version, payload, saved_at
		FROM saves
		WHERE slot = ?
	`

	var rec save.Record
	err := r.db.QueryRowContext(ctx, query, slot).Scan(
		&rec.Slot,
		&rec.Version,
		&rec.Payload,
		&rec.SavedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get save: %w", err)
	}

	rec.SavedAt = rec.SavedAt.UTC()
	return &rec, nil
}

// Put replaces the save of a slot, archiving the previous payload
func (r *SaveRepository) Put(ctx context.Context, rec *save.Record) error {
	if rec == nil || rec.Slot == "" {
		return repository.ErrInvalidInput
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	archive := `
		INSERT INTO save_history (slot, version, payload, saved_at)
		SELECT slot, version, payload, saved_at FROM saves WHERE slot = ?
	`
	if _, err := tx.ExecContext(ctx, archive, rec.Slot); err != nil {
		return fmt.Errorf("failed to archive save: %w", err)
	}

	upsert := `
		INSERT INTO saves (slot, version, payload, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			version = excluded.version,
			payload = excluded.payload,
			saved_at = excluded.saved_at
	`
	_, err = tx.ExecContext(ctx, upsert, rec.Slot, rec.Version, rec.Payload, rec.SavedAt.UTC())
	if isCheckViolation(err) {
		return repository.ErrInvalidInput
	}
	if err != nil {
		return fmt.Errorf("failed to put save: %w", err)
	}

	prune := `
		DELETE FROM save_history
		WHERE slot = ? AND id NOT IN (
			SELECT id FROM save_history WHERE slot = ? ORDER BY id DESC LIMIT ?
		)
	`
	if _, err := tx.ExecContext(ctx, prune, rec.Slot, rec.Slot, r.depth); err != nil {
		return fmt.Errorf("failed to prune save history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save: %w", err)
	}
	return nil
}

// Delete removes the current save of a slot. Its history is kept.
func (r *SaveRepository) Delete(ctx context.Context, slot string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// History lists replaced payloads of a slot, newest first
func (r *SaveRepository) History(ctx context.Context, slot string, opts repository.HistoryOptions) ([]save.Record, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = repository.DefaultHistoryLimit
	}

	query := `
		SELECT slot, version, payload, saved_at
		FROM save_history
		WHERE slot = ?
	`
	args := []any{slot}
	if !opts.Before.IsZero() {
		query += ` AND saved_at < ?`
		args = append(args, opts.Before.UTC())
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list save history: %w", err)
	}
	defer rows.Close()

	var out []save.Record
	for rows.Next() {
		var rec save.Record
		var savedAt time.Time
		if err := rows.Scan(&rec.Slot, &rec.Version, &rec.Payload, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan save history: %w", err)
		}
		rec.SavedAt = savedAt.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate save history: %w", err)
	}
	return out, nil
}
