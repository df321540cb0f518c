package store

import (
	"context"
	"fmt"
	"time"

	"github.com/swarajpanmand/encode-ai-native-health/internal/db"
)

// DatabaseStore stores conversation turns in PostgreSQL, one row per turn.
type DatabaseStore struct {
	db  *db.DB
	ttl time.Duration
}

// NewDatabaseStore creates a new database store
func NewDatabaseStore(database *db.DB, ttl time.Duration) *DatabaseStore {
	return &DatabaseStore{db: database, ttl: ttl}
}

// Get returns the turns of a conversation. A conversation idle for longer
// than the ttl is removed and reported as not found.
func (ds *DatabaseStore) Get(ctx context.Context, id string) ([]Turn, error) {
	rows, err := ds.db.QueryContext(ctx, `
		SELECT role, content, created_at
		FROM conversation_turns
		WHERE conversation_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.Role, &t.Content, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	if len(turns) == 0 {
		return nil, ErrNotFound
	}
	if expired(turns[len(turns)-1].Timestamp, ds.ttl, time.Now()) {
		if err := ds.Delete(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return turns, nil
}

// Append inserts turns in one transaction so a history never holds half of
// an exchange.
func (ds *DatabaseStore) Append(ctx context.Context, id string, turns ...Turn) error {
	if id == "" {
		return fmt.Errorf("conversation_id is required")
	}
	tx, err := ds.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range turns {
		ts := t.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO conversation_turns (conversation_id, role, content, created_at)
			VALUES ($1, $2, $3, $4)
		`, id, t.Role, t.Content, ts); err != nil {
			return fmt.Errorf("failed to save turn: %w", err)
		}
	}
	return tx.Commit()
}

// Delete removes every turn of a conversation
func (ds *DatabaseStore) Delete(ctx context.Context, id string) error {
	if _, err := ds.db.ExecContext(ctx, `DELETE FROM conversation_turns WHERE conversation_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// Sweep deletes conversations whose newest turn is older than the ttl. It
// returns the number of turns removed.
func (ds *DatabaseStore) Sweep(ctx context.Context) (int, error) {
	if ds.ttl <= 0 {
		return 0, nil
	}
	res, err := ds.db.ExecContext(ctx, `
		DELETE FROM conversation_turns
		WHERE conversation_id IN (
			SELECT conversation_id
			FROM conversation_turns
			GROUP BY conversation_id
			HAVING MAX(created_at) < $1
		)
	`, time.Now().Add(-ds.ttl))
	if err != nil {
		return 0, fmt.Errorf("failed to delete idle conversations: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
