package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/daytrack/core/internal/domain/entities"
	"github.com/daytrack/core/internal/ports"
)

// NoteRepositoryImpl implements the NoteRepository interface: one free-text
// body per user, upserted as a whole on every save.
type NoteRepositoryImpl struct {
	db *sqlx.DB
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *sqlx.DB) ports.NoteRepository {
	return &NoteRepositoryImpl{db: db}
}

func (r *NoteRepositoryImpl) Get(ctx context.Context, owner uuid.UUID) (string, error) {
	if owner == uuid.Nil {
		return "", entities.ErrNotAuthenticated
	}

	query := `SELECT body FROM notes WHERE user_id = $1`

	var body string
	err := r.db.GetContext(ctx, &body, query, owner)
	if err != nil {
		if err == sql.ErrNoRows {
			// No row yet is a legitimate empty scratchpad, not a failure.
			return "", nil
		}
		return "", fmt.Errorf("get notes: %w", err)
	}

	return body, nil
}

func (r *NoteRepositoryImpl) Set(ctx context.Context, owner uuid.UUID, body string) error {
	if owner == uuid.Nil {
		return entities.ErrNotAuthenticated
	}

	query := `
		INSERT INTO notes (user_id, body, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET body = EXCLUDED.body, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, owner, body); err != nil {
		return fmt.Errorf("set notes: %w", err)
	}

	return nil
}
