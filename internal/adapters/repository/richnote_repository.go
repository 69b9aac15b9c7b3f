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

// RichNoteRepositoryImpl implements the RichNoteRepository interface: one
// formatted document per (user, section) pair, upserted whole on every save.
type RichNoteRepositoryImpl struct {
	db *sqlx.DB
}

// NewRichNoteRepository creates a new rich note repository
func NewRichNoteRepository(db *sqlx.DB) ports.RichNoteRepository {
	return &RichNoteRepositoryImpl{db: db}
}

func (r *RichNoteRepositoryImpl) Get(ctx context.Context, owner uuid.UUID, section string) (string, error) {
	if owner == uuid.Nil {
		return "", entities.ErrNotAuthenticated
	}
	if section == "" {
		section = entities.DefaultSection
	}

	query := `SELECT markdown FROM rich_notes WHERE user_id = $1 AND section = $2`

	var markdown string
	err := r.db.GetContext(ctx, &markdown, query, owner, section)
	if err != nil {
		if err == sql.ErrNoRows {
			// A section with no document yet reads as empty content.
			return "", nil
		}
		return "", fmt.Errorf("get rich notes: %w", err)
	}

	return markdown, nil
}

func (r *RichNoteRepositoryImpl) Set(ctx context.Context, owner uuid.UUID, section, markdown string) error {
	if owner == uuid.Nil {
		return entities.ErrNotAuthenticated
	}
	if section == "" {
		section = entities.DefaultSection
	}

	query := `
		INSERT INTO rich_notes (id, user_id, section, markdown, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, section) DO UPDATE
		SET markdown = EXCLUDED.markdown, updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query,
		entities.RichNoteID(owner, section), owner, section, markdown,
	)
	if err != nil {
		return fmt.Errorf("set rich notes: %w", err)
	}

	return nil
}

func (r *RichNoteRepositoryImpl) ListSections(ctx context.Context, owner uuid.UUID) ([]string, error) {
	if owner == uuid.Nil {
		return nil, entities.ErrNotAuthenticated
	}

	query := `
		SELECT section
		FROM rich_notes
		WHERE user_id = $1
		ORDER BY updated_at DESC`

	var sections []string
	if err := r.db.SelectContext(ctx, &sections, query, owner); err != nil {
		return nil, fmt.Errorf("list rich note sections: %w", err)
	}

	return sections, nil
}

func (r *RichNoteRepositoryImpl) DeleteSection(ctx context.Context, owner uuid.UUID, section string) error {
	if owner == uuid.Nil {
		return entities.ErrNotAuthenticated
	}

	query := `DELETE FROM rich_notes WHERE user_id = $1 AND section = $2`

	if _, err := r.db.ExecContext(ctx, query, owner, section); err != nil {
		return fmt.Errorf("delete rich note section: %w", err)
	}

	return nil
}
