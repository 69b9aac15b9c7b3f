package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/daytrack/core/internal/domain/entities"
	"github.com/daytrack/core/internal/ports"
)

// SectionRepositoryImpl implements the SectionRepository interface. Only
// user-created sections live in the store; built-ins are merged in by the
// application state.
type SectionRepositoryImpl struct {
	db *sqlx.DB
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(db *sqlx.DB) ports.SectionRepository {
	return &SectionRepositoryImpl{db: db}
}

func (r *SectionRepositoryImpl) List(ctx context.Context, owner uuid.UUID) ([]entities.Section, error) {
	if owner == uuid.Nil {
		return nil, entities.ErrNotAuthenticated
	}

	query := `
		SELECT id, user_id, name, color, icon, sort_order
		FROM sections
		WHERE user_id = $1
		ORDER BY sort_order ASC, id ASC`

	var sections []entities.Section
	if err := r.db.SelectContext(ctx, &sections, query, owner); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}

	return sections, nil
}

func (r *SectionRepositoryImpl) Create(ctx context.Context, section *entities.Section) error {
	if section.OwnerID == uuid.Nil {
		return entities.ErrNotAuthenticated
	}

	query := `
		INSERT INTO sections (id, user_id, name, color, icon, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id, user_id) DO UPDATE
		SET name = EXCLUDED.name, color = EXCLUDED.color,
			icon = EXCLUDED.icon, sort_order = EXCLUDED.sort_order`

	_, err := r.db.ExecContext(ctx, query,
		section.ID, section.OwnerID, section.Name,
		section.Color, section.Icon, section.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("create section: %w", err)
	}

	return nil
}

func (r *SectionRepositoryImpl) Delete(ctx context.Context, owner uuid.UUID, id string) error {
	if owner == uuid.Nil {
		return entities.ErrNotAuthenticated
	}

	query := `DELETE FROM sections WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, owner)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}

	return requireRow(result, entities.ErrSectionNotFound)
}
