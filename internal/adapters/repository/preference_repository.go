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

// PreferenceRepositoryImpl implements the PreferenceRepository interface.
type PreferenceRepositoryImpl struct {
	db *sqlx.DB
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *sqlx.DB) ports.PreferenceRepository {
	return &PreferenceRepositoryImpl{db: db}
}

func (r *PreferenceRepositoryImpl) Get(ctx context.Context, owner uuid.UUID) (entities.Preferences, error) {
	if owner == uuid.Nil {
		return entities.Preferences{}, entities.ErrNotAuthenticated
	}

	query := `SELECT user_id, theme, updated_at FROM user_preferences WHERE user_id = $1`

	var prefs entities.Preferences
	err := r.db.GetContext(ctx, &prefs, query, owner)
	if err != nil {
		if err == sql.ErrNoRows {
			// No row yet means the user never changed anything.
			return entities.DefaultPreferences(owner), nil
		}
		return entities.Preferences{}, fmt.Errorf("get user preferences: %w", err)
	}

	return prefs, nil
}

func (r *PreferenceRepositoryImpl) Set(ctx context.Context, owner uuid.UUID, theme entities.Theme) error {
	if owner == uuid.Nil {
		return entities.ErrNotAuthenticated
	}
	if !theme.IsValid() {
		return entities.ErrInvalidTheme
	}

	query := `
		INSERT INTO user_preferences (user_id, theme, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET theme = EXCLUDED.theme, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, owner, theme); err != nil {
		return fmt.Errorf("set user preferences: %w", err)
	}

	return nil
}
