package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/daytrack/core/internal/application/state"
	"github.com/daytrack/core/internal/domain/entities"
	"github.com/daytrack/core/internal/infrastructure/logger"
	"github.com/daytrack/core/internal/ports"
)

// PreferenceService manages the per-user settings row.
type PreferenceService struct {
	prefRepo ports.PreferenceRepository
	state    *state.Manager
	logger   *logger.Logger
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(prefRepo ports.PreferenceRepository, stateManager *state.Manager, logger *logger.Logger) *PreferenceService {
	return &PreferenceService{
		prefRepo: prefRepo,
		state:    stateManager,
		logger:   logger,
	}
}

// Get returns the cached preferences for a user.
func (s *PreferenceService) Get(ctx context.Context, owner uuid.UUID) (entities.Preferences, error) {
	sess, err := s.state.Session(ctx, owner)
	if err != nil {
		return entities.Preferences{}, err
	}

	return entities.Preferences{
		OwnerID: owner,
		Theme:   sess.Theme(),
	}, nil
}

// SetTheme switches the theme, persisting only once the user has moved off
// the initial default. A fresh account that never touches the toggle leaves
// no settings row behind.
func (s *PreferenceService) SetTheme(ctx context.Context, owner uuid.UUID, theme entities.Theme) error {
	if !theme.IsValid() {
		return entities.ErrInvalidTheme
	}

	sess, err := s.state.Session(ctx, owner)
	if err != nil {
		return err
	}

	if !sess.SetTheme(theme) {
		return nil
	}

	if err := s.prefRepo.Set(ctx, owner, theme); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}

	s.logger.Infow("Theme changed", "theme", string(theme), "user_id", owner.String())

	return nil
}
