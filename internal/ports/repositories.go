package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/daytrack/core/internal/domain/entities"
)

// TaskRepository defines the interface for task data operations. Every
// operation is scoped to the owning user's partition of the store.
type TaskRepository interface {
	List(ctx context.Context, owner uuid.UUID, filter TaskFilter) ([]entities.Task, error)
	Create(ctx context.Context, task *entities.Task) error
	Toggle(ctx context.Context, owner uuid.UUID, id int64) (bool, error)
	Edit(ctx context.Context, owner uuid.UUID, id int64, text string) error
	Delete(ctx context.Context, owner uuid.UUID, id int64) error
	UpdateSection(ctx context.Context, owner uuid.UUID, id int64, section string) error
	ReassignSection(ctx context.Context, owner uuid.UUID, from, to string) ([]int64, error)
	CountBySection(ctx context.Context, owner uuid.UUID) (map[string]int, error)
}

// SectionRepository defines the interface for user-created sections. Built-in
// sections never hit the store; they are merged in by the application state.
type SectionRepository interface {
	List(ctx context.Context, owner uuid.UUID) ([]entities.Section, error)
	Create(ctx context.Context, section *entities.Section) error
	Delete(ctx context.Context, owner uuid.UUID, id string) error
}

// NoteRepository defines the interface for the plain-text scratchpad. Get
// returns an empty body with a nil error when no row exists yet.
type NoteRepository interface {
	Get(ctx context.Context, owner uuid.UUID) (string, error)
	Set(ctx context.Context, owner uuid.UUID, body string) error
}

// RichNoteRepository defines the interface for per-section rich documents.
type RichNoteRepository interface {
	Get(ctx context.Context, owner uuid.UUID, section string) (string, error)
	Set(ctx context.Context, owner uuid.UUID, section, markdown string) error
	ListSections(ctx context.Context, owner uuid.UUID) ([]string, error)
	DeleteSection(ctx context.Context, owner uuid.UUID, section string) error
}

// PreferenceRepository defines the interface for the per-user settings row.
// Get returns the defaults with a nil error when no row exists yet.
type PreferenceRepository interface {
	Get(ctx context.Context, owner uuid.UUID) (entities.Preferences, error)
	Set(ctx context.Context, owner uuid.UUID, theme entities.Theme) error
}

// UserRepository defines the interface for account records.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	Section   *string
	Completed *bool
}
