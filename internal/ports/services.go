package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/daytrack/core/internal/domain/entities"
)

// BoardService drives the task board: task CRUD, section lifecycle and the
// pure view derivations (partition, stats, pagination).
type BoardService interface {
	Board(ctx context.Context, owner uuid.UUID, view BoardQuery) (*BoardView, error)
	AddTask(ctx context.Context, owner uuid.UUID, req AddTaskRequest) (*entities.Task, error)
	ToggleTask(ctx context.Context, owner uuid.UUID, id int64) (bool, error)
	EditTask(ctx context.Context, owner uuid.UUID, id int64, text string) (*entities.Task, error)
	DeleteTask(ctx context.Context, owner uuid.UUID, id int64) error
	MoveTask(ctx context.Context, owner uuid.UUID, id int64, section string) error
	Sections(ctx context.Context, owner uuid.UUID) ([]SectionSummary, error)
	AddSection(ctx context.Context, owner uuid.UUID, req AddSectionRequest) (*entities.Section, error)
	DeleteSection(ctx context.Context, owner uuid.UUID, id string) (*SectionDeleteResult, error)
}

// NotesService drives the plain scratchpad and the per-section rich
// documents, including the debounced autosave machinery.
type NotesService interface {
	Note(ctx context.Context, owner uuid.UUID) (string, error)
	ChangeNote(ctx context.Context, owner uuid.UUID, body string) error
	RichNote(ctx context.Context, owner uuid.UUID, section string) (string, error)
	ChangeRichNote(ctx context.Context, owner uuid.UUID, section, markdown string) error
	SaveRichNote(ctx context.Context, owner uuid.UUID, section string) (*SaveResult, error)
	RichNoteSections(ctx context.Context, owner uuid.UUID) ([]string, error)
	DeleteRichNoteSection(ctx context.Context, owner uuid.UUID, section string) error
}

// PreferenceService manages the per-user settings row.
type PreferenceService interface {
	Get(ctx context.Context, owner uuid.UUID) (entities.Preferences, error)
	SetTheme(ctx context.Context, owner uuid.UUID, theme entities.Theme) error
}

// AuthService handles account registration and token-based sessions.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Request/Response Types

type AddTaskRequest struct {
	Text    string `json:"text" validate:"required"`
	Section string `json:"section"`
}

type EditTaskRequest struct {
	Text string `json:"text"`
}

type MoveTaskRequest struct {
	Section string `json:"section" validate:"required"`
}

type AddSectionRequest struct {
	Name string `json:"name" validate:"required"`
}

type SaveNoteRequest struct {
	Body string `json:"body"`
}

type SaveRichNoteRequest struct {
	Markdown string `json:"markdown"`
}

type SetThemeRequest struct {
	Theme entities.Theme `json:"theme" validate:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int64          `json:"expires_in"`
	User        *entities.User `json:"user"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// BoardQuery selects what slice of the board to derive. Section "all" (or
// empty) shows every task; CompletedPage is 1-based.
type BoardQuery struct {
	Section       string
	CompletedPage int
}

// BoardView is the derived, render-ready shape of the board. It is computed
// fresh on every call from the cached tasks, never stored.
type BoardView struct {
	Section            string         `json:"section"`
	Active             []TaskView     `json:"active"`
	Completed          []TaskView     `json:"completed"`
	CompletedTotal     int            `json:"completed_total"`
	CompletedPage      int            `json:"completed_page"`
	CompletedPageCount int            `json:"completed_page_count"`
	Stats              []SectionStats `json:"stats"`
	Total              int            `json:"total"`
}

// TaskView decorates a task with the 12-hour clock label shown next to it.
type TaskView struct {
	entities.Task
	CreatedAtClock string `json:"created_at_clock"`
}

// SectionStats carries per-section task counts alongside the section itself.
type SectionStats struct {
	entities.Section
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Active    int `json:"active"`
}

// SectionSummary pairs a section with its task count as stored, independent
// of the cached board view.
type SectionSummary struct {
	entities.Section
	TaskCount int `json:"task_count"`
}

// SectionDeleteResult reports what a section delete touched: the ids of
// tasks reassigned to the default section.
type SectionDeleteResult struct {
	ReassignedIDs []int64 `json:"reassigned_ids"`
}

// SaveResult reports a completed rich-note save.
type SaveResult struct {
	Section string    `json:"section"`
	SavedAt time.Time `json:"saved_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
