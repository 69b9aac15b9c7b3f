package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrNotAuthenticated = errors.New("user not authenticated")
	ErrTaskNotFound     = errors.New("task not found")
	ErrSectionNotFound  = errors.New("section not found")
	ErrSectionBuiltIn   = errors.New("built-in sections cannot be modified")
	ErrEmptyText        = errors.New("text must not be blank")
	ErrEmptySectionName = errors.New("section name must not be blank")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrInvalidTheme     = errors.New("invalid theme")
)

// DefaultSection is the sentinel section every task falls back to. Tasks in a
// deleted section are reassigned here rather than removed.
const DefaultSection = "personal"

// Theme selects the UI color scheme stored in user preferences.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark:
		return true
	default:
		return false
	}
}

// Task represents a single to-do item owned by one user.
type Task struct {
	ID        int64     `json:"id" db:"id"`
	OwnerID   uuid.UUID `json:"-" db:"user_id"`
	Text      string    `json:"text" db:"text"`
	Completed bool      `json:"completed" db:"completed"`
	Section   string    `json:"section" db:"section"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreatedAtClock renders the creation timestamp as a 12-hour hh:mm label,
// matching what the board displays next to each task.
func (t *Task) CreatedAtClock() string {
	return t.CreatedAt.Format("03:04 PM")
}

// NormalizeSection maps an unset section reference to the default section.
func (t *Task) NormalizeSection() {
	if t.Section == "" {
		t.Section = DefaultSection
	}
}

// Section is a named category tag attached to tasks and rich-note documents.
// A section is either one of the fixed built-ins or user-created.
type Section struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   uuid.UUID `json:"-" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	Icon      string    `json:"icon" db:"icon"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
}

// BuiltIn reports whether the section is one of the fixed defaults.
func (s *Section) BuiltIn() bool {
	return IsBuiltInSection(s.ID)
}

// BuiltInSections returns the fixed sections every account starts with. The
// slice is freshly allocated so callers may append custom sections to it.
func BuiltInSections() []Section {
	return []Section{
		{ID: "work", Name: "Work", Color: "blue", Icon: "💼"},
		{ID: "personal", Name: "Personal", Color: "green", Icon: "🏠"},
		{ID: "urgent", Name: "Urgent", Color: "red", Icon: "🚨"},
		{ID: "ideas", Name: "Ideas", Color: "purple", Icon: "💡"},
	}
}

// IsBuiltInSection reports whether id names a fixed built-in section.
func IsBuiltInSection(id string) bool {
	switch id {
	case "work", "personal", "urgent", "ideas":
		return true
	default:
		return false
	}
}

// SectionSlug derives a stable section id from a user-supplied name by
// lower-casing and hyphenating it. Two sections with the same derived slug
// are not prevented; the last write wins.
func SectionSlug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "-")
}

// Palettes cycled through when creating sections, indexed by section count.
var (
	SectionColors = []string{"blue", "green", "red", "purple", "yellow", "pink", "indigo", "orange"}
	SectionIcons  = []string{"📁", "🎯", "⭐", "🔥", "📋", "🎨", "🔧", "📊"}
)

// Note is the single free-text scratchpad each user has. The whole body is
// upserted on every save; there is no history.
type Note struct {
	OwnerID   uuid.UUID `json:"-" db:"user_id"`
	Body      string    `json:"body" db:"body"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RichNote is one formatted document per (user, section) pair.
type RichNote struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   uuid.UUID `json:"-" db:"user_id"`
	Section   string    `json:"section" db:"section"`
	Markdown  string    `json:"markdown" db:"markdown"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RichNoteID builds the synthetic primary key for a (user, section) document.
func RichNoteID(owner uuid.UUID, section string) string {
	return owner.String() + "_" + section
}

// Preferences holds the per-user settings row. Currently only the theme.
type Preferences struct {
	OwnerID   uuid.UUID `json:"-" db:"user_id"`
	Theme     Theme     `json:"theme" db:"theme"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultPreferences returns the settings a user starts with before any row
// has been written.
func DefaultPreferences(owner uuid.UUID) Preferences {
	return Preferences{OwnerID: owner, Theme: ThemeLight}
}

// User represents an account in the system.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
