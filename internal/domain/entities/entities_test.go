package entities

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Groceries", "groceries"},
		{"spaces", "My Side Project", "my-side-project"},
		{"surrounding whitespace", "  Weekend Plans  ", "weekend-plans"},
		{"collapses runs", "a    b", "a-b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SectionSlug(tt.in))
		})
	}
}

func TestBuiltInSections(t *testing.T) {
	sections := BuiltInSections()
	require.Len(t, sections, 4)

	for _, s := range sections {
		assert.True(t, s.BuiltIn(), "section %s should be built-in", s.ID)
		assert.True(t, IsBuiltInSection(s.ID))
	}

	assert.False(t, IsBuiltInSection("groceries"))
	assert.False(t, IsBuiltInSection(""))

	// Fresh slice every call so callers can append.
	first := BuiltInSections()
	first[0].Name = "mutated"
	assert.Equal(t, "Work", BuiltInSections()[0].Name)
}

func TestTaskNormalizeSection(t *testing.T) {
	task := Task{Text: "water plants"}
	task.NormalizeSection()
	assert.Equal(t, DefaultSection, task.Section)

	task = Task{Text: "standup", Section: "work"}
	task.NormalizeSection()
	assert.Equal(t, "work", task.Section)
}

func TestTaskCreatedAtClock(t *testing.T) {
	task := Task{CreatedAt: time.Date(2025, 3, 14, 15, 9, 0, 0, time.UTC)}
	assert.Equal(t, "03:09 PM", task.CreatedAtClock())

	task.CreatedAt = time.Date(2025, 3, 14, 0, 5, 0, 0, time.UTC)
	assert.Equal(t, "12:05 AM", task.CreatedAtClock())
}

func TestRichNoteID(t *testing.T) {
	owner := uuid.MustParse("9c9d3e9e-5b1a-4d6f-8a2b-0d1e2f3a4b5c")
	assert.Equal(t, owner.String()+"_work", RichNoteID(owner, "work"))
}

func TestThemeIsValid(t *testing.T) {
	assert.True(t, ThemeLight.IsValid())
	assert.True(t, ThemeDark.IsValid())
	assert.False(t, Theme("sepia").IsValid())
	assert.False(t, Theme("").IsValid())
}

func TestDefaultPreferences(t *testing.T) {
	owner := uuid.New()
	prefs := DefaultPreferences(owner)
	assert.Equal(t, owner, prefs.OwnerID)
	assert.Equal(t, ThemeLight, prefs.Theme)
}
