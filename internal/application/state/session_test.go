package state

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daytrack/core/internal/domain/entities"
)

func newLoadedSession(t *testing.T) *Session {
	t.Helper()

	s := newSession(uuid.New())
	s.reset()
	return s
}

func TestSessionAppendTaskPinsUnknownSection(t *testing.T) {
	s := newLoadedSession(t)

	s.AppendTask(entities.Task{ID: 1, Text: "known", Section: "work"})
	s.AppendTask(entities.Task{ID: 2, Text: "orphan", Section: "deleted-project"})

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "work", tasks[0].Section)
	assert.Equal(t, entities.DefaultSection, tasks[1].Section)
}

func TestSessionTaskPatches(t *testing.T) {
	s := newLoadedSession(t)
	s.AppendTask(entities.Task{ID: 1, Text: "original", Section: "work"})

	s.PatchTaskText(1, "edited")
	s.SetTaskCompleted(1, true)

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "edited", tasks[0].Text)
	assert.True(t, tasks[0].Completed)

	// Patches against unknown ids are silently ignored.
	s.PatchTaskText(99, "ghost")
	s.SetTaskCompleted(99, true)
	assert.Len(t, s.Tasks(), 1)

	s.RemoveTask(1)
	assert.Empty(t, s.Tasks())
}

func TestSessionRemoveSection(t *testing.T) {
	s := newLoadedSession(t)
	s.AppendSection(entities.Section{ID: "groceries", Name: "Groceries"})
	s.AppendTask(entities.Task{ID: 1, Section: "groceries"})
	s.AppendTask(entities.Task{ID: 2, Section: "work"})
	s.SetActiveFilter("groceries")

	s.RemoveSection("groceries", entities.DefaultSection)

	assert.False(t, s.HasSection("groceries"))

	tasks := s.Tasks()
	assert.Equal(t, entities.DefaultSection, tasks[0].Section)
	assert.Equal(t, "work", tasks[1].Section)

	// The filter pointed at the removed section, so it resets.
	assert.Equal(t, AllSections, s.ActiveFilter())
}

func TestSessionRemoveSectionKeepsUnrelatedFilter(t *testing.T) {
	s := newLoadedSession(t)
	s.AppendSection(entities.Section{ID: "groceries", Name: "Groceries"})
	s.SetActiveFilter("work")

	s.RemoveSection("groceries", entities.DefaultSection)

	assert.Equal(t, "work", s.ActiveFilter())
}

func TestSessionRichNoteCache(t *testing.T) {
	s := newLoadedSession(t)

	_, ok := s.RichNote("work")
	assert.False(t, ok, "unloaded entry must be distinguishable from empty content")

	s.SetRichNote("work", "")
	content, ok := s.RichNote("work")
	assert.True(t, ok)
	assert.Empty(t, content)

	s.SetRichNote("work", "# Notes")
	content, _ = s.RichNote("work")
	assert.Equal(t, "# Notes", content)

	s.TrackRichSection("work")
	s.TrackRichSection("work")
	assert.Equal(t, []string{"work"}, s.RichSections())

	s.DropRichNote("work")
	_, ok = s.RichNote("work")
	assert.False(t, ok)
	assert.Empty(t, s.RichSections())
}

func TestSessionSetTheme(t *testing.T) {
	s := newLoadedSession(t)

	// Re-selecting the initial default leaves no row behind.
	assert.False(t, s.SetTheme(entities.ThemeLight))
	assert.Equal(t, entities.ThemeLight, s.Theme())

	assert.True(t, s.SetTheme(entities.ThemeDark))
	assert.Equal(t, entities.ThemeDark, s.Theme())

	// Once a theme has been stored, switching back persists too.
	assert.True(t, s.SetTheme(entities.ThemeLight))
}

func TestSessionSectionCount(t *testing.T) {
	s := newLoadedSession(t)
	assert.Equal(t, 4, s.SectionCount())

	s.AppendSection(entities.Section{ID: "groceries"})
	assert.Equal(t, 5, s.SectionCount())
}
