package state

import (
	"sync"

	"github.com/google/uuid"

	"github.com/daytrack/core/internal/domain/entities"
)

// AllSections is the sentinel board filter meaning "no section filter".
const AllSections = "all"

// Session is one user's in-memory mirror of the store: tasks, scratchpad
// body, merged section list, rich-note content cache and theme. It is loaded
// once and mutated only through named operations, so the invariant that every
// task's section resolves to a known section (or the default) is enforced in
// one place. The cache never shrinks during a session except through the
// deletion operations themselves.
type Session struct {
	mu sync.Mutex

	owner  uuid.UUID
	loaded bool

	tasks        []entities.Task
	noteBody     string
	sections     []entities.Section
	richNotes    map[string]string
	richSections []string
	theme        entities.Theme
	themeStored  bool
	activeFilter string
}

func newSession(owner uuid.UUID) *Session {
	return &Session{
		owner:        owner,
		richNotes:    make(map[string]string),
		theme:        entities.ThemeLight,
		activeFilter: AllSections,
	}
}

// reset puts the session into the empty/default state a failed load settles
// into: built-in sections only, nothing else.
func (s *Session) reset() {
	s.tasks = nil
	s.noteBody = ""
	s.sections = entities.BuiltInSections()
	s.richNotes = make(map[string]string)
	s.richSections = nil
	s.theme = entities.ThemeLight
	s.themeStored = false
}

// Owner returns the user this session mirrors.
func (s *Session) Owner() uuid.UUID {
	return s.owner
}

// Tasks returns a copy of the cached task list.
func (s *Session) Tasks() []entities.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entities.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// AppendTask adds the store's canonical record to the cache. Tasks whose
// section no longer resolves are pinned to the default section.
func (s *Session) AppendTask(task entities.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.resolvesLocked(task.Section) {
		task.Section = entities.DefaultSection
	}
	s.tasks = append(s.tasks, task)
}

// PatchTaskText replaces only the text of the matching record.
func (s *Session) PatchTaskText(id int64, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Text = text
			return
		}
	}
}

// SetTaskCompleted replaces only the completion flag of the matching record.
func (s *Session) SetTaskCompleted(id int64, completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = completed
			return
		}
	}
}

// SetTaskSection moves the matching record to the given section.
func (s *Session) SetTaskSection(id int64, section string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.resolvesLocked(section) {
		section = entities.DefaultSection
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Section = section
			return
		}
	}
}

// RemoveTask drops the matching record from the cache.
func (s *Session) RemoveTask(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// Sections returns a copy of the merged section list, built-ins first.
func (s *Session) Sections() []entities.Section {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entities.Section, len(s.sections))
	copy(out, s.sections)
	return out
}

// SectionCount returns the current number of sections, used for the
// round-robin color/icon pick and sort order of a new section.
func (s *Session) SectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sections)
}

// AppendSection adds a newly created section to the merged list.
func (s *Session) AppendSection(section entities.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = append(s.sections, section)
}

// RemoveSection drops the section from the list and reassigns every cached
// task in it to the fallback section. The active filter resets to "all" when
// it pointed at the removed section.
func (s *Session) RemoveSection(id, fallback string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sections {
		if s.sections[i].ID == id {
			s.sections = append(s.sections[:i], s.sections[i+1:]...)
			break
		}
	}
	for i := range s.tasks {
		if s.tasks[i].Section == id {
			s.tasks[i].Section = fallback
		}
	}
	if s.activeFilter == id {
		s.activeFilter = AllSections
	}
}

// HasSection reports whether id resolves to a known section.
func (s *Session) HasSection(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolvesLocked(id)
}

func (s *Session) resolvesLocked(id string) bool {
	if id == entities.DefaultSection {
		return true
	}
	for i := range s.sections {
		if s.sections[i].ID == id {
			return true
		}
	}
	return false
}

// ActiveFilter returns the board's current section filter.
func (s *Session) ActiveFilter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeFilter
}

// SetActiveFilter records the board's current section filter.
func (s *Session) SetActiveFilter(section string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeFilter = section
}

// NoteBody returns the cached scratchpad body.
func (s *Session) NoteBody() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.noteBody
}

// SetNoteBody replaces the cached scratchpad body.
func (s *Session) SetNoteBody(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noteBody = body
}

// RichNote returns the cached content for a section and whether the entry
// exists. A missing entry means the content was never loaded, not that the
// document is empty.
func (s *Session) RichNote(section string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.richNotes[section]
	return content, ok
}

// SetRichNote fills the cache entry for a section. Entries are keyed by
// section, so a write landing after a section switch still updates the entry
// it was started for.
func (s *Session) SetRichNote(section, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.richNotes[section] = content
}

// DropRichNote removes a section's cache entry and its index membership.
func (s *Session) DropRichNote(section string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.richNotes, section)
	for i, id := range s.richSections {
		if id == section {
			s.richSections = append(s.richSections[:i], s.richSections[i+1:]...)
			return
		}
	}
}

// RichSections returns a copy of the has-content section index.
func (s *Session) RichSections() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.richSections))
	copy(out, s.richSections)
	return out
}

// TrackRichSection adds a section to the has-content index if untracked.
func (s *Session) TrackRichSection(section string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.richSections {
		if id == section {
			return
		}
	}
	s.richSections = append(s.richSections, section)
}

// Theme returns the cached theme.
func (s *Session) Theme() entities.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// SetTheme records a theme change and reports whether it should be
// persisted. The initial default is never written back to the store.
func (s *Session) SetTheme(theme entities.Theme) (persist bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.theme = theme
	if theme == entities.ThemeLight && !s.themeStored {
		return false
	}
	s.themeStored = true
	return true
}
