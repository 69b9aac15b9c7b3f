package state

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daytrack/core/internal/domain/entities"
	"github.com/daytrack/core/internal/infrastructure/logger"
	"github.com/daytrack/core/internal/ports"
)

// Manager owns the per-user sessions and the single load-and-merge routine
// that fills them on first touch.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	tasks    ports.TaskRepository
	notes    ports.NoteRepository
	rich     ports.RichNoteRepository
	sections ports.SectionRepository
	prefs    ports.PreferenceRepository

	warmDelay time.Duration
	logger    *logger.Logger
}

// NewManager creates a session manager over the given repositories.
func NewManager(
	tasks ports.TaskRepository,
	sections ports.SectionRepository,
	notes ports.NoteRepository,
	rich ports.RichNoteRepository,
	prefs ports.PreferenceRepository,
	warmDelay time.Duration,
	appLogger *logger.Logger,
) *Manager {
	return &Manager{
		sessions:  make(map[uuid.UUID]*Session),
		tasks:     tasks,
		notes:     notes,
		rich:      rich,
		sections:  sections,
		prefs:     prefs,
		warmDelay: warmDelay,
		logger:    appLogger.WithComponent("state"),
	}
}

// Session returns the user's session, loading it from the store on first
// touch. A load failure settles the session into the empty/default state
// rather than retrying; the session is still usable.
func (m *Manager) Session(ctx context.Context, owner uuid.UUID) (*Session, error) {
	if owner == uuid.Nil {
		return nil, entities.ErrNotAuthenticated
	}

	m.mu.Lock()
	sess, ok := m.sessions[owner]
	if !ok {
		sess = newSession(owner)
		m.sessions[owner] = sess
	}
	m.mu.Unlock()

	sess.mu.Lock()
	if sess.loaded {
		sess.mu.Unlock()
		return sess, nil
	}

	if err := m.loadLocked(ctx, sess); err != nil {
		// Any sub-fetch failing fails the whole load; the cache settles
		// empty with loading cleared, no partial retry.
		m.logger.Errorw("Failed to load app data", "error", err, "user_id", owner.String())
		sess.reset()
		sess.loaded = true
		sess.mu.Unlock()
		return sess, nil
	}
	sess.loaded = true
	sections := make([]entities.Section, len(sess.sections))
	copy(sections, sess.sections)
	sess.mu.Unlock()

	// Warm rich-note content for every section in the background shortly
	// after load. Failures leave the entry absent for an on-demand fetch.
	go m.warm(sess, sections)

	return sess, nil
}

// loadLocked runs the aggregate fetch into an already-locked, unloaded
// session: tasks, scratchpad, merged sections, rich-note index and theme.
func (m *Manager) loadLocked(ctx context.Context, sess *Session) error {
	owner := sess.owner

	tasks, err := m.tasks.List(ctx, owner, ports.TaskFilter{})
	if err != nil {
		return err
	}

	body, err := m.notes.Get(ctx, owner)
	if err != nil {
		return err
	}

	custom, err := m.sections.List(ctx, owner)
	if err != nil {
		return err
	}

	richSections, err := m.rich.ListSections(ctx, owner)
	if err != nil {
		return err
	}

	prefs, err := m.prefs.Get(ctx, owner)
	if err != nil {
		return err
	}

	sess.tasks = tasks
	sess.noteBody = body
	sess.sections = append(entities.BuiltInSections(), custom...)
	sess.richSections = richSections
	sess.theme = prefs.Theme
	sess.themeStored = prefs.Theme != entities.ThemeLight

	return nil
}

func (m *Manager) warm(sess *Session, sections []entities.Section) {
	time.Sleep(m.warmDelay)

	ctx := context.Background()
	for _, section := range sections {
		if _, ok := sess.RichNote(section.ID); ok {
			continue
		}
		content, err := m.rich.Get(ctx, sess.owner, section.ID)
		if err != nil {
			m.logger.Warnw("Failed to warm rich notes for section",
				"section", section.ID, "user_id", sess.owner.String(), "error", err)
			continue
		}
		sess.SetRichNote(section.ID, content)
	}
}

// Evict drops a user's session, forcing a fresh load on next touch. Used
// when a session should not outlive its authentication.
func (m *Manager) Evict(owner uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, owner)
}
