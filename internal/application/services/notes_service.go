package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daytrack/core/internal/application/state"
	"github.com/daytrack/core/internal/domain/entities"
	"github.com/daytrack/core/internal/infrastructure/logger"
	"github.com/daytrack/core/internal/ports"
)

// NotesService manages the plain scratchpad and the per-section rich
// documents. Edits land in the session cache immediately; persistence is
// debounced through one autosaver per document, so a burst of keystrokes
// produces a single write.
type NotesService struct {
	noteRepo ports.NoteRepository
	richRepo ports.RichNoteRepository
	state    *state.Manager
	debounce time.Duration
	logger   *logger.Logger

	mu         sync.Mutex
	noteSavers map[uuid.UUID]*autosaver
	richSavers map[richKey]*autosaver
	richLoads  map[richKey]bool
}

// richKey identifies one rich document. Savers are keyed per section so a
// write still in flight lands on the section it was typed in, even if the
// user has switched sections since.
type richKey struct {
	owner   uuid.UUID
	section string
}

// NewNotesService creates a new notes service
func NewNotesService(noteRepo ports.NoteRepository, richRepo ports.RichNoteRepository, stateManager *state.Manager, debounce time.Duration, logger *logger.Logger) *NotesService {
	return &NotesService{
		noteRepo:   noteRepo,
		richRepo:   richRepo,
		state:      stateManager,
		debounce:   debounce,
		logger:     logger,
		noteSavers: make(map[uuid.UUID]*autosaver),
		richSavers: make(map[richKey]*autosaver),
		richLoads:  make(map[richKey]bool),
	}
}

// Note returns the cached scratchpad body.
func (s *NotesService) Note(ctx context.Context, owner uuid.UUID) (string, error) {
	sess, err := s.state.Session(ctx, owner)
	if err != nil {
		return "", err
	}
	return sess.NoteBody(), nil
}

// ChangeNote replaces the scratchpad body in the cache and restarts the
// debounce countdown for its persistence.
func (s *NotesService) ChangeNote(ctx context.Context, owner uuid.UUID, body string) error {
	sess, err := s.state.Session(ctx, owner)
	if err != nil {
		return err
	}

	sess.SetNoteBody(body)
	s.noteSaver(owner).Update(body)

	return nil
}

// RichNote returns the markdown for a section's document. A cache miss falls
// through to the store; the fetched content enters the cache without marking
// the document dirty, so the load itself never triggers a save.
func (s *NotesService) RichNote(ctx context.Context, owner uuid.UUID, section string) (string, error) {
	if section == "" {
		section = entities.DefaultSection
	}

	sess, err := s.state.Session(ctx, owner)
	if err != nil {
		return "", err
	}

	if content, ok := sess.RichNote(section); ok {
		return content, nil
	}

	key := richKey{owner: owner, section: section}
	s.mu.Lock()
	s.richLoads[key] = true
	s.mu.Unlock()

	content, err := s.richRepo.Get(ctx, owner, section)

	s.mu.Lock()
	delete(s.richLoads, key)
	s.mu.Unlock()

	if err != nil {
		return "", fmt.Errorf("failed to load rich note: %w", err)
	}

	sess.SetRichNote(section, content)

	return content, nil
}

// ChangeRichNote replaces a section's markdown in the cache and restarts its
// debounce countdown. Edits arriving while that document is still loading
// from the store are dropped so a stale editor cannot clobber stored content.
func (s *NotesService) ChangeRichNote(ctx context.Context, owner uuid.UUID, section, markdown string) error {
	if section == "" {
		section = entities.DefaultSection
	}

	sess, err := s.state.Session(ctx, owner)
	if err != nil {
		return err
	}

	key := richKey{owner: owner, section: section}
	s.mu.Lock()
	loading := s.richLoads[key]
	s.mu.Unlock()
	if loading {
		return nil
	}

	sess.SetRichNote(section, markdown)
	s.richSaver(owner, section).Update(markdown)

	return nil
}

// SaveRichNote flushes a section's pending content to the store immediately,
// bypassing the countdown.
func (s *NotesService) SaveRichNote(ctx context.Context, owner uuid.UUID, section string) (*ports.SaveResult, error) {
	if section == "" {
		section = entities.DefaultSection
	}

	if _, err := s.state.Session(ctx, owner); err != nil {
		return nil, err
	}

	if err := s.richSaver(owner, section).Flush(ctx); err != nil {
		return nil, fmt.Errorf("failed to save rich note: %w", err)
	}

	return &ports.SaveResult{Section: section, SavedAt: time.Now().UTC()}, nil
}

// RichNoteSections lists the sections that hold a rich document, most
// recently updated first per the store, with cached-only sections appended.
func (s *NotesService) RichNoteSections(ctx context.Context, owner uuid.UUID) ([]string, error) {
	sess, err := s.state.Session(ctx, owner)
	if err != nil {
		return nil, err
	}

	stored, err := s.richRepo.ListSections(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list rich note sections: %w", err)
	}

	seen := make(map[string]bool, len(stored))
	for _, section := range stored {
		seen[section] = true
	}

	cached := sess.RichSections()
	sort.Strings(cached)
	for _, section := range cached {
		if !seen[section] {
			stored = append(stored, section)
			seen[section] = true
		}
	}

	return stored, nil
}

// DeleteRichNoteSection removes a section's document from the store and the
// cache, discarding any pending autosave for it.
func (s *NotesService) DeleteRichNoteSection(ctx context.Context, owner uuid.UUID, section string) error {
	sess, err := s.state.Session(ctx, owner)
	if err != nil {
		return err
	}

	key := richKey{owner: owner, section: section}
	s.mu.Lock()
	if saver, ok := s.richSavers[key]; ok {
		saver.Close()
		delete(s.richSavers, key)
	}
	s.mu.Unlock()

	if err := s.richRepo.DeleteSection(ctx, owner, section); err != nil {
		return fmt.Errorf("failed to delete rich note: %w", err)
	}

	sess.DropRichNote(section)

	s.logger.Infow("Rich note deleted", "section", section, "user_id", owner.String())

	return nil
}

// Evict tears down a user's autosavers, flushing anything still pending.
// Called on logout alongside the session eviction.
func (s *NotesService) Evict(ctx context.Context, owner uuid.UUID) {
	s.mu.Lock()
	var savers []*autosaver
	if saver, ok := s.noteSavers[owner]; ok {
		savers = append(savers, saver)
		delete(s.noteSavers, owner)
	}
	for key, saver := range s.richSavers {
		if key.owner == owner {
			savers = append(savers, saver)
			delete(s.richSavers, key)
		}
	}
	s.mu.Unlock()

	for _, saver := range savers {
		if err := saver.Flush(ctx); err != nil {
			s.logger.Errorw("Failed to flush pending note on eviction", "error", err, "user_id", owner.String())
		}
		saver.Close()
	}
}

// FlushAll persists every pending document. Called during graceful shutdown.
func (s *NotesService) FlushAll(ctx context.Context) {
	s.mu.Lock()
	savers := make([]*autosaver, 0, len(s.noteSavers)+len(s.richSavers))
	for _, saver := range s.noteSavers {
		savers = append(savers, saver)
	}
	for _, saver := range s.richSavers {
		savers = append(savers, saver)
	}
	s.mu.Unlock()

	for _, saver := range savers {
		if err := saver.Flush(ctx); err != nil {
			s.logger.Errorw("Failed to flush pending note on shutdown", "error", err)
		}
	}
}

func (s *NotesService) noteSaver(owner uuid.UUID) *autosaver {
	s.mu.Lock()
	defer s.mu.Unlock()

	saver, ok := s.noteSavers[owner]
	if !ok {
		saver = newAutosaver(s.debounce, func(ctx context.Context, content string) error {
			if err := s.noteRepo.Set(ctx, owner, content); err != nil {
				s.logger.Errorw("Failed to persist note", "error", err, "user_id", owner.String())
				return err
			}
			return nil
		})
		s.noteSavers[owner] = saver
	}
	return saver
}

func (s *NotesService) richSaver(owner uuid.UUID, section string) *autosaver {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := richKey{owner: owner, section: section}
	saver, ok := s.richSavers[key]
	if !ok {
		saver = newAutosaver(s.debounce, func(ctx context.Context, content string) error {
			if err := s.richRepo.Set(ctx, owner, section, content); err != nil {
				s.logger.Errorw("Failed to persist rich note", "error", err, "section", section, "user_id", owner.String())
				return err
			}
			if strings.TrimSpace(content) != "" {
				if sess, err := s.state.Session(ctx, owner); err == nil {
					sess.TrackRichSection(section)
				}
			}
			return nil
		})
		s.richSavers[key] = saver
	}
	return saver
}
