package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daytrack/core/internal/application/state"
	"github.com/daytrack/core/internal/domain/entities"
	"github.com/daytrack/core/internal/infrastructure/logger"
	"github.com/daytrack/core/internal/ports"
)

// In-memory repository fakes. Each counts its writes so tests can assert
// that debouncing and cache hits avoid store round trips.

type fakeTaskRepo struct {
	mu     sync.Mutex
	tasks  map[int64]entities.Task
	nextID int64
	clock  time.Time
	edits  int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{
		tasks: make(map[int64]entities.Task),
		clock: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeTaskRepo) List(ctx context.Context, owner uuid.UUID, filter ports.TaskFilter) ([]entities.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []entities.Task
	for _, t := range f.tasks {
		if t.OwnerID != owner {
			continue
		}
		if filter.Section != nil && t.Section != *filter.Section {
			continue
		}
		if filter.Completed != nil && t.Completed != *filter.Completed {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *entities.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	f.clock = f.clock.Add(time.Minute)
	task.ID = f.nextID
	task.CreatedAt = f.clock
	task.NormalizeSection()
	f.tasks[task.ID] = *task
	return nil
}

func (f *fakeTaskRepo) Toggle(ctx context.Context, owner uuid.UUID, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[id]
	if !ok || t.OwnerID != owner {
		return false, entities.ErrTaskNotFound
	}
	t.Completed = !t.Completed
	f.tasks[id] = t
	return t.Completed, nil
}

func (f *fakeTaskRepo) Edit(ctx context.Context, owner uuid.UUID, id int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[id]
	if !ok || t.OwnerID != owner {
		return entities.ErrTaskNotFound
	}
	t.Text = text
	f.tasks[id] = t
	f.edits++
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, owner uuid.UUID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[id]
	if !ok || t.OwnerID != owner {
		return entities.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) UpdateSection(ctx context.Context, owner uuid.UUID, id int64, section string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tasks[id]
	if !ok || t.OwnerID != owner {
		return entities.ErrTaskNotFound
	}
	t.Section = section
	f.tasks[id] = t
	return nil
}

func (f *fakeTaskRepo) ReassignSection(ctx context.Context, owner uuid.UUID, from, to string) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var ids []int64
	for id, t := range f.tasks {
		if t.OwnerID == owner && t.Section == from {
			t.Section = to
			f.tasks[id] = t
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeTaskRepo) CountBySection(ctx context.Context, owner uuid.UUID) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	counts := make(map[string]int)
	for _, t := range f.tasks {
		if t.OwnerID == owner {
			counts[t.Section]++
		}
	}
	return counts, nil
}

func (f *fakeTaskRepo) editCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.edits
}

type fakeSectionRepo struct {
	mu       sync.Mutex
	sections map[string]entities.Section
}

func newFakeSectionRepo() *fakeSectionRepo {
	return &fakeSectionRepo{sections: make(map[string]entities.Section)}
}

func (f *fakeSectionRepo) List(ctx context.Context, owner uuid.UUID) ([]entities.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []entities.Section
	for _, s := range f.sections {
		if s.OwnerID == owner {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakeSectionRepo) Create(ctx context.Context, section *entities.Section) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sections[section.ID] = *section
	return nil
}

func (f *fakeSectionRepo) Delete(ctx context.Context, owner uuid.UUID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sections[id]
	if !ok || s.OwnerID != owner {
		return entities.ErrSectionNotFound
	}
	delete(f.sections, id)
	return nil
}

type fakeNoteRepo struct {
	mu       sync.Mutex
	body     string
	getCalls int
	setCalls int
}

func (f *fakeNoteRepo) Get(ctx context.Context, owner uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	return f.body, nil
}

func (f *fakeNoteRepo) Set(ctx context.Context, owner uuid.UUID, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	f.body = body
	return nil
}

func (f *fakeNoteRepo) stats() (string, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.body, f.getCalls, f.setCalls
}

type fakeRichRepo struct {
	mu       sync.Mutex
	docs     map[string]string
	getCalls int
	setCalls int
}

func newFakeRichRepo() *fakeRichRepo {
	return &fakeRichRepo{docs: make(map[string]string)}
}

func (f *fakeRichRepo) Get(ctx context.Context, owner uuid.UUID, section string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	return f.docs[section], nil
}

func (f *fakeRichRepo) Set(ctx context.Context, owner uuid.UUID, section, markdown string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	f.docs[section] = markdown
	return nil
}

func (f *fakeRichRepo) ListSections(ctx context.Context, owner uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for section := range f.docs {
		out = append(out, section)
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeRichRepo) DeleteSection(ctx context.Context, owner uuid.UUID, section string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, section)
	return nil
}

func (f *fakeRichRepo) doc(section string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.docs[section]
	return content, ok
}

func (f *fakeRichRepo) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setCalls
}

type fakePrefRepo struct {
	mu       sync.Mutex
	theme    entities.Theme
	stored   bool
	setCalls int
}

func (f *fakePrefRepo) Get(ctx context.Context, owner uuid.UUID) (entities.Preferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.stored {
		return entities.DefaultPreferences(owner), nil
	}
	return entities.Preferences{OwnerID: owner, Theme: f.theme}, nil
}

func (f *fakePrefRepo) Set(ctx context.Context, owner uuid.UUID, theme entities.Theme) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	f.theme = theme
	f.stored = true
	return nil
}

func (f *fakePrefRepo) stats() (entities.Theme, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.theme, f.setCalls
}

// testEnv wires the services over in-memory fakes. The warm delay is long
// enough that background prefetch never interferes with assertions.
type testEnv struct {
	owner    uuid.UUID
	tasks    *fakeTaskRepo
	sections *fakeSectionRepo
	notes    *fakeNoteRepo
	rich     *fakeRichRepo
	prefs    *fakePrefRepo
	state    *state.Manager
	board    *BoardService
	notesSvc *NotesService
	prefSvc  *PreferenceService
}

func newTestEnv(debounce time.Duration) *testEnv {
	env := &testEnv{
		owner:    uuid.New(),
		tasks:    newFakeTaskRepo(),
		sections: newFakeSectionRepo(),
		notes:    &fakeNoteRepo{},
		rich:     newFakeRichRepo(),
		prefs:    &fakePrefRepo{},
	}

	nop := logger.NewNop()
	env.state = state.NewManager(env.tasks, env.sections, env.notes, env.rich, env.prefs, time.Hour, nop)
	env.board = NewBoardService(env.tasks, env.sections, env.state, nop)
	env.notesSvc = NewNotesService(env.notes, env.rich, env.state, debounce, nop)
	env.prefSvc = NewPreferenceService(env.prefs, env.state, nop)

	return env
}
