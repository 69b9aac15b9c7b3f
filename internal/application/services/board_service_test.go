package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daytrack/core/internal/application/state"
	"github.com/daytrack/core/internal/domain/entities"
	"github.com/daytrack/core/internal/infrastructure/logger"
	"github.com/daytrack/core/internal/ports"
)

func TestAddTask(t *testing.T) {
	env := newTestEnv(time.Second)
	ctx := context.Background()

	t.Run("trims text and lands on the canonical record", func(t *testing.T) {
		task, err := env.board.AddTask(ctx, env.owner, ports.AddTaskRequest{Text: "  buy milk  ", Section: "work"})
		require.NoError(t, err)
		assert.Equal(t, "buy milk", task.Text)
		assert.Equal(t, "work", task.Section)
		assert.NotZero(t, task.ID)
		assert.False(t, task.CreatedAt.IsZero())

		view, err := env.board.Board(ctx, env.owner, ports.BoardQuery{Section: "work"})
		require.NoError(t, err)
		require.Len(t, view.Active, 1)
		assert.Equal(t, task.ID, view.Active[0].ID)
		// The view carries the rendered clock label alongside the raw time.
		assert.Equal(t, "09:01 AM", view.Active[0].CreatedAtClock)
	})

	t.Run("blank text is rejected", func(t *testing.T) {
		_, err := env.board.AddTask(ctx, env.owner, ports.AddTaskRequest{Text: "   "})
		assert.ErrorIs(t, err, entities.ErrEmptyText)
	})

	t.Run("aggregate view files under the default section", func(t *testing.T) {
		task, err := env.board.AddTask(ctx, env.owner, ports.AddTaskRequest{Text: "call mom", Section: state.AllSections})
		require.NoError(t, err)
		assert.Equal(t, entities.DefaultSection, task.Section)
	})

	t.Run("nil owner is rejected", func(t *testing.T) {
		_, err := env.board.AddTask(ctx, uuid.Nil, ports.AddTaskRequest{Text: "ghost"})
		assert.ErrorIs(t, err, entities.ErrNotAuthenticated)
	})
}

func TestToggleTaskRoundTrip(t *testing.T) {
	env := newTestEnv(time.Second)
	ctx := context.Background()

	task, err := env.board.AddTask(ctx, env.owner, ports.AddTaskRequest{Text: "water plants"})
	require.NoError(t, err)

	completed, err := env.board.ToggleTask(ctx, env.owner, task.ID)
	require.NoError(t, err)
	assert.True(t, completed)

	// Toggling twice restores the original state exactly.
	completed, err = env.board.ToggleTask(ctx, env.owner, task.ID)
	require.NoError(t, err)
	assert.False(t, completed)

	view, err := env.board.Board(ctx, env.owner, ports.BoardQuery{})
	require.NoError(t, err)
	require.Len(t, view.Active, 1)
	assert.False(t, view.Active[0].Completed)

	_, err = env.board.ToggleTask(ctx, env.owner, 9999)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestEditTask(t *testing.T) {
	env := newTestEnv(time.Second)
	ctx := context.Background()

	task, err := env.board.AddTask(ctx, env.owner, ports.AddTaskRequest{Text: "original"})
	require.NoError(t, err)

	t.Run("trims and writes through", func(t *testing.T) {
		edited, err := env.board.EditTask(ctx, env.owner, task.ID, "  revised  ")
		require.NoError(t, err)
		assert.Equal(t, "revised", edited.Text)
		assert.Equal(t, 1, env.tasks.editCount())
	})

	t.Run("blank replacement cancels without a write", func(t *testing.T) {
		kept, err := env.board.EditTask(ctx, env.owner, task.ID, "   ")
		require.NoError(t, err)
		assert.Equal(t, "revised", kept.Text)
		assert.Equal(t, 1, env.tasks.editCount(), "blank edit must not reach the store")
	})

	t.Run("unknown task", func(t *testing.T) {
		_, err := env.board.EditTask(ctx, env.owner, 9999, "text")
		assert.ErrorIs(t, err, entities.ErrTaskNotFound)
	})
}

func TestMoveTask(t *testing.T) {
	env := newTestEnv(time.Second)
	ctx := context.Background()

	task, err := env.board.AddTask(ctx, env.owner, ports.AddTaskRequest{Text: "errand"})
	require.NoError(t, err)

	require.NoError(t, env.board.MoveTask(ctx, env.owner, task.ID, "urgent"))

	view, err := env.board.Board(ctx, env.owner, ports.BoardQuery{Section: "urgent"})
	require.NoError(t, err)
	require.Len(t, view.Active, 1)

	err = env.board.MoveTask(ctx, env.owner, task.ID, "no-such-section")
	assert.ErrorIs(t, err, entities.ErrSectionNotFound)
}

func TestCompletedPagination(t *testing.T) {
	env := newTestEnv(time.Second)
	ctx := context.Background()

	// 12 completed and 3 active tasks.
	for i := 0; i < 15; i++ {
		task, err := env.board.AddTask(ctx, env.owner, ports.AddTaskRequest{Text: "task"})
		require.NoError(t, err)
		if i < 12 {
			_, err = env.board.ToggleTask(ctx, env.owner, task.ID)
			require.NoError(t, err)
		}
	}

	view, err := env.board.Board(ctx, env.owner, ports.BoardQuery{})
	require.NoError(t, err)
	assert.Len(t, view.Active, 3)
	assert.Equal(t, 12, view.CompletedTotal)
	assert.Equal(t, 3, view.CompletedPageCount)
	assert.Equal(t, 1, view.CompletedPage)
	assert.Len(t, view.Completed, 5)

	// Newest completed first: the fake clock advances per create, so the
	// first page starts with the most recently created completed task.
	assert.True(t, view.Completed[0].CreatedAt.After(view.Completed[4].CreatedAt))

	// Last page holds the remainder.
	view, err = env.board.Board(ctx, env.owner, ports.BoardQuery{CompletedPage: 3})
	require.NoError(t, err)
	assert.Len(t, view.Completed, 2)

	// Out-of-range pages clamp instead of erroring.
	view, err = env.board.Board(ctx, env.owner, ports.BoardQuery{CompletedPage: 99})
	require.NoError(t, err)
	assert.Equal(t, 3, view.CompletedPage)
	view, err = env.board.Board(ctx, env.owner, ports.BoardQuery{CompletedPage: -1})
	require.NoError(t, err)
	assert.Equal(t, 1, view.CompletedPage)
}

func TestBoardStats(t *testing.T) {
	env := newTestEnv(time.Second)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := env.board.AddTask(ctx, env.owner, ports.AddTaskRequest{Text: "w", Section: "work"})
		require.NoError(t, err)
	}
	task, err := env.board.AddTask(ctx, env.owner, ports.AddTaskRequest{Text: "done", Section: "work"})
	require.NoError(t, err)
	_, err = env.board.ToggleTask(ctx, env.owner, task.ID)
	require.NoError(t, err)

	view, err := env.board.Board(ctx, env.owner, ports.BoardQuery{})
	require.NoError(t, err)

	var work *ports.SectionStats
	for i := range view.Stats {
		if view.Stats[i].ID == "work" {
			work = &view.Stats[i]
		}
	}
	require.NotNil(t, work)
	assert.Equal(t, 4, work.Total)
	assert.Equal(t, 1, work.Completed)
	assert.Equal(t, 3, work.Active)
}

func TestBoardStickyFilter(t *testing.T) {
	env := newTestEnv(time.Second)
	ctx := context.Background()

	_, err := env.board.Board(ctx, env.owner, ports.BoardQuery{Section: "work"})
	require.NoError(t, err)

	// A query without a section reuses the last filter.
	view, err := env.board.Board(ctx, env.owner, ports.BoardQuery{})
	require.NoError(t, err)
	assert.Equal(t, "work", view.Section)
}

func TestAddSection(t *testing.T) {
	env := newTestEnv(time.Second)
	ctx := context.Background()

	t.Run("slug id and palette pick by count", func(t *testing.T) {
		section, err := env.board.AddSection(ctx, env.owner, ports.AddSectionRequest{Name: "  My Side Project  "})
		require.NoError(t, err)
		assert.Equal(t, "my-side-project", section.ID)
		assert.Equal(t, "My Side Project", section.Name)
		// Four built-ins precede it, so it takes palette slot 4.
		assert.Equal(t, entities.SectionColors[4], section.Color)
		assert.Equal(t, entities.SectionIcons[4], section.Icon)
		assert.Equal(t, 4, section.SortOrder)
	})

	t.Run("next section advances the palette", func(t *testing.T) {
		section, err := env.board.AddSection(ctx, env.owner, ports.AddSectionRequest{Name: "Reading"})
		require.NoError(t, err)
		assert.Equal(t, entities.SectionColors[5], section.Color)
		assert.Equal(t, 5, section.SortOrder)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		_, err := env.board.AddSection(ctx, env.owner, ports.AddSectionRequest{Name: "   "})
		assert.ErrorIs(t, err, entities.ErrEmptySectionName)
	})
}

func TestListSections(t *testing.T) {
	env := newTestEnv(time.Second)
	ctx := context.Background()

	_, err := env.board.AddSection(ctx, env.owner, ports.AddSectionRequest{Name: "Reading"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := env.board.AddTask(ctx, env.owner, ports.AddTaskRequest{Text: "chapter", Section: "reading"})
		require.NoError(t, err)
	}
	_, err = env.board.AddTask(ctx, env.owner, ports.AddTaskRequest{Text: "standup", Section: "work"})
	require.NoError(t, err)

	summaries, err := env.board.Sections(ctx, env.owner)
	require.NoError(t, err)
	require.Len(t, summaries, 5)

	byID := make(map[string]ports.SectionSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}
	assert.Equal(t, 2, byID["reading"].TaskCount)
	assert.Equal(t, 1, byID["work"].TaskCount)
	assert.Zero(t, byID["ideas"].TaskCount)
}

func TestDeleteSection(t *testing.T) {
	env := newTestEnv(time.Second)
	ctx := context.Background()

	section, err := env.board.AddSection(ctx, env.owner, ports.AddSectionRequest{Name: "Groceries"})
	require.NoError(t, err)

	var ids []int64
	for i := 0; i < 3; i++ {
		task, err := env.board.AddTask(ctx, env.owner, ports.AddTaskRequest{Text: "item", Section: section.ID})
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}

	// Focus the doomed section so the filter reset is observable.
	_, err = env.board.Board(ctx, env.owner, ports.BoardQuery{Section: section.ID})
	require.NoError(t, err)

	t.Run("built-ins are refused", func(t *testing.T) {
		_, err := env.board.DeleteSection(ctx, env.owner, "work")
		assert.ErrorIs(t, err, entities.ErrSectionBuiltIn)
	})

	t.Run("tasks survive in the default section", func(t *testing.T) {
		result, err := env.board.DeleteSection(ctx, env.owner, section.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, ids, result.ReassignedIDs)

		view, err := env.board.Board(ctx, env.owner, ports.BoardQuery{})
		require.NoError(t, err)
		// The filter pointed at the deleted section and fell back to all.
		assert.Equal(t, state.AllSections, view.Section)
		assert.Len(t, view.Active, 3)
		for _, task := range view.Active {
			assert.Equal(t, entities.DefaultSection, task.Section)
		}
	})

	t.Run("unknown section", func(t *testing.T) {
		_, err := env.board.DeleteSection(ctx, env.owner, "never-existed")
		assert.ErrorIs(t, err, entities.ErrSectionNotFound)
	})
}

// failingReassignRepo delegates to the in-memory store but refuses batched
// section reassigns.
type failingReassignRepo struct {
	*fakeTaskRepo
	err error
}

func (f *failingReassignRepo) ReassignSection(ctx context.Context, owner uuid.UUID, from, to string) ([]int64, error) {
	return nil, f.err
}

func TestDeleteSectionReassignFailureLeavesStoreConsistent(t *testing.T) {
	tasks := newFakeTaskRepo()
	failing := &failingReassignRepo{fakeTaskRepo: tasks, err: errors.New("connection reset")}
	sections := newFakeSectionRepo()
	nop := logger.NewNop()
	mgr := state.NewManager(failing, sections, &fakeNoteRepo{}, newFakeRichRepo(), &fakePrefRepo{}, time.Hour, nop)
	board := NewBoardService(failing, sections, mgr, nop)

	owner := uuid.New()
	ctx := context.Background()

	section, err := board.AddSection(ctx, owner, ports.AddSectionRequest{Name: "Groceries"})
	require.NoError(t, err)
	task, err := board.AddTask(ctx, owner, ports.AddTaskRequest{Text: "milk", Section: section.ID})
	require.NoError(t, err)

	_, err = board.DeleteSection(ctx, owner, section.ID)
	require.Error(t, err)

	// The section row outlives the failed reassign.
	stored, err := sections.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, section.ID, stored[0].ID)

	// A cold reload still resolves the task's section and counts it.
	mgr.Evict(owner)
	view, err := board.Board(ctx, owner, ports.BoardQuery{Section: section.ID})
	require.NoError(t, err)
	require.Len(t, view.Active, 1)
	assert.Equal(t, task.ID, view.Active[0].ID)

	summaries, err := board.Sections(ctx, owner)
	require.NoError(t, err)
	byID := make(map[string]ports.SectionSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}
	require.Contains(t, byID, section.ID)
	assert.Equal(t, 1, byID[section.ID].TaskCount)
}
