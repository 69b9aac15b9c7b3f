package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/daytrack/core/internal/application/state"
	"github.com/daytrack/core/internal/domain/entities"
	"github.com/daytrack/core/internal/infrastructure/logger"
	"github.com/daytrack/core/internal/ports"
)

// CompletedTasksPerPage is the fixed page size for the completed-task list.
const CompletedTasksPerPage = 5

// BoardService drives the task board against the store while keeping the
// per-user session cache consistent.
type BoardService struct {
	taskRepo    ports.TaskRepository
	sectionRepo ports.SectionRepository
	state       *state.Manager
	logger      *logger.Logger
}

// NewBoardService creates a new board service
func NewBoardService(taskRepo ports.TaskRepository, sectionRepo ports.SectionRepository, stateManager *state.Manager, logger *logger.Logger) *BoardService {
	return &BoardService{
		taskRepo:    taskRepo,
		sectionRepo: sectionRepo,
		state:       stateManager,
		logger:      logger,
	}
}

// Board derives the render-ready view of the task board from the cache. The
// derivations are pure and recomputed on every call, never stored.
func (s *BoardService) Board(ctx context.Context, owner uuid.UUID, q ports.BoardQuery) (*ports.BoardView, error) {
	sess, err := s.state.Session(ctx, owner)
	if err != nil {
		return nil, err
	}

	section := q.Section
	if section == "" {
		section = sess.ActiveFilter()
	} else {
		sess.SetActiveFilter(section)
	}

	tasks := sess.Tasks()
	sections := sess.Sections()

	filtered := filterBySection(tasks, section)
	active, completed := partitionTasks(filtered)

	page, pageCount := clampPage(q.CompletedPage, len(completed))
	pageSlice := paginateCompleted(completed, page)

	return &ports.BoardView{
		Section:            section,
		Active:             viewTasks(active),
		Completed:          viewTasks(pageSlice),
		CompletedTotal:     len(completed),
		CompletedPage:      page,
		CompletedPageCount: pageCount,
		Stats:              sectionStats(sections, tasks),
		Total:              len(filtered),
	}, nil
}

// AddTask creates a task from trimmed text and appends the store's canonical
// record to the cache. The aggregate "all" view files the task under the
// default section.
func (s *BoardService) AddTask(ctx context.Context, owner uuid.UUID, req ports.AddTaskRequest) (*entities.Task, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, entities.ErrEmptyText
	}

	section := req.Section
	if section == "" || section == state.AllSections {
		section = entities.DefaultSection
	}

	sess, err := s.state.Session(ctx, owner)
	if err != nil {
		return nil, err
	}

	task := &entities.Task{
		OwnerID: owner,
		Text:    text,
		Section: section,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to add task: %w", err)
	}

	sess.AppendTask(*task)

	s.logger.Infow("Task added", "task_id", task.ID, "section", task.Section, "user_id", owner.String())

	return task, nil
}

// ToggleTask flips the completion flag in the store, then patches only the
// affected cached record.
func (s *BoardService) ToggleTask(ctx context.Context, owner uuid.UUID, id int64) (bool, error) {
	sess, err := s.state.Session(ctx, owner)
	if err != nil {
		return false, err
	}

	completed, err := s.taskRepo.Toggle(ctx, owner, id)
	if err != nil {
		return false, fmt.Errorf("failed to toggle task: %w", err)
	}

	sess.SetTaskCompleted(id, completed)

	return completed, nil
}

// EditTask replaces only the text of a task. A blank replacement is cancel
// semantics: no write is issued and the stored text stands.
func (s *BoardService) EditTask(ctx context.Context, owner uuid.UUID, id int64, text string) (*entities.Task, error) {
	sess, err := s.state.Session(ctx, owner)
	if err != nil {
		return nil, err
	}

	current, ok := findTask(sess.Tasks(), id)
	if !ok {
		return nil, entities.ErrTaskNotFound
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &current, nil
	}

	if err := s.taskRepo.Edit(ctx, owner, id, trimmed); err != nil {
		return nil, fmt.Errorf("failed to edit task: %w", err)
	}

	sess.PatchTaskText(id, trimmed)
	current.Text = trimmed

	return &current, nil
}

// DeleteTask removes a task from the store and the cache.
func (s *BoardService) DeleteTask(ctx context.Context, owner uuid.UUID, id int64) error {
	sess, err := s.state.Session(ctx, owner)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, owner, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	sess.RemoveTask(id)

	return nil
}

// MoveTask reassigns a single task to another section.
func (s *BoardService) MoveTask(ctx context.Context, owner uuid.UUID, id int64, section string) error {
	sess, err := s.state.Session(ctx, owner)
	if err != nil {
		return err
	}

	if !sess.HasSection(section) {
		return entities.ErrSectionNotFound
	}

	if err := s.taskRepo.UpdateSection(ctx, owner, id, section); err != nil {
		return fmt.Errorf("failed to move task: %w", err)
	}

	sess.SetTaskSection(id, section)

	return nil
}

// Sections lists the merged section set with per-section task counts taken
// from the store, so the numbers hold even for tasks the cache has not seen.
func (s *BoardService) Sections(ctx context.Context, owner uuid.UUID) ([]ports.SectionSummary, error) {
	sess, err := s.state.Session(ctx, owner)
	if err != nil {
		return nil, err
	}

	counts, err := s.taskRepo.CountBySection(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	sections := sess.Sections()
	summaries := make([]ports.SectionSummary, 0, len(sections))
	for _, section := range sections {
		summaries = append(summaries, ports.SectionSummary{
			Section:   section,
			TaskCount: counts[section.ID],
		})
	}

	return summaries, nil
}

// AddSection creates a user section with a slug id derived from the name and
// a color/icon picked round-robin by the current section count.
func (s *BoardService) AddSection(ctx context.Context, owner uuid.UUID, req ports.AddSectionRequest) (*entities.Section, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, entities.ErrEmptySectionName
	}

	sess, err := s.state.Session(ctx, owner)
	if err != nil {
		return nil, err
	}

	count := sess.SectionCount()
	section := &entities.Section{
		ID:        entities.SectionSlug(name),
		OwnerID:   owner,
		Name:      name,
		Color:     entities.SectionColors[count%len(entities.SectionColors)],
		Icon:      entities.SectionIcons[count%len(entities.SectionIcons)],
		SortOrder: count,
	}

	if err := s.sectionRepo.Create(ctx, section); err != nil {
		return nil, fmt.Errorf("failed to add section: %w", err)
	}

	sess.AppendSection(*section)

	s.logger.Infow("Section added", "section", section.ID, "user_id", owner.String())

	return section, nil
}

// DeleteSection removes a user-created section, reassigning its tasks to the
// default section in one batched write. Built-in sections cannot be deleted.
func (s *BoardService) DeleteSection(ctx context.Context, owner uuid.UUID, id string) (*ports.SectionDeleteResult, error) {
	if entities.IsBuiltInSection(id) {
		return nil, entities.ErrSectionBuiltIn
	}

	sess, err := s.state.Session(ctx, owner)
	if err != nil {
		return nil, err
	}

	// Tasks move out first and the section row goes last. If the reassign
	// fails the section survives untouched, so no stored task is ever left
	// pointing at a section that no longer exists.
	ids, err := s.taskRepo.ReassignSection(ctx, owner, id, entities.DefaultSection)
	if err != nil {
		return nil, fmt.Errorf("failed to reassign tasks: %w", err)
	}

	if err := s.sectionRepo.Delete(ctx, owner, id); err != nil {
		return nil, fmt.Errorf("failed to delete section: %w", err)
	}

	sess.RemoveSection(id, entities.DefaultSection)

	s.logger.Infow("Section deleted", "section", id, "reassigned", len(ids), "user_id", owner.String())

	return &ports.SectionDeleteResult{ReassignedIDs: ids}, nil
}

// Derivations. All pure: they read slices, never the session.

// viewTasks attaches the rendered clock label to each task.
func viewTasks(tasks []entities.Task) []ports.TaskView {
	out := make([]ports.TaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ports.TaskView{Task: t, CreatedAtClock: t.CreatedAtClock()})
	}
	return out
}

func filterBySection(tasks []entities.Task, section string) []entities.Task {
	if section == "" || section == state.AllSections {
		return tasks
	}
	var out []entities.Task
	for _, t := range tasks {
		if t.Section == section {
			out = append(out, t)
		}
	}
	return out
}

// partitionTasks splits tasks into active and completed, each sorted by
// creation time, newest first.
func partitionTasks(tasks []entities.Task) (active, completed []entities.Task) {
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			active = append(active, t)
		}
	}
	byNewest := func(list []entities.Task) func(i, j int) bool {
		return func(i, j int) bool {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
	}
	sort.SliceStable(active, byNewest(active))
	sort.SliceStable(completed, byNewest(completed))
	return active, completed
}

// sectionStats computes per-section totals in a single scan per section.
func sectionStats(sections []entities.Section, tasks []entities.Task) []ports.SectionStats {
	stats := make([]ports.SectionStats, 0, len(sections))
	for _, section := range sections {
		st := ports.SectionStats{Section: section}
		for _, t := range tasks {
			if t.Section != section.ID {
				continue
			}
			st.Total++
			if t.Completed {
				st.Completed++
			} else {
				st.Active++
			}
		}
		stats = append(stats, st)
	}
	return stats
}

// clampPage normalizes a 1-based page number against the completed count and
// returns it with the total page count (ceiling division).
func clampPage(page, completedCount int) (int, int) {
	pageCount := (completedCount + CompletedTasksPerPage - 1) / CompletedTasksPerPage
	if pageCount < 1 {
		pageCount = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}
	return page, pageCount
}

// paginateCompleted slices the sorted completed list for a 1-based page.
func paginateCompleted(completed []entities.Task, page int) []entities.Task {
	start := (page - 1) * CompletedTasksPerPage
	if start >= len(completed) {
		return nil
	}
	end := start + CompletedTasksPerPage
	if end > len(completed) {
		end = len(completed)
	}
	return completed[start:end]
}

func findTask(tasks []entities.Task, id int64) (entities.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return entities.Task{}, false
}
