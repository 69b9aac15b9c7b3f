package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/daytrack/core/internal/domain/entities"
	"github.com/daytrack/core/internal/ports"
)

// psql builds queries with Postgres-style $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) List(ctx context.Context, owner uuid.UUID, filter ports.TaskFilter) ([]entities.Task, error) {
	if owner == uuid.Nil {
		return nil, entities.ErrNotAuthenticated
	}

	builder := psql.
		Select("id", "user_id", "text", "completed", "section", "created_at").
		From("tasks").
		Where(sq.Eq{"user_id": owner}).
		OrderBy("id ASC")

	if filter.Section != nil {
		builder = builder.Where(sq.Eq{"section": *filter.Section})
	}
	if filter.Completed != nil {
		builder = builder.Where(sq.Eq{"completed": *filter.Completed})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build task list query: %w", err)
	}

	var tasks []entities.Task
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	for i := range tasks {
		tasks[i].NormalizeSection()
	}

	return tasks, nil
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	if task.OwnerID == uuid.Nil {
		return entities.ErrNotAuthenticated
	}

	task.NormalizeSection()

	query := `
		INSERT INTO tasks (user_id, text, completed, section, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		task.OwnerID, task.Text, task.Completed, task.Section,
	).Scan(&task.ID, &task.CreatedAt)

	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

// Toggle flips the completion flag in a single statement, so two concurrent
// toggles never read a stale flag.
func (r *TaskRepositoryImpl) Toggle(ctx context.Context, owner uuid.UUID, id int64) (bool, error) {
	if owner == uuid.Nil {
		return false, entities.ErrNotAuthenticated
	}

	query := `
		UPDATE tasks
		SET completed = NOT completed
		WHERE id = $1 AND user_id = $2
		RETURNING completed`

	var completed bool
	err := r.db.QueryRowContext(ctx, query, id, owner).Scan(&completed)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, entities.ErrTaskNotFound
		}
		return false, fmt.Errorf("toggle task: %w", err)
	}

	return completed, nil
}

func (r *TaskRepositoryImpl) Edit(ctx context.Context, owner uuid.UUID, id int64, text string) error {
	if owner == uuid.Nil {
		return entities.ErrNotAuthenticated
	}

	query := `UPDATE tasks SET text = $3 WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, owner, text)
	if err != nil {
		return fmt.Errorf("edit task: %w", err)
	}

	return requireRow(result, entities.ErrTaskNotFound)
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, owner uuid.UUID, id int64) error {
	if owner == uuid.Nil {
		return entities.ErrNotAuthenticated
	}

	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, owner)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	return requireRow(result, entities.ErrTaskNotFound)
}

func (r *TaskRepositoryImpl) UpdateSection(ctx context.Context, owner uuid.UUID, id int64, section string) error {
	if owner == uuid.Nil {
		return entities.ErrNotAuthenticated
	}

	query := `UPDATE tasks SET section = $3 WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, owner, section)
	if err != nil {
		return fmt.Errorf("update task section: %w", err)
	}

	return requireRow(result, entities.ErrTaskNotFound)
}

// ReassignSection moves every task in one section to another in a single
// batched statement and reports the affected ids, so a partial failure can
// never leave some tasks moved and some not.
func (r *TaskRepositoryImpl) ReassignSection(ctx context.Context, owner uuid.UUID, from, to string) ([]int64, error) {
	if owner == uuid.Nil {
		return nil, entities.ErrNotAuthenticated
	}

	query := `
		UPDATE tasks
		SET section = $3
		WHERE user_id = $1 AND section = $2
		RETURNING id`

	rows, err := r.db.QueryContext(ctx, query, owner, from, to)
	if err != nil {
		return nil, fmt.Errorf("reassign section: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan reassigned id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reassign section rows: %w", err)
	}

	return ids, nil
}

// CountBySection reports how many tasks each section holds, counted in the
// store rather than the cache.
func (r *TaskRepositoryImpl) CountBySection(ctx context.Context, owner uuid.UUID) (map[string]int, error) {
	if owner == uuid.Nil {
		return nil, entities.ErrNotAuthenticated
	}

	query, args, err := psql.
		Select("section", "COUNT(*)").
		From("tasks").
		Where(sq.Eq{"user_id": owner}).
		GroupBy("section").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build section count query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count tasks by section: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var section string
		var n int
		if err := rows.Scan(&section, &n); err != nil {
			return nil, fmt.Errorf("scan section count: %w", err)
		}
		counts[section] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("section count rows: %w", err)
	}

	return counts, nil
}

// requireRow maps an update that touched nothing to the given sentinel.
func requireRow(result sql.Result, missing error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return missing
	}

	return nil
}
