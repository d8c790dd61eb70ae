package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/go-task-api/internal/database"
)

var (
	ErrNotFound      = errors.New("task not found")
	ErrInvalidID     = errors.New("invalid task id")
	ErrInvalidStatus = errors.New("invalid task status")
)

// Repository handles task persistence. Every query is scoped by owner.
type Repository struct {
	db  *bun.DB
	now func() time.Time
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Create inserts a task for owner. in must already be normalized and valid.
func (r *Repository) Create(ctx context.Context, owner uuid.UUID, in CreateInput) (*Task, error) {
	now := r.now().UTC()
	dbTask := &database.Task{
		ID:          uuid.New(),
		OwnerID:     owner,
		Title:       in.Title,
		Description: in.Description,
		Status:      string(in.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.db.NewInsert().
		Model(dbTask).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return mapDBTaskToModel(dbTask), nil
}

// List returns the owner's tasks, newest first.
func (r *Repository) List(ctx context.Context, owner uuid.UUID, filter ListFilter) ([]*Task, error) {
	var dbTasks []database.Task

	q := r.db.NewSelect().
		Model(&dbTasks).
		Where("owner_id = ?", owner)

	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}

	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("title ILIKE ?", pattern).
				WhereOr("description ILIKE ?", pattern)
		})
	}

	err := q.OrderExpr("created_at DESC, id DESC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]*Task, 0, len(dbTasks))
	for i := range dbTasks {
		tasks = append(tasks, mapDBTaskToModel(&dbTasks[i]))
	}
	return tasks, nil
}

// Get returns the task only if owner owns it.
func (r *Repository) Get(ctx context.Context, owner, id uuid.UUID) (*Task, error) {
	dbTask := new(database.Task)
	err := r.db.NewSelect().
		Model(dbTask).
		Where("id = ?", id).
		Where("owner_id = ?", owner).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return mapDBTaskToModel(dbTask), nil
}

// Update applies the non-nil fields of in and returns the updated row.
func (r *Repository) Update(ctx context.Context, owner, id uuid.UUID, in UpdateInput) (*Task, error) {
	dbTask := new(database.Task)
	q := r.db.NewUpdate().Model(dbTask)

	if in.Title != nil {
		q = q.Set("title = ?", *in.Title)
	}
	if in.Description != nil {
		q = q.Set("description = ?", *in.Description)
	}
	if in.Status != nil {
		q = q.Set("status = ?", string(*in.Status))
	}

	err := q.Set("updated_at = ?", r.now().UTC()).
		Where("id = ?", id).
		Where("owner_id = ?", owner).
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if dbTask.ID == uuid.Nil {
		return nil, ErrNotFound
	}

	return mapDBTaskToModel(dbTask), nil
}

// Delete removes the task if owner owns it.
func (r *Repository) Delete(ctx context.Context, owner, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*database.Task)(nil)).
		Where("id = ?", id).
		Where("owner_id = ?", owner).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func mapDBTaskToModel(dbt *database.Task) *Task {
	return &Task{
		ID:          dbt.ID,
		OwnerID:     dbt.OwnerID,
		Title:       dbt.Title,
		Description: dbt.Description,
		Status:      Status(dbt.Status),
		CreatedAt:   dbt.CreatedAt,
		UpdatedAt:   dbt.UpdatedAt,
	}
}
