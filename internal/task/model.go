package task

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/go-task-api/internal/validate"
)

const (
	TitleMinLen       = 2
	TitleMaxLen       = 120
	DescriptionMaxLen = 2000
)

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Task struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateInput is the body of POST /tasks.
type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

func (in CreateInput) normalize() CreateInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Status == "" {
		in.Status = StatusTodo
	}
	return in
}

func (in CreateInput) validate() error {
	var v validate.Validator
	v.Length("title", in.Title, TitleMinLen, TitleMaxLen)
	v.MaxLength("description", in.Description, DescriptionMaxLen)
	if err := v.Err(); err != nil {
		return err
	}
	if !in.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// UpdateInput is the body of PUT /tasks/{id}. Nil fields are left unchanged.
type UpdateInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *Status `json:"status"`
}

func (in UpdateInput) normalize() UpdateInput {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		in.Title = &title
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		in.Description = &description
	}
	return in
}

func (in UpdateInput) validate() error {
	var v validate.Validator
	if in.Title != nil {
		v.Length("title", *in.Title, TitleMinLen, TitleMaxLen)
	}
	if in.Description != nil {
		v.MaxLength("description", *in.Description, DescriptionMaxLen)
	}
	if err := v.Err(); err != nil {
		return err
	}
	if in.Status != nil && !in.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// ListFilter narrows GET /tasks. Zero values mean no filtering.
type ListFilter struct {
	Search string
	Status Status
}
