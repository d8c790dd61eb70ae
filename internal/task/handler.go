package task

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/go-task-api/internal/authctx"
	"github.com/redmonkez12/go-task-api/internal/httputil"
	"github.com/redmonkez12/go-task-api/internal/logging"
	"github.com/redmonkez12/go-task-api/internal/validate"
)

// Handler contains HTTP handlers for the authenticated user's tasks
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// TaskResponse wraps a single task
type TaskResponse struct {
	Task *Task `json:"task"`
}

// TaskListResponse wraps a list of tasks
type TaskListResponse struct {
	Tasks []*Task `json:"tasks"`
}

// Routes mounts the task endpoints. The caller must apply authentication.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// Create adds a task
// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateInput true "Title, optional description and status"
// @Success      201 {object} TaskResponse
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /tasks [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := authctx.UserID(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	var req CreateInput
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("invalid create task request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	t, err := h.service.Create(r.Context(), owner, req)
	if err != nil {
		respondError(w, logger, "create task", err)
		return
	}

	httputil.RespondJSON(w, TaskResponse{Task: t}, http.StatusCreated)
}

// List returns the caller's tasks, newest first
// @Summary      List tasks
// @Description  Optional case-insensitive search over title and description, and exact status filter.
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Substring of title or description"
// @Param        status query string false "todo, in_progress or done"
// @Success      200 {object} TaskListResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /tasks [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := authctx.UserID(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	query := r.URL.Query()
	tasks, err := h.service.List(r.Context(), owner, ListFilter{
		Search: query.Get("search"),
		Status: Status(query.Get("status")),
	})
	if err != nil {
		respondError(w, logger, "list tasks", err)
		return
	}

	httputil.RespondJSON(w, TaskListResponse{Tasks: tasks}, http.StatusOK)
}

// Get returns one task
// @Summary      Get task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Task ID"
// @Success      200 {object} TaskResponse
// @Failure      400 {object} httputil.ErrorResponse "Malformed id"
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /tasks/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := authctx.UserID(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	t, err := h.service.Get(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, logger, "get task", err)
		return
	}

	httputil.RespondJSON(w, TaskResponse{Task: t}, http.StatusOK)
}

// Update changes the provided fields of a task
// @Summary      Update task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Task ID"
// @Param        request body UpdateInput true "Fields to change"
// @Success      200 {object} TaskResponse
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /tasks/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := authctx.UserID(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	var req UpdateInput
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("invalid update task request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	t, err := h.service.Update(r.Context(), owner, chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, logger, "update task", err)
		return
	}

	httputil.RespondJSON(w, TaskResponse{Task: t}, http.StatusOK)
}

// Delete removes a task
// @Summary      Delete task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Task ID"
// @Success      200 {object} httputil.OKResponse
// @Failure      400 {object} httputil.ErrorResponse "Malformed id"
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /tasks/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	owner, ok := authctx.UserID(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	if err := h.service.Delete(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		respondError(w, logger, "delete task", err)
		return
	}

	httputil.RespondOK(w)
}

func respondError(w http.ResponseWriter, logger *logging.Logger, op string, err error) {
	var verrs validate.Errors
	switch {
	case errors.As(err, &verrs):
		httputil.RespondValidationError(w, httputil.ValidationDetails(verrs))
	case errors.Is(err, ErrInvalidStatus):
		httputil.RespondErrorWithCode(w, "status must be one of todo, in_progress, done", httputil.CodeInvalidStatus, http.StatusBadRequest)
	case errors.Is(err, ErrInvalidID):
		httputil.RespondErrorWithCode(w, "invalid task id", httputil.CodeInvalidID, http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		httputil.RespondErrorWithCode(w, "task not found", httputil.CodeNotFound, http.StatusNotFound)
	default:
		logger.Error(op+" failed: internal error", "error", err.Error())
		httputil.RespondInternalError(w)
	}
}

func unauthorized(w http.ResponseWriter) {
	httputil.RespondErrorWithCode(w, "unauthorized", httputil.CodeUnauthorized, http.StatusUnauthorized)
}
