package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/model"
	"github.com/BuzzLyutic/todo-list/internal/repo"
	"github.com/BuzzLyutic/todo-list/internal/service"
	"github.com/BuzzLyutic/todo-list/pkg/respond"
)

// IdempotencyHeader carries the client chosen key that makes Create safe to retry.
const IdempotencyHeader = "Idempotency-Key"

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength == 0 {
		h.error(w, http.StatusBadRequest, "empty request body")
		return
	}

	var req model.Task
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("failed to decode json", zap.Error(err))
		h.error(w, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	task, err := h.service.Create(r.Context(), req, r.Header.Get(IdempotencyHeader))
	if err != nil {
		h.handleErrors(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s%d/", collectionPath(r), task.ID))
	h.json(w, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleErrors(w, err)
		return
	}
	h.json(w, http.StatusOK, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.List(r.Context())
	if err != nil {
		h.handleErrors(w, err)
		return
	}
	h.json(w, http.StatusOK, tasks)
}

// Replace overwrites the task named in the path with the full
// representation in the body. An id in the body is ignored.
func (h *TaskHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req model.Task
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.ID = id

	task, err := h.service.Replace(r.Context(), req)
	if err != nil {
		h.handleErrors(w, err)
		return
	}

	h.json(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleErrors(w, err)
		return
	}

	respond.NoContent(w)
}

func (h *TaskHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAll(r.Context()); err != nil {
		h.handleErrors(w, err)
		return
	}

	respond.NoContent(w)
}

func (h *TaskHandler) taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.error(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		h.error(w, http.StatusNotFound, "not found")
	case errors.Is(err, repo.ErrorConflict):
		h.error(w, http.StatusConflict, "conflict")
	case errors.Is(err, service.ErrValidation):
		h.error(w, http.StatusBadRequest, "validation error")
	default:
		h.logger.Error("internal error", zap.Error(err))
		h.error(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *TaskHandler) json(w http.ResponseWriter, code int, data any) {
	if err := respond.JSON(w, code, data); err != nil {
		h.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (h *TaskHandler) error(w http.ResponseWriter, code int, message string) {
	if err := respond.Error(w, code, message); err != nil {
		h.logger.Warn("failed to write error response", zap.Error(err))
	}
}

// collectionPath returns the request path of the collection with a trailing slash.
func collectionPath(r *http.Request) string {
	p := r.URL.Path
	if len(p) == 0 || p[len(p)-1] != '/' {
		p += "/"
	}
	return p
}
