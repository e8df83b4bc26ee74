package taskshandler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"workpulse/internal/domain/auth"
	"workpulse/internal/domain/tasks"
	"workpulse/internal/transport/http/api"
	"workpulse/internal/transport/http/middleware"
	"workpulse/internal/transport/http/shared"
)

type Handler struct {
	Service  *tasks.Service
	Resolver middleware.RoleResolver
}

func NewHandler(service *tasks.Service, resolver middleware.RoleResolver) *Handler {
	return &Handler{Service: service, Resolver: resolver}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	staff := middleware.RequireRole(h.Resolver, auth.RoleAdmin, auth.RoleEmployee)
	r.With(staff).Post("/tasks", h.handleCreate)
	r.With(staff).Get("/tasks", h.handleList)
	r.With(staff).Get("/tasks/{taskID}", h.handleGet)
	r.With(staff).Patch("/tasks/{taskID}/status", h.handleUpdateStatus)
}

type createTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"dueDate"`
	Assignees   []string `json:"assignees"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("title", payload.Title, "title is required")
	due, _ := v.Date("dueDate", payload.DueDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result, err := h.Service.Create(r.Context(), user.UserID, payload.Title, payload.Description, due, payload.Assignees)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "task_create_failed", "failed to create task", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	var (
		list []tasks.Task
		err  error
	)
	if h.Resolver.ResolveRole(r.Context(), user.UserID) == auth.RoleAdmin {
		list, err = h.Service.ListAll(r.Context(), page.Limit, page.Offset)
	} else {
		list, err = h.Service.List(r.Context(), user.UserID, page.Limit, page.Offset)
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "tasks_failed", "failed to list tasks", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	task, err := h.Service.Get(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "task_not_found", "task not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, task, middleware.GetRequestID(r.Context()))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var payload updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if strings.TrimSpace(payload.Status) == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "status is required", middleware.GetRequestID(r.Context()))
		return
	}

	task, err := h.Service.UpdateStatus(r.Context(), chi.URLParam(r, "taskID"), payload.Status)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "task_update_failed", "failed to update task", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, task, middleware.GetRequestID(r.Context()))
}
