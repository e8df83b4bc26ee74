package announcementshandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workpulse/internal/domain/announcements"
	"workpulse/internal/domain/audit"
	"workpulse/internal/domain/auth"
	"workpulse/internal/transport/http/api"
	"workpulse/internal/transport/http/middleware"
	"workpulse/internal/transport/http/shared"
)

type Handler struct {
	Store    *announcements.Store
	Audit    *audit.Service
	Resolver middleware.RoleResolver
}

func NewHandler(store *announcements.Store, auditSvc *audit.Service, resolver middleware.RoleResolver) *Handler {
	return &Handler{Store: store, Audit: auditSvc, Resolver: resolver}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole(h.Resolver, auth.RoleAdmin)).Post("/announcements", h.handleCreate)
	r.With(middleware.RequireRole(h.Resolver, auth.RoleAdmin, auth.RoleEmployee)).Get("/announcements", h.handleList)
}

type createAnnouncementRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload createAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("title", payload.Title, "title is required")
	v.Required("message", payload.Message, "message is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	announcement, err := h.Store.Create(r.Context(), payload.Title, payload.Message, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "announcement_failed", "failed to create announcement", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "announcement.create", "announcement", announcement.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), announcement); err != nil {
		slog.Warn("audit announcement.create failed", "err", err)
	}
	api.Created(w, announcement, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	list, err := h.Store.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "announcements_failed", "failed to list announcements", middleware.GetRequestID(r.Context()))
		return
	}
	total, err := h.Store.Count(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "announcements_failed", "failed to list announcements", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"announcements": list, "total": total}, middleware.GetRequestID(r.Context()))
}
