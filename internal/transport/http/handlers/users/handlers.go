package usershandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workpulse/internal/domain/auth"
	"workpulse/internal/domain/directory"
	"workpulse/internal/transport/http/api"
	"workpulse/internal/transport/http/middleware"
	"workpulse/internal/transport/http/shared"
)

type Handler struct {
	Directory *directory.Service
	Resolver  middleware.RoleResolver
}

func NewHandler(dir *directory.Service, resolver middleware.RoleResolver) *Handler {
	return &Handler{Directory: dir, Resolver: resolver}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole(h.Resolver, auth.RoleAdmin, auth.RoleEmployee)).Get("/users/me", h.handleMe)
	r.With(middleware.RequireRole(h.Resolver, auth.RoleAdmin)).Get("/users", h.handleList)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	profile, err := h.Directory.Get(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile_failed", "failed to load profile", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, profile, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	users, total, err := h.Directory.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "users_failed", "failed to list users", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"users": users, "total": total}, middleware.GetRequestID(r.Context()))
}
