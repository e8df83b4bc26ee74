package chatbothandler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"workpulse/internal/domain/auth"
	"workpulse/internal/domain/chatbot"
	"workpulse/internal/transport/http/api"
	"workpulse/internal/transport/http/middleware"
)

type Handler struct {
	Service  *chatbot.Service
	Resolver middleware.RoleResolver
}

func NewHandler(service *chatbot.Service, resolver middleware.RoleResolver) *Handler {
	return &Handler{Service: service, Resolver: resolver}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	staff := middleware.RequireRole(h.Resolver, auth.RoleAdmin, auth.RoleEmployee)
	r.With(staff).Post("/chatbot", h.handleQuery)
}

type queryRequest struct {
	Query   string `json:"query"`
	Summary bool   `json:"summary"`
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload queryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	if payload.Summary {
		if h.Resolver.ResolveRole(r.Context(), user.UserID) != auth.RoleAdmin {
			api.Fail(w, http.StatusForbidden, "forbidden", "insufficient role", middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, h.Service.Digest(r.Context(), user.UserID), middleware.GetRequestID(r.Context()))
		return
	}

	if strings.TrimSpace(payload.Query) == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "query is required", middleware.GetRequestID(r.Context()))
		return
	}

	reply, err := h.Service.Ask(r.Context(), user.UserID, payload.Query)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "chatbot_failed", "failed to answer query", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, reply, middleware.GetRequestID(r.Context()))
}
