package attendancehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workpulse/internal/domain/attendance"
	"workpulse/internal/domain/auth"
	"workpulse/internal/transport/http/api"
	"workpulse/internal/transport/http/middleware"
	"workpulse/internal/transport/http/shared"
)

type Handler struct {
	Service  *attendance.Service
	Resolver middleware.RoleResolver
}

func NewHandler(service *attendance.Service, resolver middleware.RoleResolver) *Handler {
	return &Handler{Service: service, Resolver: resolver}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	staff := middleware.RequireRole(h.Resolver, auth.RoleAdmin, auth.RoleEmployee)
	r.With(staff).Post("/attendance/checkin", h.handleCheckin)
	r.With(staff).Post("/attendance/checkout", h.handleCheckout)
	r.With(staff).Get("/attendance", h.handleList)
}

type locationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (h *Handler) handleCheckin(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload locationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	evt, err := h.Service.CheckIn(r.Context(), user.UserID, payload.Latitude, payload.Longitude)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "checkin_failed", "failed to record check-in", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, evt, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload locationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	evt, worked, err := h.Service.CheckOut(r.Context(), user.UserID, payload.Latitude, payload.Longitude)
	if err != nil {
		if errors.Is(err, attendance.ErrNoCheckin) {
			api.Fail(w, http.StatusBadRequest, "no_checkin", "no check-in record found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "checkout_failed", "failed to record check-out", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]any{"event": evt, "worked": worked}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 500)

	// Admins may inspect any user's events.
	targetID := user.UserID
	if requested := r.URL.Query().Get("userId"); requested != "" {
		if h.Resolver.ResolveRole(r.Context(), user.UserID) != auth.RoleAdmin {
			api.Fail(w, http.StatusForbidden, "forbidden", "insufficient role", middleware.GetRequestID(r.Context()))
			return
		}
		targetID = requested
	}

	events, err := h.Service.List(r.Context(), targetID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_failed", "failed to list attendance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}
