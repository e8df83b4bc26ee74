package leavehandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"workpulse/internal/domain/audit"
	"workpulse/internal/domain/auth"
	"workpulse/internal/domain/leave"
	"workpulse/internal/platform/events"
	"workpulse/internal/transport/http/api"
	"workpulse/internal/transport/http/middleware"
	"workpulse/internal/transport/http/shared"
)

type Handler struct {
	Service  *leave.Service
	Bus      *events.Bus
	Audit    *audit.Service
	Resolver middleware.RoleResolver
}

func NewHandler(service *leave.Service, bus *events.Bus, auditSvc *audit.Service, resolver middleware.RoleResolver) *Handler {
	return &Handler{Service: service, Bus: bus, Audit: auditSvc, Resolver: resolver}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	staff := middleware.RequireRole(h.Resolver, auth.RoleAdmin, auth.RoleEmployee)
	admin := middleware.RequireRole(h.Resolver, auth.RoleAdmin)

	r.Route("/leave", func(r chi.Router) {
		r.With(staff).Post("/requests", h.handleCreateRequest)
		r.With(staff).Get("/requests", h.handleListRequests)
		r.With(admin).Post("/requests/{requestID}/approve", h.decideHandler(leave.StatusApproved))
		r.With(admin).Post("/requests/{requestID}/reject", h.decideHandler(leave.StatusRejected))
		r.With(admin).Get("/stream", h.handleStream)
	})
}

type createLeaveRequest struct {
	LeaveType string `json:"leaveType"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload createLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("leaveType", payload.LeaveType, "leaveType is required")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	req, err := h.Service.Apply(r.Context(), user.UserID, payload.LeaveType, start, end, payload.Reason)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_create_failed", "failed to create leave request", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	var (
		requests []leave.Request
		err      error
	)
	if h.Resolver.ResolveRole(r.Context(), user.UserID) == auth.RoleAdmin {
		requests, err = h.Service.ListAll(r.Context(), page.Limit, page.Offset)
	} else {
		requests, err = h.Service.ListForUser(r.Context(), user.UserID, page.Limit, page.Offset)
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list leave requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) decideHandler(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := middleware.GetUser(r.Context())
		requestID := chi.URLParam(r, "requestID")

		req, err := h.Service.Decide(r.Context(), requestID, status, user.UserID)
		if err != nil {
			if errors.Is(err, leave.ErrInvalidTransition) {
				api.Fail(w, http.StatusConflict, "invalid_transition", "request is not pending", middleware.GetRequestID(r.Context()))
				return
			}
			if errors.Is(err, pgx.ErrNoRows) {
				api.Fail(w, http.StatusNotFound, "leave_not_found", "leave request not found", middleware.GetRequestID(r.Context()))
				return
			}
			api.Fail(w, http.StatusInternalServerError, "leave_decide_failed", "failed to decide leave request", middleware.GetRequestID(r.Context()))
			return
		}

		if err := h.Audit.Record(r.Context(), user.UserID, "leave."+status, "leave_request", requestID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), req); err != nil {
			slog.Warn("audit leave decision failed", "err", err)
		}
		api.Success(w, req, middleware.GetRequestID(r.Context()))
	}
}

// handleStream is an SSE feed of leave request changes. The subscription is
// dropped as soon as the client disconnects.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		api.Fail(w, http.StatusInternalServerError, "stream_unsupported", "streaming not supported", middleware.GetRequestID(r.Context()))
		return
	}

	sub := h.Bus.Subscribe(events.TableLeaveRequests)
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case change := <-sub.C:
			payload, err := json.Marshal(change)
			if err != nil {
				slog.Warn("stream encode failed", "err", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
