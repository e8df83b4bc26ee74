package meetingshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workpulse/internal/domain/auth"
	"workpulse/internal/domain/meetings"
	"workpulse/internal/transport/http/api"
	"workpulse/internal/transport/http/middleware"
	"workpulse/internal/transport/http/shared"
)

type Handler struct {
	Service  *meetings.Service
	Resolver middleware.RoleResolver
}

func NewHandler(service *meetings.Service, resolver middleware.RoleResolver) *Handler {
	return &Handler{Service: service, Resolver: resolver}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	staff := middleware.RequireRole(h.Resolver, auth.RoleAdmin, auth.RoleEmployee)
	r.With(staff).Post("/meetings", h.handleCreate)
	r.With(staff).Get("/meetings", h.handleList)
}

type createMeetingRequest struct {
	Platform  string   `json:"platform"`
	Title     string   `json:"title"`
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	Attendees []string `json:"attendees"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload createMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("platform", payload.Platform, "platform is required")
	v.Required("title", payload.Title, "title is required")
	v.Required("date", payload.Date, "date is required")
	v.Required("time", payload.Time, "time is required")
	if len(payload.Attendees) == 0 {
		v.Add("attendees", "at least one attendee is required")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	meeting, err := h.Service.Schedule(r.Context(), user.UserID, meetings.ScheduleInput{
		Platform:  payload.Platform,
		Title:     payload.Title,
		Date:      payload.Date,
		Time:      payload.Time,
		Attendees: payload.Attendees,
	})
	if err != nil {
		switch {
		case errors.Is(err, meetings.ErrUpstreamFailed):
			api.Fail(w, http.StatusBadGateway, "meeting_provider_failed", err.Error(), middleware.GetRequestID(r.Context()))
		case errors.Is(err, meetings.ErrBadPlatform), errors.Is(err, meetings.ErrNoAttendees):
			api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), middleware.GetRequestID(r.Context()))
		}
		return
	}

	api.Created(w, map[string]any{"meetingUrl": meeting.MeetingURL, "meeting": meeting}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	list, err := h.Service.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "meetings_failed", "failed to list meetings", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}
