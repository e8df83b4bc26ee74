package exportshandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workpulse/internal/domain/audit"
	"workpulse/internal/domain/auth"
	"workpulse/internal/domain/exports"
	"workpulse/internal/domain/reports"
	"workpulse/internal/transport/http/api"
	"workpulse/internal/transport/http/middleware"
	"workpulse/internal/transport/http/shared"
)

type Handler struct {
	Exports  *exports.Service
	Reports  *reports.Service
	Audit    *audit.Service
	Resolver middleware.RoleResolver
}

func NewHandler(exportsSvc *exports.Service, reportsSvc *reports.Service, auditSvc *audit.Service, resolver middleware.RoleResolver) *Handler {
	return &Handler{Exports: exportsSvc, Reports: reportsSvc, Audit: auditSvc, Resolver: resolver}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	admin := middleware.RequireRole(h.Resolver, auth.RoleAdmin)
	r.With(admin).Get("/exports/archive", h.handleArchive)
	r.With(admin).Get("/reports/attendance.pdf", h.handleAttendancePDF)
}

func (h *Handler) handleArchive(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	data, err := h.Exports.BuildArchive(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to build export archive", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "export.archive", "export", "", middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil); err != nil {
		slog.Warn("audit export.archive failed", "err", err)
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="export.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) handleAttendancePDF(w http.ResponseWriter, r *http.Request) {
	data, err := h.Reports.AttendancePDF(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build attendance report", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
