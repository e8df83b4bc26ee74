package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workpulse/internal/domain/announcements"
	"workpulse/internal/domain/attendance"
	"workpulse/internal/domain/audit"
	"workpulse/internal/domain/auth"
	"workpulse/internal/domain/chatbot"
	"workpulse/internal/domain/directory"
	"workpulse/internal/domain/exports"
	"workpulse/internal/domain/leave"
	"workpulse/internal/domain/meetings"
	"workpulse/internal/domain/notifications"
	"workpulse/internal/domain/reports"
	"workpulse/internal/domain/tasks"
	"workpulse/internal/platform/calendar"
	"workpulse/internal/platform/config"
	"workpulse/internal/platform/db"
	"workpulse/internal/platform/email"
	"workpulse/internal/platform/events"
	"workpulse/internal/platform/gemini"
	"workpulse/internal/platform/metrics"
	"workpulse/internal/platform/zoom"
	"workpulse/internal/transport/http/api"
	announcementshandler "workpulse/internal/transport/http/handlers/announcements"
	attendancehandler "workpulse/internal/transport/http/handlers/attendance"
	audithandler "workpulse/internal/transport/http/handlers/audit"
	authhandler "workpulse/internal/transport/http/handlers/auth"
	chatbothandler "workpulse/internal/transport/http/handlers/chatbot"
	exportshandler "workpulse/internal/transport/http/handlers/exports"
	leavehandler "workpulse/internal/transport/http/handlers/leave"
	meetingshandler "workpulse/internal/transport/http/handlers/meetings"
	notificationshandler "workpulse/internal/transport/http/handlers/notifications"
	taskshandler "workpulse/internal/transport/http/handlers/tasks"
	usershandler "workpulse/internal/transport/http/handlers/users"
	"workpulse/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	Pool   *pgxpool.Pool
	Bus    *events.Bus
	Router http.Handler

	cancel context.CancelFunc
}

// New wires the full application. Tests mount App.Router on httptest
// servers; Run uses it for the real listener.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	bus := events.NewBus()
	collector := metrics.New()
	authStore := auth.NewStore(pool)
	resolver := auth.NewResolver(authStore)

	googleCal := calendar.New(cfg.GoogleCalendarURL, cfg.GoogleAccessToken)
	var zoomClient zoom.Scheduler = zoom.Stub{}
	if cfg.ZoomMode == config.ZoomModeAPI {
		zoomClient = zoom.NewClient(cfg.ZoomBaseURL, cfg.ZoomAccountID, cfg.ZoomClientID, cfg.ZoomClientSecret)
	}
	var summarizer notifications.Summarizer
	if geminiClient := gemini.New(cfg.GeminiBaseURL, cfg.GeminiAPIKey); geminiClient.Configured() {
		summarizer = geminiClient
	}

	directorySvc := directory.NewService(directory.NewStore(pool))
	attendanceSvc := attendance.NewService(attendance.NewStore(pool), bus)
	var taskCalendar tasks.Calendar
	if cfg.CalendarMirror {
		taskCalendar = googleCal
	}
	tasksSvc := tasks.NewService(tasks.NewStore(pool), taskCalendar, bus)
	leaveSvc := leave.NewService(leave.NewStore(pool), bus)
	announcementsStore := announcements.NewStore(pool)
	meetingsSvc := meetings.NewService(meetings.NewStore(pool), googleCal, zoomClient)
	notificationsSvc := notifications.New(notifications.NewStore(pool), email.New(cfg))
	chatbotSvc := chatbot.NewService(attendanceSvc, tasksSvc, summarizer)
	exportsSvc := exports.NewService(exports.NewStore(pool))
	reportsSvc := reports.NewService(reports.NewStore(pool))
	auditSvc := audit.New(pool)

	bridgeCtx, cancel := context.WithCancel(context.Background())
	notifications.NewBridge(bus, notificationsSvc, summarizer).Start(bridgeCtx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret, authStore))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.With(middleware.RequireRole(resolver, auth.RoleAdmin)).Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, directorySvc, cfg.JWTSecret, cfg.TokenTTL).RegisterRoutes(r)
		usershandler.NewHandler(directorySvc, resolver).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceSvc, resolver).RegisterRoutes(r)
		taskshandler.NewHandler(tasksSvc, resolver).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc, bus, auditSvc, resolver).RegisterRoutes(r)
		announcementshandler.NewHandler(announcementsStore, auditSvc, resolver).RegisterRoutes(r)
		meetingshandler.NewHandler(meetingsSvc, resolver).RegisterRoutes(r)
		notificationshandler.NewHandler(notificationsSvc, resolver).RegisterRoutes(r)
		chatbothandler.NewHandler(chatbotSvc, resolver).RegisterRoutes(r)
		exportshandler.NewHandler(exportsSvc, reportsSvc, auditSvc, resolver).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, resolver).RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	return &App{Config: cfg, Pool: pool, Bus: bus, Router: router, cancel: cancel}, nil
}

func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}

func Run() {
	cfg := config.Load()

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("workpulse server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
