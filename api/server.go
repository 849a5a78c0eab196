package api

import (
	"context"
	"net/http"

	"vigilant-console/api/handlers"
	"vigilant-console/config"
	"vigilant-console/core/auth"
	"vigilant-console/core/gateway"
	"vigilant-console/core/notifications"
	"vigilant-console/core/rbac"
	"vigilant-console/core/store"
	"vigilant-console/core/utils"
	"vigilant-console/core/workflow"

	"github.com/go-chi/chi/v5"
)

// BackgroundWorker is anything the server starts alongside itself and stops
// on shutdown.
type BackgroundWorker interface {
	StartWithContext(ctx context.Context)
	StopWithContext(ctx context.Context) error
}

type ServerDeps struct {
	Sessions       store.SessionStore
	SessionManager *auth.SessionManager
	Coordinator    *workflow.Coordinator
	Notifications  *notifications.Service
	Poller         *notifications.Poller
	Gateway        *gateway.Client
	Policy         *rbac.Policy
}

type Server struct {
	cfg            *config.AppConfig
	sessions       store.SessionStore
	sessionManager *auth.SessionManager
	coordinator    *workflow.Coordinator
	notifications  *notifications.Service
	poller         *notifications.Poller
	gw             *gateway.Client
	policy         *rbac.Policy
	logger         *utils.Logger
	loginLimiter   *requestLimiter
}

func NewServer(cfg *config.AppConfig, deps ServerDeps, logger *utils.Logger) *Server {
	capacity := cfg.Security.LoginRateLimit
	if capacity <= 0 {
		capacity = 5
	}
	return &Server{
		cfg:            cfg,
		sessions:       deps.Sessions,
		sessionManager: deps.SessionManager,
		coordinator:    deps.Coordinator,
		notifications:  deps.Notifications,
		poller:         deps.Poller,
		gw:             deps.Gateway,
		policy:         deps.Policy,
		logger:         logger,
		loginLimiter:   newLimiter(capacity, loginLimiterRefill),
	}
}

// Handler wires the full route tree.
func (s *Server) Handler() http.Handler {
	authH := handlers.NewAuthHandler(s.cfg, s.sessions, s.sessionManager, s.logger)
	incidentsH := handlers.NewIncidentsHandler(s.coordinator, s.logger)
	notificationsH := handlers.NewNotificationsHandler(s.notifications, s.poller, s.logger)
	setupH := handlers.NewSetupHandler(s.gw, s.sessionManager, s.logger)

	r := chi.NewRouter()
	r.Use(s.recoverMiddleware, s.loggingMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.rateLimitMiddleware(authH.Login))
		r.Post("/auth/verify", s.rateLimitMiddleware(authH.Verify))
		r.Post("/auth/logout", authH.Logout)
		r.Get("/auth/me", s.withSession(authH.Me))
		r.Post("/auth/ping", s.withSession(authH.Ping))

		r.Get("/dashboard/assigned", s.withSession(s.requirePermission(rbac.PermDashboardView)(incidentsH.Assigned)))

		r.Route("/incidents", func(r chi.Router) {
			view := func(h http.HandlerFunc) http.HandlerFunc {
				return s.withSession(s.requirePermission(rbac.PermIncidentsView)(h))
			}
			r.Get("/", view(incidentsH.List))
			r.Get("/{id}", view(incidentsH.Load))
			r.Get("/{id}/comments", view(incidentsH.Comments))
			r.Get("/{id}/logs", view(incidentsH.ActivityLogs))
			r.Post("/comments", view(incidentsH.AddComment))
			r.Get("/banks", view(incidentsH.Banks))
			r.Post("/respond", s.withSession(s.requirePermission(rbac.PermIncidentsRespond)(incidentsH.Respond)))
			r.Get("/targets", s.withSession(s.requirePermission(rbac.PermIncidentsAssign)(incidentsH.Targets)))
			r.Post("/segment", s.withSession(s.requirePermission(rbac.PermIncidentsAssign)(incidentsH.Segment)))
			r.Post("/assign", s.withSession(s.requirePermission(rbac.PermIncidentsAssign)(incidentsH.Assign)))
		})

		r.Route("/notifications", func(r chi.Router) {
			view := func(h http.HandlerFunc) http.HandlerFunc {
				return s.withSession(s.requirePermission(rbac.PermNotificationsView)(h))
			}
			r.Get("/", view(notificationsH.All))
			r.Get("/unread", view(notificationsH.Unread))
			r.Get("/read", view(notificationsH.Read))
			r.Get("/unread-count", view(notificationsH.UnreadCount))
			r.Get("/{id}", view(notificationsH.Details))
			r.Post("/{id}/read", view(notificationsH.MarkRead))
			r.Post("/read-all", view(notificationsH.MarkAllRead))
		})

		r.Route("/setup", func(r chi.Router) {
			manage := func(h http.HandlerFunc) http.HandlerFunc {
				return s.withSession(s.requirePermission(rbac.PermSetupManage)(h))
			}
			r.Get("/roles", manage(setupH.Roles))
			r.Post("/admins", manage(setupH.RegisterAdmin))
			r.Get("/members/{state}", manage(setupH.MemberActions))
			r.Post("/members/{id}/approve", manage(setupH.ApproveAction))
			r.Post("/members/{id}/decline", manage(setupH.DeclineAction))
		})
	})
	return r
}
