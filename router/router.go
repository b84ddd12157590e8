// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"fmt"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/bug-tracker/cliparse"
	"github.com/danielhkuo/bug-tracker/handlers"
	"github.com/danielhkuo/bug-tracker/middleware"
	"github.com/danielhkuo/bug-tracker/ratelimit"
	"github.com/danielhkuo/bug-tracker/session"
	"github.com/danielhkuo/bug-tracker/store"
	"github.com/danielhkuo/bug-tracker/views"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) (http.Handler, error) {
	st := store.New(db, cfg.DatabaseType)

	renderer, err := views.New()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	deps := handlers.Deps{
		Store:    st,
		Sessions: session.NewManager(st, cfg),
		Views:    renderer,
		Config:   cfg,
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps)
	bugHandler := handlers.NewBugHandler(deps)
	milestoneHandler := handlers.NewMilestoneHandler(deps)
	tagHandler := handlers.NewTagHandler(deps)
	pageHandler := handlers.NewPageHandler(deps)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	loginLimiter := ratelimit.New(cfg.LoginRPS, cfg.LoginBurst)

	app := http.NewServeMux()
	handle := func(pattern string, h http.HandlerFunc) {
		app.HandleFunc(pattern, middleware.WithLogging(metrics.Instrument(pattern, h)))
	}

	// Accounts
	handle("POST /login", middleware.RateLimit(loginLimiter, authHandler.Login))
	handle("POST /createuser", middleware.RateLimit(loginLimiter, authHandler.CreateUser))
	handle("GET /logout", authHandler.Logout)
	handle("GET /registeruser", authHandler.RegisterUserPage)
	handle("GET /userprefs", authHandler.UserPrefsPage)
	handle("POST /updateuser", authHandler.UpdateUser)
	handle("POST /subscribetag", tagHandler.Subscribe)

	// Bugs
	handle("GET /{$}", bugHandler.Index)
	handle("GET /registerbug", bugHandler.RegisterBugPage)
	handle("POST /createbug", bugHandler.CreateBug)
	handle("GET /bugs/{bugid}", bugHandler.BugInfo)
	handle("GET /buglist", bugHandler.BugList)
	handle("GET /searchbug", bugHandler.Search)

	// Milestones
	handle("GET /milestonelist", milestoneHandler.List)
	handle("GET /addmilestone", milestoneHandler.AddPage)
	handle("POST /createmilestone", milestoneHandler.Create)
	handle("GET /milestone/{milestoneid}", milestoneHandler.Detail)

	handle("GET /about", pageHandler.About)

	// Health and metrics stay outside the session middleware
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", pageHandler.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/", deps.Sessions.Attach(app))

	var handler http.Handler = chimw.Recoverer(mux)
	if cfg.TrustProxy {
		handler = chimw.RealIP(handler)
	}
	return chimw.RequestID(handler), nil
}
