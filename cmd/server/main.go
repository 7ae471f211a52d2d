package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/gardenplan/planner/internal/auth"
	"github.com/gardenplan/planner/internal/collab"
	"github.com/gardenplan/planner/internal/config"
	"github.com/gardenplan/planner/internal/document"
	"github.com/gardenplan/planner/internal/engine"
	mw "github.com/gardenplan/planner/internal/middleware"
	"github.com/gardenplan/planner/internal/plan"
	"github.com/gardenplan/planner/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	authService := auth.NewService(cfg.ShareSecret)

	planService := plan.NewService(st, authService, document.Canvas{Width: cfg.CanvasWidth, Height: cfg.CanvasHeight})
	planHandler := plan.NewHandler(planService)

	hub := collab.NewHub(st, collab.Options{
		Editor: engine.Options{
			SnapThreshold: cfg.SnapThreshold,
			HistoryLimit:  cfg.HistoryLimit,
		},
		AutosaveInterval: cfg.AutosaveInterval,
	})
	planService.SetRooms(hub)
	go hub.Run(ctx)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	planHandler.Mount(r.PathPrefix("/api").Subrouter(), authService)

	// WebSocket endpoint, token in the query string
	origins := mw.OriginHosts(cfg.Origins())
	ws := r.PathPrefix("/ws/plans/{planId}").Subrouter()
	ws.Use(authService.RequirePlan(auth.RoleView))
	ws.HandleFunc("", func(w http.ResponseWriter, r *http.Request) {
		grant, _ := auth.GrantFromContext(r.Context())
		hub.ServeClient(w, r, grant.PlanID, grant.Role, r.URL.Query().Get("name"), origins)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mw.CORS(cfg.Origins())(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		// Stop hub first to save all dirty plans
		slog.Info("saving open plans...")
		hub.Stop(shutdownCtx)

		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStore uses Postgres when DATABASE_URL is set and memory otherwise.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, plans are kept in memory only")
		return store.NewMemoryStore(), nil
	}
	return store.NewPostgresStore(ctx, cfg.DatabaseURL)
}
