// Package server initializes and runs the application server: database and
// migrations, services, the background activity recorder, and the HTTP
// endpoint with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devhubhq/devhub/internal/logging"
	"github.com/devhubhq/devhub/internal/server/config"
	"github.com/devhubhq/devhub/internal/server/graphql"
	"github.com/devhubhq/devhub/internal/server/httpapi"
	"github.com/devhubhq/devhub/internal/server/jobs"
	"github.com/devhubhq/devhub/internal/server/repositories/repomanager"
	"github.com/devhubhq/devhub/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// activityQueueSize bounds the in-flight status change backlog.
const activityQueueSize = 64

// shutdownTimeout caps how long in-flight requests may run after a signal.
const shutdownTimeout = 10 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	recorder *jobs.Recorder
	handler  http.Handler
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	recorder := jobs.NewRecorder(m.Activities(db), logger, activityQueueSize)

	userService := services.NewUserService(db, m, cfg)
	projectService := services.NewProjectService(db, m)
	taskService := services.NewTaskService(db, m, recorder)
	activityService := services.NewActivityService(db, m)
	statsService := services.NewStatsService(db, m)
	attachmentService := services.NewAttachmentService(db, m, cfg)

	schema, err := graphql.NewSchema(&graphql.Resolver{
		Users:       userService,
		Projects:    projectService,
		Tasks:       taskService,
		Activities:  activityService,
		Stats:       statsService,
		Attachments: attachmentService,
	})
	if err != nil {
		return nil, fmt.Errorf("schema error: %w", err)
	}

	httpServer := httpapi.NewServer(
		userService,
		httpapi.CookiePolicy{Domain: cfg.CookieDomain, Production: cfg.IsProduction()},
		logger,
		graphql.NewHandler(schema),
		cfg.CORSAllowedOrigins,
	)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		recorder: recorder,
		handler:  httpServer.Router(),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.Addr, "env", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.Addr,
		Handler: app.handler,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		app.logger.Error(ctx, "server error", "error", err)
	case <-ctx.Done():
		app.logger.Info(ctx, "Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err)
		}
	}

	// drain queued activity writes before the DB goes away
	app.recorder.Close()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
