package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/tutorhub/internal/bootstrap"
	"github.com/yigit/tutorhub/internal/config"
	"github.com/yigit/tutorhub/internal/db"
)

// Server holds the state for the HTTP server and its background workers.
type Server struct {
	config   *config.Config
	router   *gin.Engine
	database *db.PostgresDB
	deps     *bootstrap.Dependencies
	logger   zerolog.Logger
	http     *http.Server

	hub      *worker
	listener *worker
	kafka    *worker
}

// worker is a background loop that stops when its context is cancelled
type worker struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
}

func startWorker(name string, run func(ctx context.Context)) *worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &worker{name: name, cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		run(ctx)
	}()
	return w
}

// stop cancels the worker and waits for it to return or for ctx to expire
func (w *worker) stop(ctx context.Context) error {
	if w == nil {
		return nil
	}
	w.cancel()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s did not stop in time: %w", w.name, ctx.Err())
	}
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	database, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, database, lgr)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	return &Server{
		config:   cfg,
		router:   bootstrap.SetupRouter(cfg, deps, lgr),
		database: database,
		deps:     deps,
		logger:   lgr,
	}, nil
}

func (s *Server) startBackground() {
	s.hub = startWorker("hub", s.deps.Hub.Run)
	if s.deps.Listener != nil {
		s.listener = startWorker("changefeed listener", s.deps.Listener.Run)
	}
	if s.deps.KafkaSink != nil {
		s.kafka = startWorker("kafka sink", s.deps.KafkaSink.Run)
	}
	s.deps.Sweeper.Start()
	s.logger.Info().
		Bool("changefeed", s.listener != nil).
		Bool("kafka", s.kafka != nil).
		Str("sweeperSchedule", s.config.Moderation.SweeperSchedule).
		Msg("Background workers started")
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")
	s.startBackground()

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			_ = s.Shutdown(context.Background())
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown stops the HTTP server, the change feed, the sweeper, the Kafka sink
// and the hub in that order, then closes the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var errs []error

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			errs = append(errs, err)
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	if err := s.listener.stop(ctx); err != nil {
		errs = append(errs, err)
	}

	if s.deps != nil && s.deps.Sweeper != nil {
		s.deps.Sweeper.Stop(ctx)
	}

	if err := s.kafka.stop(ctx); err != nil {
		errs = append(errs, err)
	}
	if s.deps != nil && s.deps.KafkaSink != nil {
		if err := s.deps.KafkaSink.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Kafka writer close error")
			errs = append(errs, err)
		}
	}

	if err := s.hub.stop(ctx); err != nil {
		errs = append(errs, err)
	}

	if s.database != nil {
		s.logger.Info().Msg("Closing database connection pool...")
		s.database.Close()
		s.logger.Info().Msg("Database connection pool closed.")
	}

	s.logger.Info().Msg("Server shutdown process complete.")
	if len(errs) > 0 {
		return fmt.Errorf("server shutdown completed with errors: %w", errors.Join(errs...))
	}
	return nil
}
