package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/database"
	"github.com/vancomm/minefield/internal/journal"
	"github.com/vancomm/minefield/internal/middleware"
	"github.com/vancomm/minefield/internal/repository"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	logger     *slog.Logger
	router     *http.ServeMux
	store      repository.Store
	journal    *journal.Journal
	jwt        *config.JWT
	cookies    *config.Cookies
	ws         *config.WebSocket
	migrations fs.FS
}

func New(logger *slog.Logger, migrations fs.FS) *App {
	return &App{
		logger:     logger,
		router:     http.NewServeMux(),
		migrations: migrations,
	}
}

func (a *App) openStore(ctx context.Context) (repository.Store, func(), error) {
	backend, err := config.StorageBackend()
	if err != nil {
		return nil, nil, err
	}

	if backend == config.StorageMemory {
		a.logger.Warn("using in-memory storage, games are lost on restart")
		return repository.NewMemory(), func() {}, nil
	}

	pool, migrator, err := database.ConnectAndMigrate(ctx, a.migrations)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to connect to db: %w", err)
	}
	if version, dirty, err := migrator.Version(); err == nil {
		a.logger.Info(
			"database migrated",
			slog.Uint64("version", uint64(version)),
			slog.Bool("dirty", dirty),
		)
	}
	return repository.New(pool), pool.Close, nil
}

func (a *App) openJournal() (*journal.Journal, error) {
	var out io.Writer = io.Discard
	level := logrus.InfoLevel
	if config.Development() {
		out = os.Stderr
		level = logrus.DebugLevel
	}
	return journal.New(out, journal.Config{
		Filename:   config.JournalFile(),
		MaxSizeMB:  10,
		MaxBackups: 5,
		MaxAgeDays: 30,
		Level:      level,
	})
}

func (a *App) Start(ctx context.Context) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	a.store = store

	if a.journal, err = a.openJournal(); err != nil {
		return err
	}
	if a.jwt, err = config.NewJWT(); err != nil {
		return err
	}
	if a.cookies, err = config.NewCookies(a.jwt); err != nil {
		return err
	}
	if a.ws, err = config.NewWebSocket(); err != nil {
		return err
	}

	a.loadRoutes()

	addr := config.Addr()
	server := &http.Server{
		Addr: addr,
		Handler: middleware.Wrap(
			a.router,
			middleware.Auth(a.logger, a.cookies),
			middleware.Cors(config.AllowedOrigins()...),
			middleware.Recover(a.logger),
			middleware.Logging(a.logger),
		),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
