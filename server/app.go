package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"devtrack/config"
	"devtrack/internal/api"
	"devtrack/internal/db"
	"devtrack/internal/health"
	"devtrack/internal/ingest"
	"devtrack/internal/logs"
	"devtrack/internal/middleware"
	"devtrack/internal/repo"
)

// deviceStore: общий интерфейс DeviceStore и MemStore.
type deviceStore interface {
	ingest.Store
	api.Store
}

type App struct {
	cfg        *config.Config
	Router     *mux.Router
	httpServer *http.Server

	db        *gorm.DB
	store     deviceStore
	scheduler *ingest.Scheduler
}

func (a *App) Initialize(cfg *config.Config) error {
	a.cfg = cfg

	// 1) Логи
	logs.Init(logs.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	log := logs.Component("server")

	// 2) БД (опционально)
	if drv := cfg.Database.Driver; drv != "" {
		dsn, err := db.DSN(cfg.Database)
		if err != nil {
			return err
		}
		d, err := db.Open(drv, dsn)
		if err != nil {
			return fmt.Errorf("db open: %w", err)
		}
		if err := db.Migrate(d); err != nil {
			return err
		}
		a.db = d
		a.store = repo.NewDeviceStore(d)
		log.WithField("driver", drv).Info("device store: database")
	} else {
		a.store = repo.NewMemStore()
		log.Warn("device store: in-memory, devices are lost on restart")
	}

	// 3) Роутер + middleware
	a.Router = mux.NewRouter()
	a.Router.Use(middleware.RequestID)
	a.Router.Use(middleware.Recoverer)
	a.Router.Use(middleware.LoggerMW)

	// 4) Health
	if a.db != nil {
		health.RegisterRoutesWithDB(a.Router, a.db) // /healthz и /readyz
	} else {
		health.RegisterRoutes(a.Router) // только /healthz
	}

	// 5) API устройств и поиск
	api.NewHTTP(a.store, logs.Component("api")).RegisterRoutes(a.Router)

	// UI последним: он занимает "/"
	if err := a.RegisterWebUI("/ui/"); err != nil {
		return err
	}

	// 6) Опрос роутера
	rc := cfg.Router
	fetcher := ingest.NewHTTPFetcher(rc.URL, rc.ConnectTimeout, rc.ReadTimeout)
	ing := ingest.NewIngestor(fetcher, a.store, logs.Component("ingest"))
	a.scheduler = ingest.NewScheduler(ing, rc.PollInterval, rc.StartupDelay, logs.Component("scheduler"))

	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := rt.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, _ := rt.GetMethods()
		log.Debugf("route: %-6s %s", strings.Join(methods, ","), path)
		return nil
	})
	return nil
}

// Run обслуживает HTTP и опрашивает роутер до SIGINT/SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext: то же, что Run, но останавливается по ctx.
func (a *App) RunContext(ctx context.Context) error {
	if a.Router == nil || a.cfg == nil {
		return ErrNotInitialized
	}
	log := logs.Component("server")
	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.httpServer = &http.Server{
		Addr:         bind,
		Handler:      a.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("http server: %w", err)
			cancel()
		}
	}()

	schedDone := make(chan error, 1)
	go func() { schedDone <- a.scheduler.Run(ctx) }()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-schedDone:
		schedDone = nil
		cancel()
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = a.httpServer.Shutdown(shutdownCtx)

	if schedDone != nil {
		if err := <-schedDone; err != nil && runErr == nil {
			runErr = err
		}
	}
	select {
	case err := <-errc:
		if runErr == nil {
			runErr = err
		}
	default:
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	log.Info("stopped")
	return runErr
}

var ErrNotInitialized = errors.New("server not initialized (call Initialize(cfg) first)")
