// Command kioskd serves the kiosk attendance API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without a zoneinfo database.

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/admission"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/api"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/config"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/db"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/db/migrations"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/dbpool"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/metrics"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/middleware"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/service"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/store"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/ws"
)

const (
	shutdownTimeout = 10 * time.Second
	purgeInterval   = 24 * time.Hour
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("kioskd exited")
	}
}

func run(log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	base := store.Base{Pool: pool, Log: log, Timeout: cfg.PersistTimeout}
	employeeStore := store.NewEmployeeStore(base)
	attendanceStore := store.NewAttendanceStore(base)
	auditStore := store.NewAuditStore(base)

	clock := admission.SystemClock{}
	auditWorker := service.NewAuditWorker(auditStore, log, cfg.AuditQueue)

	attendanceSvc := service.NewAttendanceService(
		admission.New(cfg.Admission(), clock),
		employeeStore, attendanceStore, clock, cfg.PersistTimeout, log,
	)
	monitoringSvc := service.NewMonitoringService(attendanceStore, employeeStore, clock, service.MonitoringConfig{
		ActiveWindow: cfg.ActiveWindow,
		OnDutyWindow: cfg.OnDutyWindow,
		Location:     cfg.Location,
	}, log)
	employeeSvc := service.NewEmployeeService(employeeStore, auditWorker, log)
	auditSvc := service.NewAuditService(auditStore, log)

	if stats, err := employeeSvc.EmployeeStats(ctx); err == nil {
		metrics.EmployeeCount.Set(float64(stats.Total))
	}

	hub := ws.NewHub(log)
	bridge := db.NewNotifyBridge(log, pool, hub)

	handler := api.NewRouter(ctx, &api.RouterDeps{
		Log:         log,
		Pool:        pool,
		Hub:         hub,
		Attendance:  attendanceSvc,
		Monitoring:  monitoringSvc,
		Employees:   employeeSvc,
		Audit:       auditSvc,
		Verifier:    middleware.NewHMACVerifier(cfg.JWTSecret.Value()),
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,
		HSTS:        cfg.HSTS,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		auditWorker.Run(gctx)
		return nil
	})

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		return bridge.Start(gctx)
	})

	if cfg.AuditRetain > 0 {
		g.Go(func() error {
			purgeAuditLoop(gctx, auditSvc, cfg.AuditRetain, log)
			return nil
		})
	}

	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":     srv.Addr,
			"version":  config.Version,
			"timezone": cfg.Location.String(),
			"schema":   db.SchemaVersion(),
		}).Info("kioskd listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.WithField("addr", metricsSrv.Addr).Info("metrics listening")

		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		hub.Shutdown()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("api server shutdown")
		}
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("metrics server shutdown")
		}
		return nil
	})

	return g.Wait()
}

// purgeAuditLoop deletes audit entries older than retentionDays once a day.
func purgeAuditLoop(ctx context.Context, audit *service.AuditService, retentionDays int, log *logrus.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		if _, err := audit.PurgeOldEntries(ctx, retentionDays); err != nil && ctx.Err() == nil {
			log.WithError(err).Warn("audit purge failed")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
