package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/audit"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/cache"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/autoshop-scheduler/internal/db"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/holidaysync"
	infraRepo "github.com/BruksfildServices01/autoshop-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/metrics"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/realtime"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/routes"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/settings"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/timezone"
	ucCalendar "github.com/BruksfildServices01/autoshop-scheduler/internal/usecase/calendar"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/validators"
)

func main() {

	cfg := config.Load()
	loc := timezone.Location(cfg.ShopTimezone)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := validators.RegisterBindings(); err != nil {
		log.Fatalf("failed to register validators: %v", err)
	}

	db := dbpkg.NewDB(cfg)

	// --------------------------------------------------
	// Metrics
	// --------------------------------------------------
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// --------------------------------------------------
	// Cache (redis when configured)
	// --------------------------------------------------
	var store cache.Store
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		defer rdb.Close()
		store = cache.NewRedisStore(rdb)
		log.Printf("cache: redis %s", cfg.RedisAddr)
	} else {
		store = cache.NewMemoryStore()
		log.Println("cache: in-memory")
	}

	feedCache := cache.NewFeedCache(store, cfg.CacheTTL, m)
	settingsProvider := settings.NewCachedProvider(settings.NewStore(db), store, cfg.CacheTTL, m)

	// --------------------------------------------------
	// Realtime + notifications
	// --------------------------------------------------
	hub := realtime.NewHub()
	go hub.Run(ctx)
	broadcaster := realtime.NewBroadcaster(hub)

	notifier := calendar.Notifiers{
		feedCache,
		settingsProvider,
		broadcaster,
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db))
	defer auditDispatcher.Close()

	// --------------------------------------------------
	// Holiday sync
	// --------------------------------------------------
	syncService := holidaysync.NewSyncService(
		cfg.HolidayFeedURL,
		ucCalendar.NewUpsertHolidays(infraRepo.NewCalendarGormRepository(db), notifier, auditDispatcher),
		settingsProvider,
		auditDispatcher,
		m,
		broadcaster,
	)
	scheduler := holidaysync.NewScheduler(syncService, cfg.HolidaySyncSchedule, loc)
	if cfg.HolidayFeedURL != "" {
		if err := scheduler.Start(); err != nil {
			log.Fatalf("failed to start holiday sync: %v", err)
		}
		defer scheduler.Stop()
	} else {
		log.Println("HOLIDAY_FEED_URL not set, scheduled holiday sync disabled")
	}

	// --------------------------------------------------
	// HTTP
	// --------------------------------------------------
	r := gin.Default()

	routes.RegisterRoutes(r, routes.Infra{
		DB:        db,
		Config:    cfg,
		Location:  loc,
		Settings:  settingsProvider,
		FeedCache: feedCache,
		Notifier:  notifier,
		Audit:     auditDispatcher,
		Metrics:   m,
		Gatherer:  registry,
		Hub:       hub,
		Syncer:    scheduler,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s (timezone %s)", cfg.Addr(), loc)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
