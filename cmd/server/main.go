package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"nachweis/internal/catalog"
	"nachweis/internal/compliance"
	compliancehandler "nachweis/internal/compliance/handler"
	compliancemetrics "nachweis/internal/compliance/metrics"
	"nachweis/internal/notification"
	"nachweis/internal/platform/config"
	"nachweis/internal/platform/httpserver"
	"nachweis/internal/platform/logger"
	"nachweis/internal/platform/metrics"
	"nachweis/internal/platform/postgres"
	"nachweis/internal/platform/redis"
	"nachweis/internal/requirement"
	requirementhandler "nachweis/internal/requirement/handler"
	requirementmetrics "nachweis/internal/requirement/metrics"
	"nachweis/internal/scheduler"
	schedulermetrics "nachweis/internal/scheduler/metrics"
	"nachweis/internal/subcontractor"
	subcontractorhandler "nachweis/internal/subcontractor/handler"
	httptransport "nachweis/internal/transport/http"
)

// main wires dependencies and keeps the process lifecycle small. Business
// logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalogStore, err := catalog.NewInMemoryStore(catalog.Default())
	if err != nil {
		log.Error("invalid document catalog", "error", err)
		os.Exit(1)
	}

	// Stores: postgres when configured, in-memory otherwise.
	var (
		requirementStore   requirement.Store
		jobStore           scheduler.Store
		subcontractorStore subcontractor.Store
	)
	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres connect failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		requirementStore = requirement.NewPostgresStore(db)
		jobStore = scheduler.NewPostgresStore(db)
		subcontractorStore = subcontractor.NewPostgresStore(db)
		log.Info("postgres stores ready")
	} else {
		requirementStore = requirement.NewInMemoryStore()
		jobStore = scheduler.NewInMemoryStore()
		subcontractorStore = subcontractor.NewInMemoryStore()
		log.Warn("no postgres DSN configured, using in-memory stores")
	}

	// Notification sink: kafka when configured, log otherwise.
	var publisher notification.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub, err := notification.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("kafka connect failed", "error", err)
			os.Exit(1)
		}
		defer kafkaPub.Close()
		publisher = notification.NewBreakerPublisher(kafkaPub, &notification.LogPublisher{Logger: log}, log)
		log.Info("kafka publisher ready", "topic", cfg.KafkaTopic)
	} else {
		publisher = &notification.LogPublisher{Logger: log}
		log.Warn("no kafka brokers configured, notifications go to the log")
	}
	worker := notification.NewWorker(publisher, log, 256)

	sched := scheduler.New(jobStore, publisher, log,
		scheduler.WithInterval(cfg.ReminderInterval),
		scheduler.WithBackoff(scheduler.PolicyFromConfig(cfg.BackoffPolicy, cfg.ReminderBackoff)),
		scheduler.WithMaxAttempts(cfg.MaxReminderAttempts),
		scheduler.WithMetrics(schedulermetrics.New()),
	)

	complianceOpts := []compliance.Option{
		compliance.WithMetrics(compliancemetrics.New()),
		compliance.WithExpiryWarning(cfg.ExpiryWarningWindow),
	}
	rdb, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
		complianceOpts = append(complianceOpts, compliance.WithCache(compliance.NewRedisCache(rdb.Client, 5*time.Minute)))
		log.Info("compliance cache ready")
	}
	complianceSvc := compliance.NewService(requirementStore, log, complianceOpts...)

	requirementSvc := requirement.NewService(requirementStore, catalogStore, log,
		requirement.WithJobs(sched),
		requirement.WithInvalidator(complianceSvc),
		requirement.WithNotifier(worker),
		requirement.WithMetrics(requirementmetrics.New()),
		requirement.WithExpiryWarning(cfg.ExpiryWarningWindow),
	)
	subcontractorSvc := subcontractor.NewService(subcontractorStore, catalogStore, requirementSvc, complianceSvc, sched, log)

	router := httptransport.NewRouter(httptransport.Handlers{
		Subcontractors: subcontractorhandler.New(subcontractorSvc, log),
		Requirements:   requirementhandler.New(requirementSvc, log),
		Compliance:     compliancehandler.New(complianceSvc, log),
	}, metrics.New())

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting nachweis engine", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		return worker.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
