package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelagency/config"
	"github.com/Domenick1991/travelagency/internal/bootstrap"
	"github.com/Domenick1991/travelagency/internal/email"
	"github.com/Domenick1991/travelagency/internal/kafka"
	"github.com/Domenick1991/travelagency/internal/logger"
	"github.com/Domenick1991/travelagency/internal/service/inventory"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := bootstrap.OpenRepositories(ctx, cfg.Database, zl)
	if err != nil {
		zl.Fatal("open storage", zap.Error(err))
	}
	defer repos.Close()

	ledger := inventory.NewLedger(repos.Packages, repos.Bookings, zl.Named("ledger"))
	sender := email.NewSender(zl.Named("email"))

	if cfg.Kafka.Enabled() {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, zl.Named("consumer"))
		defer consumer.Close()

		go func() {
			err := consumer.ConsumeBookingEvents(ctx, sender.Send)
			if err != nil && !errors.Is(err, context.Canceled) {
				zl.Error("consumer stopped", zap.Error(err))
			}
		}()
	} else {
		zl.Warn("kafka brokers not configured, notifications are not consumed")
	}

	reconcileTicker := time.NewTicker(cfg.Worker.ReconcileInterval())
	defer reconcileTicker.Stop()

	zl.Info("worker started", zap.Duration("reconcile_interval", cfg.Worker.ReconcileInterval()))
	for {
		select {
		case <-reconcileTicker.C:
			audits, err := ledger.ReconcileSeats(ctx)
			if err != nil {
				zl.Error("reconcile seats", zap.Error(err))
				continue
			}
			drifted := 0
			for _, a := range audits {
				if !a.Consistent() {
					drifted++
				}
			}
			zl.Info("seat reconcile done", zap.Int("packages", len(audits)), zap.Int("drifted", drifted))
		case <-ctx.Done():
			zl.Info("shutting down worker")
			return
		}
	}
}
