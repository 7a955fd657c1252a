// Package server owns the boot sequence and the HTTP/gRPC lifecycle.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rishavanand/bazario/app/controllers"
	"github.com/rishavanand/bazario/app/jobs"
	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/app/repositories"
	"github.com/rishavanand/bazario/app/routes"
	"github.com/rishavanand/bazario/app/services"
	"github.com/rishavanand/bazario/config"
	"github.com/rishavanand/bazario/pkg/cache"
	"github.com/rishavanand/bazario/pkg/container"
	"github.com/rishavanand/bazario/pkg/database"
	"github.com/rishavanand/bazario/pkg/event"
	"github.com/rishavanand/bazario/pkg/logger"
	"github.com/rishavanand/bazario/pkg/metrics"
	"github.com/rishavanand/bazario/pkg/middleware"
	"github.com/rishavanand/bazario/pkg/notification"
	"github.com/rishavanand/bazario/app/payment"
	"github.com/rishavanand/bazario/pkg/queue"
	"github.com/rishavanand/bazario/pkg/reqid"
	"github.com/rishavanand/bazario/pkg/response"
	"github.com/rishavanand/bazario/pkg/router"
	"github.com/rishavanand/bazario/pkg/rpc"
	"github.com/rishavanand/bazario/pkg/schedule"
	"github.com/rishavanand/bazario/pkg/storage"
	"github.com/rishavanand/bazario/pkg/workerpool"
	"github.com/rishavanand/bazario/pkg/ws"
)

// Boot wires every subsystem short of the listeners: config, stores,
// container bindings, queue, events, scheduler. Safe to call from any CLI
// command that needs a connected application.
func Boot() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}
	cache.Connect()
	storage.Connect()

	if config.LogToMongo() {
		mh := logger.NewMongoHandler(database.Collection("logs"))
		logger.Use(slog.New(logger.NewMultiHandler(logger.L.Handler(), mh)))
	}

	notification.SetSlackWebhook(config.SlackWebhook())

	if !container.Has(payment.BindingKey) {
		container.Singleton(payment.BindingKey, func() interface{} {
			return payment.NewClient()
		})
	}

	queue.UseCollection(database.Collection("failed_jobs"))
	jobs.RegisterAll()
	if config.QueueDriver() == "redis" {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}

	pool := workerpool.New(16)
	event.UsePool(pool)

	return nil
}

// Run boots the application and serves HTTP plus gRPC until SIGINT/SIGTERM,
// then drains everything gracefully.
func Run() error {
	if err := Boot(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Order events: websocket feed, SSE status stream, confirmation email.
	hub := ws.NewHub()
	go hub.Run()
	controllers.RegisterOrderEvents(hub)
	registerConfirmationMail()

	// Background workers and the orphan sweep.
	workers, err := strconv.Atoi(config.QueueWorkers())
	if err != nil || workers < 1 {
		workers = 4
	}
	queue.StartWorkers(ctx, workers)

	schedule.Every(5).Minutes().
		Name("reconcile-orphans").
		WithoutOverlapping().
		Run(func() {
			sweepCtx, sweepCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer sweepCancel()
			n, err := queue.RetryFailed(sweepCtx, "*jobs.PaymentReconcile")
			if err != nil {
				logger.Error("schedule: orphan sweep failed", "error", err)
				return
			}
			if n > 0 {
				logger.Info("schedule: requeued orphaned payments", "count", n)
			}
		})
	go schedule.Start(ctx)

	// HTTP surface.
	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(corsOptions()),
		middleware.RateLimit(300, time.Minute),
	)
	routes.RegisterAPI(r, hub)
	r.Get("/health", "ops.health", healthHandler)
	r.Handle("/metrics", metrics.Handler())

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcSrv, _, err := rpc.Start(config.GRPCPort())
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: HTTP listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("server: shutting down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server: http shutdown", "error", err)
	}
	rpc.Stop(grpcSrv)
	cancel() // stops queue workers and the scheduler
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Warn("server: mongo disconnect", "error", err)
	}

	logger.Info("server: stopped")
	return nil
}

// registerConfirmationMail queues the buyer's confirmation email whenever
// an order lands.
func registerConfirmationMail() {
	users := repositories.NewUserRepository()

	event.Listen(services.EventOrderCreated, func(payload interface{}) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		buyer, err := users.FindByID(ctx, order.Buyer.Hex())
		if err != nil {
			logger.Warn("server: confirmation mail skipped, buyer lookup failed",
				"order_id", order.ID.Hex(), "error", err)
			return
		}

		amount, _ := order.Payment["amount"].(string)
		job := &jobs.OrderConfirmation{
			Email:   buyer.Email,
			Name:    buyer.Name,
			OrderID: order.ID.Hex(),
			Amount:  amount,
		}
		if err := queue.Dispatch(job); err != nil {
			logger.Error("server: confirmation mail dispatch failed",
				"order_id", order.ID.Hex(), "error", err)
		}
	})
}

func corsOptions() middleware.CORSOptions {
	opts := middleware.DefaultCORSOptions()
	if origins := config.CORSOrigins(); len(origins) > 0 {
		opts.AllowedOrigins = origins
	}
	return opts
}

// healthHandler reports liveness plus the state of both stores.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	mongoOK := database.Ping(ctx) == nil
	redisOK := cache.Ping(ctx) == nil
	if !mongoOK || !redisOK {
		status = http.StatusServiceUnavailable
	}

	response.JSON(w, status, response.M{
		"success": mongoOK && redisOK,
		"mongo":   mongoOK,
		"redis":   redisOK,
	})
}
