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

	"rollcall/internal/candidate/event"
	"rollcall/internal/candidate/handler"
	candidatemetrics "rollcall/internal/candidate/metrics"
	"rollcall/internal/candidate/service"
	"rollcall/internal/candidate/store"
	"rollcall/internal/gateway"
	gatewaymetrics "rollcall/internal/gateway/metrics"
	"rollcall/internal/platform/config"
	"rollcall/internal/platform/httpserver"
	"rollcall/internal/platform/logger"
	httptransport "rollcall/internal/transport/http"
)

func main() {
	log := logger.New()
	cfg := config.FromEnv()

	records := store.NewInMemory()
	if cfg.Seed {
		store.Seed(context.Background(), records)
		log.Info("seeded default roster", "count", records.Count(context.Background()))
	}

	bus := event.NewBus()
	svc := service.New(records,
		service.WithLogger(log),
		service.WithMetrics(candidatemetrics.New()),
		service.WithPublisher(bus),
	)

	gw := gateway.New(svc,
		gateway.WithLogger(log),
		gateway.WithMetrics(gatewaymetrics.New()),
		gateway.WithSendBuffer(cfg.WSSendBuffer),
		gateway.WithWriteTimeout(cfg.WSWriteTimeout),
		gateway.WithPingInterval(cfg.WSPingInterval),
	)
	bus.Subscribe(gw.HandleEvent)

	router := httptransport.NewRouter(handler.New(svc, log), gw, log)
	server := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
