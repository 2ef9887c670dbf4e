package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"foodgram/config"
	"foodgram/global"
	"foodgram/models"
	"foodgram/router"
	"foodgram/services"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to config.yml")
	flag.Parse()

	if err := config.InitConfig(*configPath); err != nil {
		log.Fatalf("init config: %v", err)
	}
	defer global.Logger.Sync()

	if err := models.Migrate(global.Db); err != nil {
		global.Logger.Fatal("migrate database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if global.RabbitConn != nil {
		queue := config.AppConfig.RabbitMQ.Queue
		services.SetEventPublisher(services.NewRabbitPublisher(global.RabbitChannel, queue))

		consumerCh, err := global.RabbitConn.Channel()
		if err != nil {
			global.Logger.Fatal("open consumer channel", zap.Error(err))
		}
		g.Go(func() error {
			defer consumerCh.Close()
			return services.ConsumeEvents(ctx, consumerCh, queue)
		})
	}

	srv := &http.Server{
		Addr:              ":" + config.AppConfig.App.Port,
		Handler:           router.SetupRouter(config.AppConfig),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		global.Logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		global.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		global.Logger.Error("server stopped", zap.Error(err))
	}

	if global.RabbitConn != nil {
		_ = global.RabbitConn.Close()
	}
	if global.RedisDB != nil {
		_ = global.RedisDB.Close()
	}
}
