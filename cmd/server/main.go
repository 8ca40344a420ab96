package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/taskwall/taskwall/internal/db"
	internalserver "github.com/taskwall/taskwall/internal/server"
	"github.com/taskwall/taskwall/modules/kanban"
	"github.com/taskwall/taskwall/pkg/application"
	"github.com/taskwall/taskwall/pkg/configuration"
	"github.com/taskwall/taskwall/pkg/eventbus"
	"github.com/taskwall/taskwall/pkg/metrics"
	"github.com/taskwall/taskwall/pkg/realtime"
	"github.com/taskwall/taskwall/pkg/tenancy"
	"github.com/taskwall/taskwall/pkg/txn"
	"github.com/taskwall/taskwall/pkg/ws"
)

func main() {
	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := pgxpool.New(ctx, conf.Database.ConnectionString())
	if err != nil {
		logger.WithError(err).Fatal("failed to create database pool")
	}
	defer pool.Close()

	if conf.MigrateOnStart {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.WithError(err).Fatal("failed to apply schema")
		}
	}

	registry := tenancy.NewRegistry(tenancy.Options{
		Default:     pool,
		MultiTenant: conf.Multitenancy.Enabled,
		Logger:      logger,
		Opener: func(ctx context.Context, tenantID string) (*pgxpool.Pool, error) {
			p, err := pgxpool.New(ctx, conf.Database.ConnectionStringFor(tenantID))
			if err != nil {
				return nil, err
			}
			if err := p.Ping(ctx); err != nil {
				p.Close()
				return nil, err
			}
			if conf.MigrateOnStart {
				if err := db.Migrate(ctx, p); err != nil {
					p.Close()
					return nil, err
				}
			}
			return p, nil
		},
	})
	defer registry.Close()

	var publisher realtime.Publisher
	var subscriber realtime.Subscriber
	switch conf.Realtime.Transport {
	case "redis":
		opts, err := redis.ParseURL(conf.RedisURL)
		if err != nil {
			logger.WithError(err).Fatal("invalid redis url")
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Fatal("failed to connect to redis")
		}
		publisher = realtime.NewRedisPublisherWithClient(client, conf.Realtime.ChannelPrefix)
		subscriber = realtime.NewRedisSubscriberWithClient(client, conf.Realtime.ChannelPrefix)
	case "postgres":
		publisher = realtime.NewPgPublisher(pool, conf.Realtime.ChannelPrefix)
	}

	var runner txn.Runner
	if conf.Proxy.Enabled {
		runner = txn.NewProxyRunner(conf.Proxy.BatchURL, conf.Proxy.Timeout)
	} else {
		runner = txn.NewDirectRunner()
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		Tenants:  registry,
		EventBus: eventbus.NewEventPublisher(logger),
		Realtime: publisher,
		Logger:   logger,
	})

	kanban.NewModule().Register(app, runner)

	hub := ws.NewHub(&ws.HubOptions{Logger: logger})
	app.RegisterControllers(
		internalserver.NewHealthController(pool, publisher),
		internalserver.NewWebsocketController(hub),
	)
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	if subscriber != nil {
		go func() {
			if err := hub.Run(ctx, subscriber); err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err).Error("realtime fan-out stopped")
			}
		}()
	}

	srv := internalserver.Default(app, conf)

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("server shutdown failed")
		}
	}()

	logger.WithField("address", conf.SocketAddress).Info("server listening")
	if err := srv.Start(conf.SocketAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("server stopped")
	}
}
