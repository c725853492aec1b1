package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/augustdev/amphitheatre/internal/cache"
	"github.com/augustdev/amphitheatre/internal/logs"
	"github.com/augustdev/amphitheatre/internal/plays"
	"github.com/augustdev/amphitheatre/internal/prometheus"
	"github.com/augustdev/amphitheatre/internal/relay"
	"github.com/augustdev/amphitheatre/internal/workloads"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"k8s.io/client-go/kubernetes"
)

func NewLogSource(k8s kubernetes.Interface) logs.Source {
	return logs.NewPodSource(k8s)
}

func NewRelay(source logs.Source, config relay.Config, logger *slog.Logger) *relay.Relay {
	r := relay.NewRelay(source, config, logger)
	cfg := r.Config()
	logger.Info("Log relay configured",
		"backlogLines", cfg.BacklogLines,
		"maxBacklogLines", cfg.MaxBacklogLines,
		"bufferLines", cfg.BufferLines,
		"maxLineBytes", cfg.MaxLineBytes,
		"heartbeatInterval", cfg.HeartbeatInterval,
		"idleTimeout", cfg.IdleTimeout,
	)
	return r
}

func NewInspector(config workloads.Config, k8s kubernetes.Interface, logger *slog.Logger) (workloads.Inspector, error) {
	switch config.Inspector {
	case "", workloads.InspectorStatic:
		logger.Info("Using static workload inspector")
		return workloads.NewStaticInspector(), nil
	case workloads.InspectorKubernetes:
		logger.Info("Using kubernetes workload inspector")
		return workloads.NewKubernetesInspector(k8s), nil
	default:
		logger.Error("Invalid inspector type", "inspector", config.Inspector)
		return nil, fmt.Errorf("workloads.inspector must be %q or %q", workloads.InspectorStatic, workloads.InspectorKubernetes)
	}
}

func NewStatsProvider(config prometheus.Config, logger *slog.Logger) workloads.StatsProvider {
	if config.QueryURL == "" {
		logger.Info("Prometheus not configured, using static workload stats")
		return workloads.NewStaticStats()
	}
	logger.Info("Prometheus client initialized", "queryURL", config.QueryURL)
	return workloads.NewPrometheusStats(prometheus.NewClient(config))
}

func NewCache(lc fx.Lifecycle, config cache.Config, logger *slog.Logger) plays.Cache {
	if config.Addr == "" {
		logger.Info("Redis not configured, play cache disabled")
		return cache.Noop{}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis ping failed, cache reads will fall through to the database",
			"addr", config.Addr, "error", err)
	} else {
		logger.Info("Redis client initialized", "addr", config.Addr, "ttl", config.TTL)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing redis client...")
			return rdb.Close()
		},
	})

	return cache.NewRedis(rdb, config.Prefix, config.TTL)
}
