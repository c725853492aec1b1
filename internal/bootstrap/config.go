package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/augustdev/amphitheatre/internal/cache"
	"github.com/augustdev/amphitheatre/internal/plays"
	"github.com/augustdev/amphitheatre/internal/prometheus"
	"github.com/augustdev/amphitheatre/internal/relay"
	"github.com/augustdev/amphitheatre/internal/storage/pg"
	"github.com/augustdev/amphitheatre/internal/workloads"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

type KubernetesConfig struct {
	// Kubeconfig is a path to a kubeconfig file. Empty means in-cluster.
	Kubeconfig string
	QPS        float32
	Burst      int
}

func NewConfig() (Config, error) {
	if err := InitConfig(); err != nil {
		return Config{}, err
	}

	var cfg struct {
		Server     ServerConfig
		Log        LogConfig
		Db         pg.DbConfig
		Redis      cache.Config
		Kubernetes KubernetesConfig
		Relay      relay.Config
		Prometheus prometheus.Config
		Workloads  workloads.Config
		Plays      plays.Config
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}

	return Config{
		Server:     cfg.Server,
		Log:        cfg.Log,
		Db:         cfg.Db,
		Redis:      cfg.Redis,
		Kubernetes: cfg.Kubernetes,
		Relay:      cfg.Relay,
		Prometheus: cfg.Prometheus,
		Workloads:  cfg.Workloads,
		Plays:      cfg.Plays,
	}, nil
}

type Config struct {
	fx.Out

	Server     ServerConfig
	Log        LogConfig
	Db         pg.DbConfig
	Redis      cache.Config
	Kubernetes KubernetesConfig
	Relay      relay.Config
	Prometheus prometheus.Config
	Workloads  workloads.Config
	Plays      plays.Config
}

func InitConfig() error {
	_ = godotenv.Load()

	if configFile := os.Getenv("APPLICATION_CONFIG"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("application")
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
	}
	setDefaults()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// Every key needs a default so that AutomaticEnv can override it without a
// config file present.
func setDefaults() {
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.allowedOrigins", []string{"*"})

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")

	viper.SetDefault("db.url", "")
	viper.SetDefault("db.maxConns", 0)
	viper.SetDefault("db.minConns", 0)
	viper.SetDefault("db.maxConnLifetime", 0)
	viper.SetDefault("db.maxConnIdleTime", 0)
	viper.SetDefault("db.connectTimeout", 30*time.Second)

	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttl", time.Minute)
	viper.SetDefault("redis.prefix", "amphitheatre")

	viper.SetDefault("kubernetes.kubeconfig", "")
	viper.SetDefault("kubernetes.qps", 20)
	viper.SetDefault("kubernetes.burst", 40)

	viper.SetDefault("relay.backlogLines", 1)
	viper.SetDefault("relay.maxBacklogLines", 1000)
	viper.SetDefault("relay.bufferLines", 64)
	viper.SetDefault("relay.maxLineBytes", 0)
	viper.SetDefault("relay.heartbeatInterval", 30*time.Second)
	viper.SetDefault("relay.idleTimeout", 0)

	viper.SetDefault("prometheus.queryURL", "")
	viper.SetDefault("prometheus.username", "")
	viper.SetDefault("prometheus.password", "")

	viper.SetDefault("workloads.inspector", workloads.InspectorStatic)

	viper.SetDefault("plays.defaultNamespace", "default")
}
