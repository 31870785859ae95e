package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/openpermit/openpermit"
	"github.com/openpermit/openpermit/internal/config"
	"github.com/openpermit/openpermit/internal/logging"
	"github.com/openpermit/openpermit/pkg/adapters/process"
	"github.com/openpermit/openpermit/pkg/adapters/redis"
	"github.com/openpermit/openpermit/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "openpermit",
	Short: "OpenPermit builds and checks self-defining permitting nodes",
	Long: `OpenPermit models permitting concepts (standards, components, requirements,
actors, documents) as self-defining Nodes and maps them onto each other with Crosswalks.
All node work runs in a worker reached through a message channel.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Override log.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Override log.format (text, json)")
}

// loadConfig reads the file named by --config and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		cfg.Log.Format = format
	}
	return cfg, nil
}

// newLogger writes to stderr so stdout stays clean for command output.
func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(os.Stderr, level, cfg.Log.Format), nil
}

func workerOptions(cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) []worker.Option {
	opts := []worker.Option{
		worker.WithLogger(logger),
		worker.WithValidationDelay(cfg.Worker.ValidationDelay),
		worker.WithMaxInFlight(cfg.Worker.MaxInFlight),
	}
	if reg != nil {
		opts = append(opts, worker.WithMetrics(worker.NewMetrics(reg)))
	}
	return opts
}

func newRedisClient(cfg config.RedisConfig) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func redisOptions(cfg config.RedisConfig) []redis.Option {
	return []redis.Option{
		redis.WithPrefix(cfg.Prefix),
		redis.WithPollInterval(cfg.PollInterval),
	}
}

// processConfig defaults to running this binary as a stdio worker on the same config file.
func processConfig(cfg config.ProcessConfig, configPath string) (process.Config, error) {
	pc := process.Config{Command: cfg.Command, Args: cfg.Args, Dir: cfg.Dir}
	if pc.Command == "" {
		exe, err := os.Executable()
		if err != nil {
			return pc, fmt.Errorf("failed to locate openpermit binary: %w", err)
		}
		pc.Command = exe
		pc.Args = []string{"worker", "--stdio", "--config", configPath}
	}
	return pc, nil
}

// newClient builds a client for the configured transport. reg may be nil.
// The returned cleanup closes the client and any transport resources.
func newClient(cfg config.Config, configPath string, logger *slog.Logger, reg prometheus.Registerer) (*openpermit.Client, func(), error) {
	opts := []openpermit.Option{openpermit.WithLogger(logger)}
	if reg != nil {
		opts = append(opts, openpermit.WithMetrics(openpermit.NewMetrics(reg)))
	}

	switch cfg.Transport.Kind {
	case config.TransportRedis:
		rdb := newRedisClient(cfg.Transport.Redis)
		conn := redis.Dial(rdb, cfg.Transport.Redis.Channel, redis.SideClient, redisOptions(cfg.Transport.Redis)...)
		client := openpermit.New(append(opts, openpermit.WithConn(conn))...)
		return client, func() {
			_ = client.Close()
			_ = rdb.Close()
		}, nil
	case config.TransportProcess:
		pc, err := processConfig(cfg.Transport.Process, configPath)
		if err != nil {
			return nil, nil, err
		}
		client := openpermit.New(append(opts, openpermit.WithLauncher(process.NewLauncher(pc)))...)
		return client, func() { _ = client.Close() }, nil
	case config.TransportMemory:
		opts = append(opts, openpermit.WithWorkerOptions(workerOptions(cfg, logger, reg)...))
		client := openpermit.New(opts...)
		return client, func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported transport %q", cfg.Transport.Kind)
	}
}

// setup is the common prologue of commands that talk to a worker.
func setup(cmd *cobra.Command, reg prometheus.Registerer) (config.Config, *slog.Logger, *openpermit.Client, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, nil, nil, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return cfg, nil, nil, nil, err
	}
	path, _ := cmd.Flags().GetString("config")
	client, cleanup, err := newClient(cfg, path, logger, reg)
	if err != nil {
		return cfg, nil, nil, nil, err
	}
	return cfg, logger, client, cleanup, nil
}
