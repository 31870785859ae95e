package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openpermit/openpermit/pkg/adapters/process"
	"github.com/openpermit/openpermit/pkg/adapters/redis"
	"github.com/openpermit/openpermit/pkg/ports"
	"github.com/openpermit/openpermit/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Serve worker requests over Redis or stdio",
	Long: `Runs a worker runtime on the Redis list pair named by transport.redis.channel.
Clients configured with transport.kind=redis reach it from other processes.
Start the worker before its clients: it clears the channel on startup.

With --stdio the worker reads newline-delimited requests on stdin and answers on
stdout instead. Clients with transport.kind=process start it this way.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var (
			conn     ports.Conn
			endpoint []any
		)
		if stdio, _ := cmd.Flags().GetBool("stdio"); stdio {
			conn = process.NewStream(os.Stdin, os.Stdout, nil)
			endpoint = []any{"transport", "stdio"}
		} else {
			rc := cfg.Transport.Redis
			rdb := newRedisClient(rc)
			defer rdb.Close()
			if err := rdb.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("failed to reach redis at %s: %w", rc.Addr, err)
			}

			rconn := redis.Dial(rdb, rc.Channel, redis.SideWorker, redisOptions(rc)...)
			if err := rconn.Reset(ctx); err != nil {
				return err
			}
			conn = rconn
			endpoint = []any{"transport", "redis", "addr", rc.Addr, "channel", rc.Channel}
		}
		defer conn.Close()

		// reg stays a nil interface when metrics are disabled.
		var reg prometheus.Registerer
		if metricsAddr != "" {
			registry := prometheus.NewRegistry()
			reg = registry
			srv := &http.Server{
				Addr:              metricsAddr,
				Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("Metrics server failed", "error", err)
				}
			}()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
		}

		opts := workerOptions(cfg, logger, reg)
		rt := worker.New(conn, opts...)

		logger.Info("Worker listening", append(endpoint, "actions", rt.Actions())...)
		if err := rt.Run(ctx); err != nil {
			return err
		}
		logger.Info("Worker stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.Flags().Bool("stdio", false, "Serve on stdin and stdout instead of Redis")
	workerCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address")
}
