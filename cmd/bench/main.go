// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eframework-org/GO.BENCH/XBench"
	"github.com/eframework-org/GO.BENCH/XOrm"
	"github.com/eframework-org/GO.BENCH/XSql"
	"github.com/eframework-org/GO.UTIL/XLog"
	"github.com/eframework-org/GO.UTIL/XPrefs"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark of employee data access through XOrm and plain SQL",
		Long: `Benchmark of employee data access through XOrm and plain SQL.

Environment variables (a local .env file is loaded first):
  BENCH_DRIVER=mysql
  BENCH_EMPLOYEE_DB=root:123456@tcp(127.0.0.1:3306)/bench?parseTime=true
  BENCH_COUNT=1000
  BENCH_SEED=1100`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			config, err := XBench.LoadConfig(XPrefs.Asset())
			if err != nil {
				return err
			}
			if err := applyFlags(cmd, config); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if metricsAddr != "" {
				server := serveMetrics(metricsAddr)
				defer shutdownMetrics(server, 5*time.Second)
			}

			_, err = XBench.Run(ctx, config, cmd.OutOrStdout())
			return err
		},
	}

	flags := cmd.Flags()
	flags.Int("count", 0, "number of generated employees")
	flags.Int64("seed", 0, "seed of the employee generator")
	flags.Int("iterations", 0, "measured iterations per case")
	flags.Int("warmup", 0, "warmup iterations per case")
	flags.String("filter", "", "regular expression over case names")
	flags.StringVar(&metricsAddr, "metrics", "", "serve prometheus metrics on this address while running, e.g. :9090")
	return cmd
}

// applyFlags 以显式指定的命令行参数覆盖配置。
func applyFlags(cmd *cobra.Command, config *XBench.Config) error {
	flags := cmd.Flags()
	if flags.Changed("count") {
		config.Count, _ = flags.GetInt("count")
	}
	if flags.Changed("seed") {
		config.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("iterations") {
		config.Iterations, _ = flags.GetInt("iterations")
	}
	if flags.Changed("warmup") {
		config.Warmup, _ = flags.GetInt("warmup")
	}
	if flags.Changed("filter") {
		config.Filter, _ = flags.GetString("filter")
	}
	return config.Validate()
}

// serveMetrics 在后台输出 XOrm 及 XSql 的统计指标。
func serveMetrics(addr string) *http.Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(XOrm.Metrics().Collectors()...)
	registry.MustRegister(XSql.Metrics().Collectors()...)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			XLog.Error("bench: serve metrics on %v failed: %v", addr, err)
		}
	}()
	XLog.Notice("bench: metrics are served on %v/metrics.", addr)
	return server
}

// shutdownMetrics 在超时时间内关闭指标服务，失败时记录警告。
func shutdownMetrics(server *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		XLog.Warn("bench: shutdown metrics server on %v failed: %v", server.Addr, err)
		return err
	}
	return nil
}
