// taskd serves the task API that taskui talks to.
//
// The following endpoints are available:
//
//  1. GET    /tasks       - List all tasks
//  2. POST   /tasks       - Create a task
//  3. GET    /tasks/{id}  - Get a task by ID
//  4. PUT    /tasks/{id}  - Replace a task's fields
//  5. DELETE /tasks/{id}  - Delete a task
//  6. GET    /metrics     - Prometheus metrics
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/tgienger/taskui/internal/config"
	"github.com/tgienger/taskui/internal/db"
	"github.com/tgienger/taskui/internal/logging"
	"github.com/tgienger/taskui/internal/server"
)

var version = "dev"

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	var (
		configPath string
		addr       string
		dbPath     string
	)

	cmd := &cobra.Command{
		Use:     "taskd",
		Short:   "Task API server backed by sqlite",
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("db") {
				cfg.Server.DBPath = dbPath
			}
			return serve(cmd.Context(), cfg, stderr)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetErr(stderr)

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (default "+config.DefaultPath()+")")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.addr")
	cmd.Flags().StringVar(&dbPath, "db", "", "Database file, overrides server.db_path")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, stderr io.Writer) error {
	log, err := logging.NewJSON(cfg.Log, stderr)
	if err != nil {
		return err
	}

	path := cfg.Server.DBPath
	if path == "" {
		if path, err = db.DefaultPath("taskd.db"); err != nil {
			return fmt.Errorf("locating database: %w", err)
		}
	}
	database, err := db.Open(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler, err := server.New(database, log, cfg.Server, reg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).WithField("db", path).Info("taskd listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
