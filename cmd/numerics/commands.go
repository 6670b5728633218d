package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/njchilds90/gonumerics"
	"github.com/njchilds90/gonumerics/internal/config"
	"github.com/njchilds90/gonumerics/internal/server"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "numerics",
		Short:        "Root finding, linear systems, quadrature, ODEs and Taylor series",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(newServeCmd(opts), newSolveCmd(opts), newMethodsCmd())
	return root
}

// load reads the config and applies flag overrides.
func (o *rootOptions) load() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, nil, err
	}
	if o.logLevel != "" {
		if _, err := config.ParseLevel(o.logLevel); err != nil {
			return cfg, nil, err
		}
		cfg.Log.Level = o.logLevel
	}
	return cfg, cfg.Log.Logger(os.Stderr), nil
}

func newDispatcher(cfg config.Config, logger *slog.Logger) *gonumerics.Dispatcher {
	return gonumerics.NewDispatcher(
		gonumerics.WithLogger(logger),
		gonumerics.WithDefaults(cfg.Defaults),
	)
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solve API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	gin.SetMode(gin.ReleaseMode)
	h := server.NewHandlers(newDispatcher(cfg, logger), server.NewMetrics(), logger, cfg.Server.MaxBodyBytes)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("numerics server listening", slog.String("addr", cfg.Server.Addr))
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
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newSolveCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve one JSON request read from a file or stdin",
		Long: `Reads {"method": ..., "params": {...}} and writes the JSON response.
The command fails when the response reports success=false.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			in := cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("failed to open request file: %w", err)
				}
				defer f.Close()
				in = f
			}
			return runSolve(in, cmd.OutOrStdout(), newDispatcher(cfg, logger))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "request file, - for stdin")
	return cmd
}

func runSolve(in io.Reader, out io.Writer, d *gonumerics.Dispatcher) error {
	var req gonumerics.Request
	dec := json.NewDecoder(in)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	resp := d.Solve(req)
	body, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out, string(body)); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%s failed: %s", req.Method, resp.Err.Kind)
	}
	return nil
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "Print the JSON schema of every method",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), gonumerics.MethodSpec())
			return err
		},
	}
}
