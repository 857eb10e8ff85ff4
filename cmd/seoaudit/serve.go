package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Baillie11/seo/internal/audit"
	"github.com/Baillie11/seo/internal/config"
	"github.com/Baillie11/seo/internal/enhanced"
	"github.com/Baillie11/seo/internal/fetch"
	"github.com/Baillie11/seo/internal/history"
	seolog "github.com/Baillie11/seo/internal/log"
	"github.com/Baillie11/seo/internal/pdf"
	"github.com/Baillie11/seo/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis as a web service",
		Long: `Serve starts an HTTP server exposing the analysis over a JSON API.

Endpoints:
  POST /analyze               Run a full analysis, render the PDF
  GET  /download/:filename    Download a rendered PDF report
  POST /api/enhanced-analysis Run only the enhanced pass
  GET  /api/history           List recent analysis runs
  GET  /api/metrics-guide     Metrics reference used by the PDF appendix
  GET  /api/health            Health check

Environment variables are read from a .env file in the working
directory when present. PORT overrides the default listen port and
GIN_MODE selects the framework mode (debug, release, test).

Examples:
  # Listen on the default address (:5000)
  seoaudit serve

  # Listen on a custom address
  seoaudit serve --addr :8080`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().String("addr", "",
		"Listen address (default: PORT environment variable, then :5000)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for fetching analyzed pages")
	cmd.Flags().String("reports-dir", config.DefaultReportsDir,
		"Directory PDF reports are written into")
	cmd.Flags().Bool("no-history", false,
		"Disable the run-history database")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	// Load environment from .env when present. A missing file is not
	// an error; deployments may configure the process directly.
	_ = godotenv.Load()

	verbose := getVerboseFlag(cmd)
	logger := seolog.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Gin defaults to debug mode with noisy output. Respect an
	// explicit GIN_MODE, otherwise follow the verbose flag.
	if os.Getenv(gin.EnvGinMode) == "" {
		if verbose {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
	}

	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	if addr == "" {
		addr = listenAddr()
	}

	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}

	reportsDir, err := cmd.Flags().GetString("reports-dir")
	if err != nil {
		return err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return err
	}

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, stopping server...")
		cancel()
	}()

	fetcher := fetch.NewClient(
		fetch.WithTimeout(timeout),
		fetch.WithPrecheckTimeout(config.DefaultPrecheckTimeout),
		fetch.WithUserAgent(config.DefaultUserAgent),
		fetch.WithMaxBodySize(config.DefaultMaxBodySize),
	)
	orchestrator := audit.New(fetcher, audit.WithLogger(logger))
	coordinator := enhanced.NewCoordinator(fetcher,
		enhanced.WithLogger(logger),
		enhanced.WithCompetitorLimit(config.DefaultCompetitorLimit),
		enhanced.WithResourceLimit(config.DefaultResourceLimit),
	)
	renderer := pdf.NewRenderer(
		pdf.WithOutputDir(reportsDir),
		pdf.WithLogger(logger),
	)

	opts := []server.Option{server.WithLogger(logger)}

	// History persistence is best-effort: the server stays useful
	// even when the database cannot be opened.
	if !noHistory {
		store, err := history.Open(config.XDGDataDir(), history.DefaultOptions())
		if err != nil {
			logger.Warn("history database unavailable", "error", err)
		} else {
			defer store.Close()
			opts = append(opts, server.WithHistory(store))
		}
	}

	srv := server.New(orchestrator, coordinator, renderer, reportsDir, opts...)

	fmt.Printf("Listening on %s\n", addr)
	return srv.Run(ctx, addr)
}

// listenAddr resolves the listen address from the environment.
func listenAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return config.DefaultServerAddr
}
