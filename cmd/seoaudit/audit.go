package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Baillie11/seo/internal/analyzer"
	"github.com/Baillie11/seo/internal/audit"
	"github.com/Baillie11/seo/internal/config"
	"github.com/Baillie11/seo/internal/enhanced"
	"github.com/Baillie11/seo/internal/fetch"
	"github.com/Baillie11/seo/internal/history"
	seolog "github.com/Baillie11/seo/internal/log"
	"github.com/Baillie11/seo/internal/model"
	"github.com/Baillie11/seo/internal/pdf"
	"github.com/Baillie11/seo/internal/report"
	"github.com/spf13/cobra"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [url]",
		Short: "Analyze a web page for on-page SEO quality",
		Long: `Audit fetches a web page and analyzes it for on-page SEO quality.

It runs rule-based analyzers for:
- Meta tags (title, description, Open Graph, canonical)
- Heading structure and content quality
- Image alt attributes and link structure
- Technical checks (HTTPS, response time, page size)

The enhanced pass adds competitor comparison, keyword density,
mobile friendliness, page speed insights, and prioritized
recommendations.

Examples:
  # Analyze a website
  seoaudit audit example.com

  # Select specific categories
  seoaudit audit --categories "On-Page SEO,Content SEO" example.com

  # Enhanced analysis with keywords and competitors
  seoaudit audit --enhanced -k "coffee,espresso" --competitors rival.com example.com

  # Output JSON report and skip PDF rendering
  seoaudit audit --json --no-pdf example.com

  # Use a custom configuration file
  seoaudit audit -c myconfig.yaml example.com

Configuration file (.seoaudit) example:
  sites:
    example.com:
      keywords:
        - coffee
        - espresso
      competitors:
        - rival.com
  defaults:
    categories:
      - Technical SEO
      - On-Page SEO`,
		Args: cobra.ExactArgs(1),
		RunE: runAuditCmd,
	}

	// Analysis behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for fetching the page")
	cmd.Flags().StringSlice("categories", nil,
		"Analysis categories to run (default: all)")
	cmd.Flags().StringSliceP("keywords", "k", nil,
		"Target keywords for density analysis")
	cmd.Flags().StringSlice("competitors", nil,
		"Competitor URLs for the enhanced comparison")
	cmd.Flags().BoolP("enhanced", "e", false,
		"Run the enhanced analysis pass")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seoaudit in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().String("reports-dir", config.DefaultReportsDir,
		"Directory PDF reports are written into")
	cmd.Flags().Bool("no-pdf", false,
		"Skip PDF rendering")
	cmd.Flags().Bool("no-history", false,
		"Skip saving the run to the history database")

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := seolog.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runAudit(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.URL = args[0]
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.Categories, err = cmd.Flags().GetStringSlice("categories")
	if err != nil {
		return nil, err
	}

	cfg.Keywords, err = cmd.Flags().GetStringSlice("keywords")
	if err != nil {
		return nil, err
	}

	cfg.Competitors, err = cmd.Flags().GetStringSlice("competitors")
	if err != nil {
		return nil, err
	}

	cfg.Enhanced, err = cmd.Flags().GetBool("enhanced")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-site defaults from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.ReportsDir, err = cmd.Flags().GetString("reports-dir")
	if err != nil {
		return nil, err
	}

	cfg.NoPDF, err = cmd.Flags().GetBool("no-pdf")
	if err != nil {
		return nil, err
	}

	cfg.NoHistory, err = cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}

	// Run history lives in the XDG data directory
	cfg.HistoryDir = config.XDGDataDir()

	return cfg, nil
}

// applySiteConfig fills keywords, competitors, and categories from the
// per-site config file. CLI flags take precedence over file values.
func applySiteConfig(cfg *config.Config) {
	if cfg.SiteConfigs == nil {
		return
	}

	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return
	}

	siteConfig := cfg.SiteConfigs.GetSiteConfig(parsed.Host)
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = siteConfig.Keywords
	}
	if len(cfg.Competitors) == 0 {
		cfg.Competitors = siteConfig.Competitors
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = siteConfig.Categories
	}
}

// runAudit executes the analysis.
func runAudit(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	normalized, err := fetch.NormalizeURL(cfg.URL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", cfg.URL, err)
	}
	cfg.URL = normalized

	applySiteConfig(cfg)

	selected := cfg.Categories
	if len(selected) == 0 {
		selected = analyzer.DefaultRegistry().Categories()
	}

	logger.Info("starting analysis",
		"website", cfg.URL,
		"categories", selected,
		"enhanced", cfg.Enhanced,
	)

	fetcher := fetch.NewClient(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithPrecheckTimeout(config.DefaultPrecheckTimeout),
		fetch.WithUserAgent(config.DefaultUserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	)
	orchestrator := audit.New(fetcher, audit.WithLogger(logger))

	fmt.Printf("Analyzing %s...\n", cfg.URL)
	startTime := time.Now()

	result := orchestrator.Run(ctx, cfg.URL, selected, cfg.Keywords)

	if cfg.Enhanced && !result.Failed() {
		coordinator := enhanced.NewCoordinator(fetcher,
			enhanced.WithLogger(logger),
			enhanced.WithCompetitorLimit(config.DefaultCompetitorLimit),
			enhanced.WithResourceLimit(config.DefaultResourceLimit),
		)
		result.Enhanced = coordinator.Run(ctx, cfg.URL, cfg.Competitors, cfg.Keywords)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Analysis completed in %s\n\n", elapsed.Round(time.Millisecond))

	// Generate and output report
	if err := outputReport(cfg, result); err != nil {
		logger.Error("report failed", "website", cfg.URL, "error", err)
	}

	// Render the PDF report
	var pdfFilename string
	if !cfg.NoPDF {
		renderer := pdf.NewRenderer(
			pdf.WithOutputDir(cfg.ReportsDir),
			pdf.WithLogger(logger),
		)
		doc, err := renderer.Render(result, selected)
		if err != nil {
			logger.Error("pdf rendering failed", "website", cfg.URL, "error", err)
			fmt.Fprintf(os.Stderr, "PDF rendering failed: %v\n", err)
		} else {
			pdfFilename = doc.Filename
			fmt.Printf("PDF report saved: %s\n", doc.Path)
		}
	}

	// Save to the history database
	if !cfg.NoHistory {
		if err := saveRun(ctx, cfg, result, pdfFilename, logger); err != nil {
			logger.Error("failed to save run history", "website", cfg.URL, "error", err)
		}
	}

	return nil
}

// saveRun persists the analysis run to the history database.
func saveRun(ctx context.Context, cfg *config.Config, result *model.Report, pdfFilename string, logger *slog.Logger) error {
	store, err := history.Open(cfg.HistoryDir, history.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	id, err := store.Save(ctx, result, pdfFilename)
	if err != nil {
		return err
	}

	count, err := store.CountForURL(ctx, result.URL)
	if err != nil {
		count = 0
	}

	logger.Debug("saved run history", "id", id, "runs_for_site", count, "dir", cfg.HistoryDir)
	return nil
}

// outputReport outputs the analysis report in the requested format.
func outputReport(cfg *config.Config, result *model.Report) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with owner-only permissions.
		// Reports can reveal what sites the user is auditing.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output (detailed report with all data)
	if cfg.JSONReport {
		writer := report.NewJSONWriter(output, report.WithPrettyPrint())
		_, err := writer.Write(result)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(result)
		return err
	}

	// Human-readable report (default)
	writer := report.NewSimpleWriter(output)
	_, err := writer.Write(result)
	return err
}
