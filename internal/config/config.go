package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values match the audit policy the product shipped with.
const (
	// DefaultTimeout is the full-content fetch timeout. Audited pages
	// are on the public web, so 20 seconds covers slow shared hosting
	// without hanging the whole analysis.
	DefaultTimeout = 20 * time.Second

	// DefaultPrecheckTimeout is the short timeout used for reachability
	// pre-checks and resource HEAD requests.
	DefaultPrecheckTimeout = 5 * time.Second

	// DefaultCompetitorLimit bounds concurrent fetches during
	// competitor comparison. Five keeps the fan-out polite toward
	// arbitrary third-party hosts.
	DefaultCompetitorLimit = 5

	// DefaultResourceLimit bounds concurrent resource HEAD checks in
	// the speed analyzer.
	DefaultResourceLimit = 10

	// AppName is the application name used for XDG directory paths.
	AppName = "seoaudit"

	// DefaultUserAgent identifies the auditor in HTTP requests.
	// A descriptive User-Agent lets site operators identify the
	// traffic in their logs.
	DefaultUserAgent = "seoaudit/1.0 (+https://github.com/Baillie11/seo)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for any reasonable HTML page while preventing
	// memory exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultReportsDir is the directory rendered PDF reports are
	// written into, relative to the working directory.
	DefaultReportsDir = "reports"

	// DefaultServerAddr is the address the web server listens on.
	DefaultServerAddr = ":5000"
)

// Config holds all configuration options for an audit run.
// This struct is designed to be populated from CLI flags and passed
// through the application via dependency injection rather than global
// state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FetchConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// URL is the website to analyze. Scheme is optional; https is
	// assumed when absent.
	URL string

	// Categories selects which analysis categories run. Empty means
	// all registered categories.
	Categories []string

	// Keywords are the target keywords for density analysis.
	Keywords []string

	// Competitors are competitor URLs for the enhanced comparison.
	Competitors []string

	// Enhanced enables the enhanced analysis pass (competitor,
	// keyword, mobile, speed, recommendation analyzers).
	Enhanced bool

	// Timeout is the full-content fetch timeout.
	Timeout time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .seoaudit in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-site defaults loaded from the config file.
	SiteConfigs *File

	// JSONReport enables JSON report output instead of human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the on-screen report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// ReportsDir is the directory PDF reports are written into.
	ReportsDir string

	// NoPDF disables PDF rendering; only the on-screen report is
	// produced.
	NoPDF bool

	// HistoryDir is the directory for the run-history database.
	// When empty, the XDG data directory is used.
	HistoryDir string

	// NoHistory disables run-history persistence.
	NoHistory bool

	// ServerAddr is the listen address for serve mode.
	ServerAddr string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most
// use cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, the
// reports directory). This also serves as documentation of what the
// defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		ReportsDir:  DefaultReportsDir,
		ServerAddr:  DefaultServerAddr,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for the auditor.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/seoaudit
// On macOS: ~/Library/Application Support/seoaudit
// On Windows: %LOCALAPPDATA%\seoaudit
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the auditor.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any analysis begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrNoURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// Competitor URLs only matter for the enhanced pass
	if len(c.Competitors) > 0 && !c.Enhanced {
		return ErrCompetitorsWithoutEnhanced
	}

	return nil
}
