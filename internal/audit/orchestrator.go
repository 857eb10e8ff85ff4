package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Baillie11/seo/internal/analyzer"
	"github.com/Baillie11/seo/internal/fetch"
	"github.com/Baillie11/seo/internal/model"
)

// User-facing fetch failure messages. One message per error kind;
// raw transport errors never reach the report.
const (
	msgTimeout       = "Website took too long to respond (timeout: 20 seconds)"
	msgConnection    = "Could not establish connection to the website"
	msgBothSchemes   = "Could not connect to website via HTTP or HTTPS"
	msgInsecureHTTP  = "Website is using unsecure HTTP protocol"
	msgInvalidURL    = "The supplied URL is not valid"
	msgGenericFailed = "Failed to analyze the website"
)

// errBothSchemesFailed marks the case where the https fetch failed on
// TLS and the plain-HTTP retry failed too.
var errBothSchemesFailed = errors.New(msgBothSchemes)

// Orchestrator runs the standard category analyzers against one
// fetched document and produces a Report.
//
// Design decision: standard analyzers run sequentially, not
// concurrently. They are CPU-cheap single-pass tree inspections, and
// sequential execution gives the registration-order guarantee for
// free. The network-bound enhanced analyzers live in the enhanced
// package and do run concurrently.
type Orchestrator struct {
	// fetcher performs the document fetch and analyzer sub-requests.
	fetcher *fetch.Client

	// registry is the fixed analyzer registry.
	registry *analyzer.Registry

	// logger for structured run logging.
	logger *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithRegistry replaces the default analyzer registry.
// Intended for tests that need to inject failing analyzers.
func WithRegistry(r *analyzer.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = r
	}
}

// New creates an Orchestrator using the given fetch client.
func New(fetcher *fetch.Client, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		fetcher:  fetcher,
		registry: analyzer.DefaultRegistry(),
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}

// Registry returns the orchestrator's analyzer registry.
func (o *Orchestrator) Registry() *analyzer.Registry {
	return o.registry
}

// Run analyzes the given URL for the selected categories.
//
// Selected names that don't match a registered analyzer are silently
// ignored. Categories appear in the report in registration order
// regardless of the selection's order. The returned report is always
// non-nil: fetch failures are reported through Report.Err, analyzer
// failures through per-category error markers.
func (o *Orchestrator) Run(ctx context.Context, rawURL string, selected []string, keywords []string) *model.Report {
	normalized, err := fetch.NormalizeURL(rawURL)
	if err != nil {
		report := model.NewReport(strings.TrimSpace(rawURL))
		report.Err = msgInvalidURL
		return report
	}

	report := model.NewReport(normalized)

	res, err := o.fetchWithFallback(ctx, report, normalized)
	if err != nil {
		report.Err = fetchFailureMessage(err)
		o.logger.Warn("analysis aborted: fetch failed",
			"url", normalized,
			"error", err,
		)
		return report
	}

	doc, err := res.Document()
	if err != nil {
		report.Err = msgGenericFailed
		o.logger.Warn("analysis aborted: unparseable document",
			"url", normalized,
			"error", err,
		)
		return report
	}

	want := make(map[string]bool, len(selected))
	for _, name := range selected {
		want[name] = true
	}

	for _, unit := range o.registry.Units() {
		if !want[unit.Name] {
			continue
		}
		report.AddCategory(unit.Name, o.invoke(ctx, unit, res, doc, keywords))
	}

	return report
}

// fetchWithFallback fetches the URL, retrying once over plain HTTP
// when the https fetch fails with a TLS error. A successful fallback
// records the insecure-protocol warning on the report.
func (o *Orchestrator) fetchWithFallback(ctx context.Context, report *model.Report, pageURL string) (*fetch.Result, error) {
	res, err := o.fetcher.Fetch(ctx, pageURL)
	if err == nil {
		return res, nil
	}

	if !errors.Is(err, fetch.ErrTLSFailed) || !strings.HasPrefix(pageURL, "https://") {
		return nil, err
	}

	o.logger.Info("tls failure, retrying over plain http", "url", pageURL)

	httpURL := "http://" + strings.TrimPrefix(pageURL, "https://")
	res, httpErr := o.fetcher.Fetch(ctx, httpURL)
	if httpErr != nil {
		return nil, fmt.Errorf("%w: %v", errBothSchemesFailed, httpErr)
	}

	res.UsedInsecureFallback = true
	report.URL = httpURL
	report.AddWarning(msgInsecureHTTP)
	return res, nil
}

// invoke runs one analyzer with full failure isolation: both returned
// errors and panics are downgraded to an error marker for that
// category only.
func (o *Orchestrator) invoke(ctx context.Context, unit analyzer.Unit, res *fetch.Result, doc *goquery.Document, keywords []string) (result model.Value) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("analyzer panicked",
				"category", unit.Name,
				"panic", r,
			)
			result = model.Errorf("%s analysis failed", unit.Name)
		}
	}()

	actx := analyzer.Context{Checker: o.fetcher}
	switch unit.Kind {
	case analyzer.URLAware:
		actx.PageURL = res.FinalURL
	case analyzer.KeywordAware:
		actx.Keywords = keywords
	case analyzer.Standard:
		// no extra context
	}

	value, err := unit.Analyze(ctx, res, doc, actx)
	if err != nil {
		o.logger.Warn("analyzer failed",
			"category", unit.Name,
			"error", err,
		)
		return model.Errorf("%s analysis failed: %v", unit.Name, err)
	}

	return value
}

// fetchFailureMessage maps a classified fetch error to its
// user-facing message.
func fetchFailureMessage(err error) string {
	switch {
	case errors.Is(err, errBothSchemesFailed):
		return msgBothSchemes
	case errors.Is(err, fetch.ErrTimeout):
		return msgTimeout
	case errors.Is(err, fetch.ErrConnectionFailed):
		return msgConnection
	case errors.Is(err, fetch.ErrInvalidURL):
		return msgInvalidURL
	default:
		return msgGenericFailed
	}
}
