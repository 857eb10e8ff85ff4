package enhanced

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Baillie11/seo/internal/fetch"
	"github.com/Baillie11/seo/internal/model"
)

// Section names under which enhanced results appear in reports.
// A failed analyzer appears under the matching *_error name instead.
const (
	SectionCompetitor      = "competitor_analysis"
	SectionCompetitorError = "competitor_error"
	SectionKeywords        = "keyword_suggestions"
	SectionKeywordsError   = "keyword_error"
	SectionRecommendations = "ai_recommendations"
	SectionRecommendError  = "ai_error"
	SectionMobile          = "mobile_analysis"
	SectionMobileError     = "mobile_error"
	SectionSpeed           = "speed_insights"
	SectionSpeedError      = "speed_error"
)

// Coordinator runs the enhanced analyzers concurrently against a URL.
type Coordinator struct {
	// fetcher performs all outbound requests.
	fetcher *fetch.Client

	// logger for structured logging.
	logger *slog.Logger

	// competitorLimit bounds concurrent competitor fetches.
	competitorLimit int

	// resourceLimit bounds concurrent resource HEAD checks in the
	// speed analyzer.
	resourceLimit int
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithCompetitorLimit bounds concurrent competitor fetches.
// Default is 5.
func WithCompetitorLimit(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.competitorLimit = n
		}
	}
}

// WithResourceLimit bounds concurrent resource size checks.
// Default is 10.
func WithResourceLimit(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.resourceLimit = n
		}
	}
}

// NewCoordinator creates a Coordinator using the given fetch client.
func NewCoordinator(fetcher *fetch.Client, opts ...Option) *Coordinator {
	c := &Coordinator{
		fetcher:         fetcher,
		competitorLimit: 5,
		resourceLimit:   10,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// job is one enhanced analyzer scheduled by Run.
type job struct {
	// name is the section name on success.
	name string

	// errName is the section name on failure.
	errName string

	// run executes the analyzer.
	run func(ctx context.Context) (model.Value, error)
}

// Run executes the enhanced analyzers concurrently and returns their
// sections in a fixed order. Analyzers whose required input is empty
// are skipped entirely: competitor comparison needs competitor URLs,
// keyword suggestion needs keywords. The remaining three always run.
//
// Design decision: each job absorbs its own failure and records it in
// its result slot, so errgroup's cancellation never fires. We still
// use errgroup rather than a bare WaitGroup for consistency with how
// concurrent fan-out is written elsewhere in this codebase.
func (c *Coordinator) Run(ctx context.Context, url string, competitors, keywords []string) []model.Section {
	jobs := make([]job, 0, 5)

	if len(competitors) > 0 {
		jobs = append(jobs, job{
			name:    SectionCompetitor,
			errName: SectionCompetitorError,
			run: func(ctx context.Context) (model.Value, error) {
				return c.compareWebsites(ctx, url, competitors)
			},
		})
	}

	if len(keywords) > 0 {
		jobs = append(jobs, job{
			name:    SectionKeywords,
			errName: SectionKeywordsError,
			run: func(ctx context.Context) (model.Value, error) {
				return c.keywordSuggestions(ctx, url, keywords)
			},
		})
	}

	jobs = append(jobs,
		job{
			name:    SectionRecommendations,
			errName: SectionRecommendError,
			run: func(ctx context.Context) (model.Value, error) {
				return c.recommendations(ctx, url)
			},
		},
		job{
			name:    SectionMobile,
			errName: SectionMobileError,
			run: func(ctx context.Context) (model.Value, error) {
				return c.mobileFriendliness(ctx, url)
			},
		},
		job{
			name:    SectionSpeed,
			errName: SectionSpeedError,
			run: func(ctx context.Context) (model.Value, error) {
				return c.speedInsights(ctx, url)
			},
		},
	)

	sections := make([]model.Section, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		g.Go(func() error {
			sections[i] = c.runJob(gctx, j)
			return nil
		})
	}
	_ = g.Wait() // jobs never return errors; failures live in their sections

	return sections
}

// runJob executes one analyzer with panic and error isolation.
func (c *Coordinator) runJob(ctx context.Context, j job) (section model.Section) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("enhanced analyzer panicked",
				"analyzer", j.name,
				"panic", r,
			)
			section = model.Section{
				Name:   j.errName,
				Result: model.Errorf("analysis failed unexpectedly"),
			}
		}
	}()

	c.logger.Debug("running enhanced analyzer", "analyzer", j.name)

	value, err := j.run(ctx)
	if err != nil {
		c.logger.Warn("enhanced analyzer failed",
			"analyzer", j.name,
			"error", err,
		)
		return model.Section{Name: j.errName, Result: model.Errorf("%v", err)}
	}

	return model.Section{Name: j.name, Result: value}
}
