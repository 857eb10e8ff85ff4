// Package metrics provides the static reference guide describing each
// SEO metric, its thresholds, and why it matters. The guide is embedded
// at build time and rendered as the final appendix of every report.
package metrics

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed metrics.yaml
var guideYAML []byte

// Metric describes one metric's thresholds and rationale.
type Metric struct {
	// Name is the display name of the metric.
	Name string `yaml:"name" json:"name"`

	// Description explains what the metric measures.
	Description string `yaml:"description" json:"description"`

	// Good describes the passing range.
	Good string `yaml:"good" json:"good"`

	// Warning describes the borderline range. Empty for binary metrics.
	Warning string `yaml:"warning,omitempty" json:"warning,omitempty"`

	// Bad describes the failing range.
	Bad string `yaml:"bad" json:"bad"`

	// Why explains the metric's impact on rankings or users.
	Why string `yaml:"why" json:"why"`
}

// Category groups related metrics under a report category name.
type Category struct {
	// Name is the category heading.
	Name string `yaml:"name" json:"name"`

	// Metrics are the category's metrics in display order.
	Metrics []Metric `yaml:"metrics" json:"metrics"`
}

// Guide is the full metrics reference in rendering order.
//
// Design decision: categories and metrics are slices rather than maps
// so the appendix renders in the same order on every run.
type Guide struct {
	Categories []Category `yaml:"categories" json:"categories"`
}

// Category returns the named category.
// The second return is false when the category is absent.
func (g *Guide) Category(name string) (Category, bool) {
	for _, c := range g.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

var load = sync.OnceValues(func() (*Guide, error) {
	var g Guide
	if err := yaml.Unmarshal(guideYAML, &g); err != nil {
		return nil, fmt.Errorf("failed to parse embedded metrics guide: %w", err)
	}
	return &g, nil
})

// Load returns the embedded metrics guide, parsing it on first call.
// The returned Guide is shared and must be treated as read-only.
func Load() (*Guide, error) {
	return load()
}
