package model

import (
	"time"
)

// Section is one named block of the report: a category result or an
// enhanced analysis result. Sections are ordered; the orchestrator
// appends them in analyzer registration order.
type Section struct {
	// Name is the category or enhanced-analyzer name.
	Name string `json:"name"`

	// Result is the section payload. A KindError result means this
	// section failed independently of its siblings.
	Result Value `json:"result"`
}

// Report is the aggregated outcome of one analysis run.
// It is built incrementally by the orchestrator and must be treated
// as immutable once handed to a renderer.
type Report struct {
	// URL is the analyzed URL, always scheme-qualified.
	URL string `json:"url"`

	// AnalysisDate is when the analysis was performed.
	AnalysisDate time.Time `json:"analysis_date"`

	// Categories holds the per-category results in registration order.
	// Empty when the fetch itself failed.
	Categories []Section `json:"categories,omitempty"`

	// Enhanced holds optional enhanced-analysis results.
	Enhanced []Section `json:"enhanced,omitempty"`

	// Warnings are top-level notices, e.g. the insecure-fallback
	// warning when the site only responds over plain HTTP.
	Warnings []string `json:"warnings,omitempty"`

	// Err is the whole-analysis failure message. When non-empty the
	// report carries no category results and renderers emit only the
	// title, URL, and this message.
	Err string `json:"error,omitempty"`
}

// NewReport creates a report for the given URL stamped with the
// current time.
func NewReport(url string) *Report {
	return &Report{
		URL:          url,
		AnalysisDate: time.Now(),
	}
}

// Failed reports whether the whole analysis failed before any
// category could run.
func (r *Report) Failed() bool {
	return r.Err != ""
}

// AddCategory appends a category section.
func (r *Report) AddCategory(name string, result Value) {
	r.Categories = append(r.Categories, Section{Name: name, Result: result})
}

// AddWarning appends a top-level warning.
func (r *Report) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Category returns the named category result.
// The second return is false when the category is absent.
func (r *Report) Category(name string) (Value, bool) {
	for _, s := range r.Categories {
		if s.Name == name {
			return s.Result, true
		}
	}
	return Value{}, false
}

// EnhancedSection returns the named enhanced result.
func (r *Report) EnhancedSection(name string) (Value, bool) {
	for _, s := range r.Enhanced {
		if s.Name == name {
			return s.Result, true
		}
	}
	return Value{}, false
}

// ErrorCount counts category and enhanced sections that carry an
// error marker. Used by the history store for run summaries.
func (r *Report) ErrorCount() int {
	count := 0
	for _, s := range r.Categories {
		if s.Result.IsError() {
			count++
		}
	}
	for _, s := range r.Enhanced {
		if s.Result.IsError() {
			count++
		}
	}
	return count
}
