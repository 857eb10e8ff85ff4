package analyzer

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/Baillie11/seo/internal/fetch"
	"github.com/Baillie11/seo/internal/model"
)

// Category names. These are the public keys under which results appear
// in reports, so renaming one is a breaking change for consumers.
const (
	CategoryTechnical       = "Technical SEO"
	CategoryOnPage          = "On-Page SEO"
	CategoryContent         = "Content SEO"
	CategoryUserExperience  = "User Experience"
	CategorySecurity        = "Security"
	CategorySchemaMarkup    = "Schema Markup"
	CategoryAdvancedContent = "Advanced Content"
	CategoryMetaKeywords    = "Meta Keywords"
)

// Kind declares what extra context an analyzer expects beyond the
// fetch result and parsed document.
type Kind int

const (
	// Standard analyzers inspect only the response and markup.
	Standard Kind = iota

	// URLAware analyzers additionally receive the resolved page URL
	// (e.g. to classify internal vs. external links).
	URLAware

	// KeywordAware analyzers additionally receive the user-supplied
	// keyword list, which may be empty.
	KeywordAware
)

// Context carries the optional inputs an analyzer may need.
// Which fields are populated depends on the unit's Kind; the
// orchestrator fills them accordingly.
type Context struct {
	// PageURL is the scheme-qualified URL of the analyzed page.
	PageURL string

	// Keywords is the user-supplied keyword list, possibly empty.
	Keywords []string

	// Checker issues HEAD sub-requests for link and resource checks.
	// May be nil, in which case analyzers skip their network checks.
	Checker *fetch.Client
}

// Func is the analyzer contract. Implementations return a Value of
// their own shape, or an error which the orchestrator downgrades to
// an error marker for that category only.
type Func func(ctx context.Context, res *fetch.Result, doc *goquery.Document, actx Context) (model.Value, error)

// Unit is one registered analyzer.
type Unit struct {
	// Name is the unique category name.
	Name string

	// Kind declares the extra context the analyzer expects.
	Kind Kind

	// Analyze runs the check.
	Analyze Func
}

// Registry is the fixed, ordered list of analyzer units.
// Registration happens once at process start; the registry is
// read-only afterwards, which is what makes the orchestrator's
// ordering guarantee hold.
//
// Design decision: the registry keeps a slice (for order) plus an
// index map (for lookup) rather than an ordered map type. Both views
// are needed and the unit count is small.
type Registry struct {
	units []Unit
	index map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]int),
	}
}

// Register appends a unit. Registering a duplicate name replaces the
// earlier unit in place, keeping its position.
func (r *Registry) Register(unit Unit) {
	if i, ok := r.index[unit.Name]; ok {
		r.units[i] = unit
		return
	}
	r.index[unit.Name] = len(r.units)
	r.units = append(r.units, unit)
}

// Lookup returns the unit registered under the given name.
func (r *Registry) Lookup(name string) (Unit, bool) {
	i, ok := r.index[name]
	if !ok {
		return Unit{}, false
	}
	return r.units[i], true
}

// Categories returns all registered category names in registration
// order.
func (r *Registry) Categories() []string {
	names := make([]string, len(r.units))
	for i, u := range r.units {
		names[i] = u.Name
	}
	return names
}

// Units returns the registered units in registration order.
func (r *Registry) Units() []Unit {
	out := make([]Unit, len(r.units))
	copy(out, r.units)
	return out
}

// DefaultRegistry returns a registry with the eight built-in category
// analyzers in their canonical order. The order is part of the report
// contract: categories render in this sequence regardless of how the
// selection was supplied.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Unit{Name: CategoryTechnical, Kind: Standard, Analyze: AnalyzeTechnical})
	r.Register(Unit{Name: CategoryOnPage, Kind: Standard, Analyze: AnalyzeOnPage})
	r.Register(Unit{Name: CategoryContent, Kind: Standard, Analyze: AnalyzeContent})
	r.Register(Unit{Name: CategoryUserExperience, Kind: URLAware, Analyze: AnalyzeUserExperience})
	r.Register(Unit{Name: CategorySecurity, Kind: URLAware, Analyze: AnalyzeSecurity})
	r.Register(Unit{Name: CategorySchemaMarkup, Kind: Standard, Analyze: AnalyzeSchemaMarkup})
	r.Register(Unit{Name: CategoryAdvancedContent, Kind: Standard, Analyze: AnalyzeAdvancedContent})
	r.Register(Unit{Name: CategoryMetaKeywords, Kind: KeywordAware, Analyze: AnalyzeMetaKeywords})
	return r
}
