package analyzer

import "time"

// Rules collects every numeric threshold the analyzers apply.
// These are business rules carried over from the product's original
// audit policy; do not change the numbers without product sign-off.
type Rules struct {
	// LoadTimeGood is the upper bound for a "Good" load time rating.
	LoadTimeGood time.Duration

	// LoadTimeAverage is the upper bound for an "Average" rating;
	// anything above is "Poor".
	LoadTimeAverage time.Duration

	// TitleMinLength and TitleMaxLength bound the recommended title
	// tag length band.
	TitleMinLength int
	TitleMaxLength int

	// MetaDescriptionMinLength and MetaDescriptionMaxLength bound the
	// recommended meta description band.
	MetaDescriptionMinLength int
	MetaDescriptionMaxLength int

	// MinWordCount is the minimum word count before content is
	// flagged as thin.
	MinWordCount int

	// KeywordStuffingDensity is the density percentage above which a
	// keyword counts as stuffed.
	KeywordStuffingDensity float64

	// KeywordLowDensity is the density percentage below which a
	// target keyword counts as underused.
	KeywordLowDensity float64

	// BrokenLinkSample is how many links the broken-link check
	// samples per page. Bounded so one page cannot trigger an
	// unbounded fan-out of HEAD requests.
	BrokenLinkSample int

	// MinFontSizePx is the smallest mobile-readable font size.
	MinFontSizePx int

	// MinTapTargetPx is the smallest recommended tap target dimension.
	MinTapTargetPx int

	// MaxPageSizeKB is the total page weight above which speed
	// insight raises a high-priority recommendation.
	MaxPageSizeKB float64

	// SlowLoadSeconds is the load time above which speed insight
	// raises a high-priority recommendation.
	SlowLoadSeconds float64

	// PassingScore is the score at or above which mobile and speed
	// scores render as passing.
	PassingScore int
}

// DefaultRules returns the audit policy table.
func DefaultRules() Rules {
	return Rules{
		LoadTimeGood:             2 * time.Second,
		LoadTimeAverage:          5 * time.Second,
		TitleMinLength:           50,
		TitleMaxLength:           60,
		MetaDescriptionMinLength: 150,
		MetaDescriptionMaxLength: 160,
		MinWordCount:             300,
		KeywordStuffingDensity:   5.0,
		KeywordLowDensity:        0.5,
		BrokenLinkSample:         10,
		MinFontSizePx:            12,
		MinTapTargetPx:           44,
		MaxPageSizeKB:            5000,
		SlowLoadSeconds:          3,
		PassingScore:             80,
	}
}

// rules is the package-wide policy table used by the analyzer bodies.
// A single shared value keeps the thresholds in one place without
// threading a Rules parameter through every analyzer signature.
var rules = DefaultRules()
