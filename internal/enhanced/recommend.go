package enhanced

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Baillie11/seo/internal/analyzer"
	"github.com/Baillie11/seo/internal/model"
)

// recommendation is one actionable finding with a severity level.
type recommendation struct {
	Priority string
	Category string
	Message  string
	Action   string
}

func (r recommendation) toValue() model.Value {
	return model.Mapping(
		model.Pair("priority", model.String(r.Priority)),
		model.Pair("category", model.String(r.Category)),
		model.Pair("message", model.String(r.Message)),
		model.Pair("action", model.String(r.Action)),
	)
}

// recommendations inspects content structure and readability and
// produces prioritized improvement advice.
func (c *Coordinator) recommendations(ctx context.Context, rawURL string) (model.Value, error) {
	res, doc, err := c.fetchDocument(ctx, rawURL)
	if err != nil {
		return model.Value{}, err
	}

	var recs []recommendation
	recs = append(recs, structureRecommendations(res.FinalURL, doc)...)
	recs = append(recs, readabilityRecommendations(doc)...)

	var critical, warnings, suggestions []model.Value
	for _, r := range recs {
		switch r.Priority {
		case "critical":
			critical = append(critical, r.toValue())
		case "warning":
			warnings = append(warnings, r.toValue())
		default:
			suggestions = append(suggestions, r.toValue())
		}
	}

	return model.Mapping(
		model.Pair("critical", model.List(critical...)),
		model.Pair("warnings", model.List(warnings...)),
		model.Pair("suggestions", model.List(suggestions...)),
		model.Pair("summary", model.Mapping(
			model.Pair("critical_count", model.Int(len(critical))),
			model.Pair("warning_count", model.Int(len(warnings))),
			model.Pair("suggestion_count", model.Int(len(suggestions))),
		)),
	), nil
}

// structureRecommendations checks headings, content length, image alt
// coverage, and internal linking.
func structureRecommendations(pageURL string, doc *goquery.Document) []recommendation {
	var recs []recommendation

	h1Count := doc.Find("h1").Length()
	switch {
	case h1Count == 0:
		recs = append(recs, recommendation{
			Priority: "critical",
			Category: "content_structure",
			Message:  "Page has no H1 heading",
			Action:   "Add a single H1 heading that describes the page topic",
		})
	case h1Count > 1:
		recs = append(recs, recommendation{
			Priority: "warning",
			Category: "content_structure",
			Message:  fmt.Sprintf("Page has %d H1 headings", h1Count),
			Action:   "Use exactly one H1 heading per page",
		})
	}

	words := analyzer.WordCount(analyzer.DocumentText(doc))
	if words < rules.MinWordCount {
		recs = append(recs, recommendation{
			Priority: "warning",
			Category: "content_structure",
			Message:  fmt.Sprintf("Content is thin (%d words)", words),
			Action:   fmt.Sprintf("Expand the content to at least %d words", rules.MinWordCount),
		})
	}

	missingAlt := 0
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if alt, ok := s.Attr("alt"); !ok || strings.TrimSpace(alt) == "" {
			missingAlt++
		}
	})
	if missingAlt > 0 {
		recs = append(recs, recommendation{
			Priority: "warning",
			Category: "content_structure",
			Message:  fmt.Sprintf("%d images are missing alt text", missingAlt),
			Action:   "Add descriptive alt text to every image",
		})
	}

	if internal := internalLinkCount(pageURL, doc); internal < 2 {
		recs = append(recs, recommendation{
			Priority: "suggestion",
			Category: "content_structure",
			Message:  fmt.Sprintf("Only %d internal links found", internal),
			Action:   "Link to related pages on the same site",
		})
	}

	return recs
}

// readabilityRecommendations checks sentence and paragraph length.
func readabilityRecommendations(doc *goquery.Document) []recommendation {
	var recs []recommendation

	text := analyzer.DocumentText(doc)
	sentences := splitSentences(text)
	if len(sentences) > 0 {
		total := 0
		for _, s := range sentences {
			total += analyzer.WordCount(s)
		}
		avg := float64(total) / float64(len(sentences))
		if avg > maxAvgSentenceWords {
			recs = append(recs, recommendation{
				Priority: "warning",
				Category: "readability",
				Message:  fmt.Sprintf("Sentences average %.1f words", avg),
				Action:   "Break long sentences up to improve readability",
			})
		}
	}

	longParagraphs := 0
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if analyzer.WordCount(s.Text()) > maxParagraphWords {
			longParagraphs++
		}
	})
	if longParagraphs > 0 {
		recs = append(recs, recommendation{
			Priority: "suggestion",
			Category: "readability",
			Message:  fmt.Sprintf("%d paragraphs exceed %d words", longParagraphs, maxParagraphWords),
			Action:   "Split long paragraphs into shorter ones",
		})
	}

	return recs
}

const (
	maxAvgSentenceWords = 20
	maxParagraphWords   = 100
)

// splitSentences breaks text at terminal punctuation, keeping only
// fragments that contain words.
func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// internalLinkCount counts anchors resolving to the page's own host.
func internalLinkCount(pageURL string, doc *goquery.Document) int {
	base, err := url.Parse(pageURL)
	if err != nil {
		return 0
	}

	count := 0
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Host == base.Host {
			count++
		}
	})
	return count
}
