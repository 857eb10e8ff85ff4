package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Baillie11/seo/internal/fetch"
	"github.com/Baillie11/seo/internal/model"
)

// AnalyzeMetaKeywords audits the meta keywords tag: whether one
// exists, what keywords the page content itself suggests, and the
// density of the keywords under audit. KeywordAware: when the user
// supplied target keywords, those are audited instead of the
// generated set.
func AnalyzeMetaKeywords(_ context.Context, _ *fetch.Result, doc *goquery.Document, actx Context) (model.Value, error) {
	existing := existingMetaKeywords(doc)
	text := seoText(doc)
	generated := generatedKeywords(text)

	audited := actx.Keywords
	if len(audited) == 0 {
		if len(existing) > 0 {
			audited = existing
		} else {
			audited = generated
		}
	}

	density := model.Mapping()
	totalWords := WordCount(text)
	for _, kw := range audited {
		count := strings.Count(strings.ToLower(text), strings.ToLower(kw))
		pct := 0.0
		if totalWords > 0 {
			pct = float64(count) / float64(totalWords) * 100
		}
		density = density.Append(kw, model.Mapping(
			model.Pair("Count", model.Int(count)),
			model.Pair("Density", model.Stringf("%.2f%%", pct)),
		))
	}

	status := "bad" // no meta keywords present
	if len(existing) > 0 {
		switch {
		case len(existing) < 5 || len(existing) > 20:
			status = "warning"
		default:
			status = "good"
		}
	}

	existingValue := model.Value{}
	if len(existing) > 0 {
		existingValue = model.StringList(existing)
	} else {
		existingValue = model.String("None found")
	}

	htmlTag := ""
	if len(generated) > 0 {
		htmlTag = fmt.Sprintf(`<meta name="keywords" content="%s">`, strings.Join(generated, ", "))
	}

	return model.Mapping(
		model.Pair("Existing Keywords", model.Mapping(
			model.Pair("Present", model.Bool(len(existing) > 0)),
			model.Pair("Keywords", existingValue),
			model.Pair("Count", model.Int(len(existing))),
			model.Pair("Status", model.String(status)),
		)),
		model.Pair("Generated Keywords", model.Mapping(
			model.Pair("Keywords", model.StringList(generated)),
			model.Pair("Count", model.Int(len(generated))),
			model.Pair("HTML Tag", model.String(htmlTag)),
		)),
		model.Pair("Keyword Density", density),
		model.Pair("Recommendations", model.StringList(keywordRecommendations(audited, text, totalWords))),
		model.Pair("Overall Status", model.String(status)),
	), nil
}

// existingMetaKeywords parses the comma-separated meta keywords tag.
func existingMetaKeywords(doc *goquery.Document) []string {
	content, ok := doc.Find(`meta[name="keywords"]`).First().Attr("content")
	if !ok || strings.TrimSpace(content) == "" {
		return nil
	}

	var keywords []string
	for _, kw := range strings.Split(content, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// seoText combines the SEO-weighted text surfaces: title, meta
// description, all headings, then body text.
func seoText(doc *goquery.Document) string {
	var sb strings.Builder
	sb.WriteString(doc.Find("title").First().Text())
	sb.WriteString(" ")
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		sb.WriteString(desc)
		sb.WriteString(" ")
	}
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		sb.WriteString(s.Text())
		sb.WriteString(" ")
	})
	sb.WriteString(DocumentText(doc))
	return sb.String()
}

// generatedKeywords extracts up to 15 candidate keywords that appear
// at least twice in the page's weighted text.
func generatedKeywords(text string) []string {
	top := TopKeywords(KeywordFrequencies(text, 3), 30)

	keywords := make([]string, 0, 15)
	for _, kc := range top {
		if kc.Count < 2 {
			continue
		}
		keywords = append(keywords, kc.Word)
		if len(keywords) == 15 {
			break
		}
	}
	return keywords
}

// keywordRecommendations applies the density policy to the audited
// keyword set.
func keywordRecommendations(keywords []string, text string, totalWords int) []string {
	if len(keywords) == 0 {
		return []string{"No suitable keywords found. Consider adding more descriptive content to your page."}
	}

	var recs []string
	if len(keywords) < 5 {
		recs = append(recs, "Consider adding more relevant keywords. Aim for 5-15 keywords that represent your content.")
	}
	if len(keywords) > 20 {
		recs = append(recs, "You have many keywords. Consider focusing on the most relevant 10-15 keywords.")
	}

	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if totalWords == 0 {
			break
		}
		density := float64(strings.Count(lower, strings.ToLower(kw))) / float64(totalWords) * 100
		switch {
		case density > rules.KeywordStuffingDensity:
			recs = append(recs, fmt.Sprintf("Keyword %q has high density (%.2f%%). Consider reducing usage to avoid over-optimization.", kw, density))
		case density < rules.KeywordLowDensity:
			recs = append(recs, fmt.Sprintf("Keyword %q has low density (%.2f%%). Consider using it more naturally in your content.", kw, density))
		}
	}

	if len(recs) == 0 {
		recs = append(recs, "Your keyword usage appears to be well-balanced.")
	}
	return recs
}
