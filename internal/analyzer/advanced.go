package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Baillie11/seo/internal/fetch"
	"github.com/Baillie11/seo/internal/model"
)

// AnalyzeAdvancedContent performs the deeper content checks: keyword
// frequency, heading hierarchy, broken-link sampling, and the
// content-to-HTML ratio.
//
// The broken-link check issues HEAD sub-requests through the
// analyzer context's Checker. Each check is failure-isolated: an
// unreachable link counts as broken, it never propagates an error
// past the analyzer.
func AnalyzeAdvancedContent(ctx context.Context, res *fetch.Result, doc *goquery.Document, actx Context) (model.Value, error) {
	text := DocumentText(doc)
	words := WordCount(text)

	top := TopKeywords(KeywordFrequencies(text, 4), 5)
	topList := make([]model.Value, 0, len(top))
	for _, kc := range top {
		topList = append(topList, model.Stringf("%s (%d)", kc.Word, kc.Count))
	}

	headings := model.Mapping()
	for _, level := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		headings = headings.Append(level, model.Int(doc.Find(level).Length()))
	}

	broken := brokenLinks(ctx, doc, actx)
	brokenCount := len(broken)
	var brokenValue model.Value
	if brokenCount == 0 {
		brokenValue = model.String("None found")
	} else {
		if len(broken) > 5 {
			broken = broken[:5]
		}
		brokenValue = model.StringList(broken)
	}

	htmlSize := len(res.Body)
	ratio := 0.0
	if htmlSize > 0 {
		ratio = float64(len(text)) / float64(htmlSize) * 100
	}

	return model.Mapping(
		model.Pair("Word Count", model.Int(words)),
		model.Pair("Top Keywords", model.Value{Kind: model.KindList, List: topList}),
		model.Pair("Heading Structure", headings),
		model.Pair("Content-to-HTML Ratio", model.String(fmt.Sprintf("%.2f%%", ratio))),
		model.Pair("Broken Links Found", model.Int(brokenCount)),
		model.Pair("Broken Links", brokenValue),
	), nil
}

// brokenLinks samples the first N absolute links on the page and
// HEAD-checks each. A link is broken when the check fails or returns
// a 4xx/5xx status. Returns nil when no Checker is configured.
func brokenLinks(ctx context.Context, doc *goquery.Document, actx Context) []string {
	if actx.Checker == nil {
		return nil
	}

	var candidates []string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			candidates = append(candidates, href)
		}
		return len(candidates) < rules.BrokenLinkSample
	})

	var broken []string
	for _, link := range candidates {
		head, err := actx.Checker.Head(ctx, link)
		if err != nil || head.StatusCode >= 400 {
			broken = append(broken, link)
		}
	}
	return broken
}
