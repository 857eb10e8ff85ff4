package enhanced

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Baillie11/seo/internal/analyzer"
	"github.com/Baillie11/seo/internal/fetch"
	"github.com/Baillie11/seo/internal/model"
)

// siteAnalysis is the internal result of analyzing one site with the
// reduced analyzer subset. Numeric fields exist so the summary can
// compute averages without re-parsing display strings.
type siteAnalysis struct {
	URL         string
	OK          bool
	Message     string
	WordCount   int
	LoadSeconds float64
	HasMeta     bool
	Technical   model.Value
	Content     model.Value
	OnPage      model.Value
}

// compareWebsites fetches the main URL and every competitor in
// parallel, runs the reduced analyzer subset (technical, content,
// on-page) against each, and computes aggregate comparisons.
//
// Failure handling: a failed competitor is marked with its own error
// and excluded from averages. When every competitor fails the
// averages are omitted rather than divided by zero. When the main
// site itself fails, the comparison still returns but without the
// summary block.
func (c *Coordinator) compareWebsites(ctx context.Context, mainURL string, competitorURLs []string) (model.Value, error) {
	urls := append([]string{mainURL}, competitorURLs...)
	results := make([]siteAnalysis, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.competitorLimit)
	for i, u := range urls {
		g.Go(func() error {
			results[i] = c.analyzeSite(gctx, u)
			return nil
		})
	}
	_ = g.Wait() // per-site failures are recorded in their slots

	main := results[0]
	competitors := results[1:]

	competitorList := make([]model.Value, 0, len(competitors))
	for _, comp := range competitors {
		competitorList = append(competitorList, comp.toValue())
	}

	comparison := model.Mapping(
		model.Pair("main_site", main.toValue()),
		model.Pair("competitors", model.List(competitorList...)),
	)

	if !main.OK {
		return comparison, nil
	}

	summary := model.Mapping()

	// Averages divide only by successfully analyzed competitors.
	// When none succeeded there is nothing meaningful to average, so
	// the word_count and load_time blocks are omitted entirely.
	if succeeded := successful(competitors); len(succeeded) > 0 {
		var wordSum, loadSum float64
		for _, comp := range succeeded {
			wordSum += float64(comp.WordCount)
			loadSum += comp.LoadSeconds
		}
		n := float64(len(succeeded))

		summary = summary.Append("word_count", model.Mapping(
			model.Pair("main", model.Int(main.WordCount)),
			model.Pair("avg_competitors", model.Float(wordSum/n)),
		))
		summary = summary.Append("load_time", model.Mapping(
			model.Pair("main", model.Stringf("%.2f seconds", main.LoadSeconds)),
			model.Pair("avg_competitors", model.Float(loadSum/n)),
		))
	}

	summary = summary.Append("meta_tags", model.Mapping(
		model.Pair("main", model.Bool(main.HasMeta)),
		model.Pair("competitors_with_meta", model.Int(countWithMeta(competitors))),
	))

	return comparison.Append("summary", summary), nil
}

// analyzeSite fetches one URL and runs the reduced analyzer subset.
func (c *Coordinator) analyzeSite(ctx context.Context, rawURL string) siteAnalysis {
	normalized, err := fetch.NormalizeURL(rawURL)
	if err != nil {
		return siteAnalysis{URL: rawURL, Message: "invalid url"}
	}

	res, err := c.fetcher.Fetch(ctx, normalized)
	if err != nil {
		return siteAnalysis{URL: normalized, Message: "could not fetch site"}
	}

	doc, err := res.Document()
	if err != nil {
		return siteAnalysis{URL: normalized, Message: "could not parse site"}
	}

	actx := analyzer.Context{PageURL: res.FinalURL}
	technical, _ := analyzer.AnalyzeTechnical(ctx, res, doc, actx)
	content, _ := analyzer.AnalyzeContent(ctx, res, doc, actx)
	onPage, _ := analyzer.AnalyzeOnPage(ctx, res, doc, actx)

	hasMeta := false
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && desc != "" {
		hasMeta = true
	}

	return siteAnalysis{
		URL:         normalized,
		OK:          true,
		WordCount:   analyzer.WordCount(analyzer.DocumentText(doc)),
		LoadSeconds: res.Elapsed.Seconds(),
		HasMeta:     hasMeta,
		Technical:   technical,
		Content:     content,
		OnPage:      onPage,
	}
}

// toValue converts a site analysis into its report representation.
func (s siteAnalysis) toValue() model.Value {
	if !s.OK {
		return model.Mapping(
			model.Pair("url", model.String(s.URL)),
			model.Pair("status", model.String("error")),
			model.Pair("message", model.String(s.Message)),
		)
	}
	return model.Mapping(
		model.Pair("url", model.String(s.URL)),
		model.Pair("status", model.String("success")),
		model.Pair("technical", s.Technical),
		model.Pair("content", s.Content),
		model.Pair("onpage", s.OnPage),
	)
}

// successful filters the analyses that completed.
func successful(sites []siteAnalysis) []siteAnalysis {
	var ok []siteAnalysis
	for _, s := range sites {
		if s.OK {
			ok = append(ok, s)
		}
	}
	return ok
}

// countWithMeta counts successfully analyzed sites with a meta
// description.
func countWithMeta(sites []siteAnalysis) int {
	count := 0
	for _, s := range sites {
		if s.OK && s.HasMeta {
			count++
		}
	}
	return count
}
