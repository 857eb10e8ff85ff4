package enhanced

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Baillie11/seo/internal/analyzer"
	"github.com/Baillie11/seo/internal/fetch"
	"github.com/Baillie11/seo/internal/model"
)

// rules is the shared audit policy table. Enhanced analyzers apply
// the same thresholds as the standard categories.
var rules = analyzer.DefaultRules()

// keywordSuggestions analyzes current keyword usage on the page and
// suggests related keywords drawn from the paragraphs where the
// target keywords appear.
func (c *Coordinator) keywordSuggestions(ctx context.Context, rawURL string, mainKeywords []string) (model.Value, error) {
	_, doc, err := c.fetchDocument(ctx, rawURL)
	if err != nil {
		return model.Value{}, err
	}

	text := analyzer.DocumentText(doc)
	totalWords := analyzer.WordCount(text)

	top := analyzer.TopKeywords(analyzer.KeywordFrequencies(text, 3), 20)
	density := model.Mapping()
	densityByWord := make(map[string]float64, len(top))
	topWords := make([]string, 0, len(top))
	for _, kc := range top {
		pct := 0.0
		if totalWords > 0 {
			pct = float64(kc.Count) / float64(totalWords) * 100
		}
		density = density.Append(kc.Word, model.Float(pct))
		densityByWord[kc.Word] = pct
		topWords = append(topWords, kc.Word)
	}

	suggested := suggestRelated(doc, mainKeywords)

	var underused []string
	topSet := make(map[string]bool, len(topWords))
	for _, w := range topWords {
		topSet[w] = true
	}
	for _, kw := range mainKeywords {
		if !topSet[strings.ToLower(kw)] {
			underused = append(underused, kw)
		}
	}

	var overused []string
	for _, w := range topWords {
		if densityByWord[w] > rules.KeywordStuffingDensity {
			overused = append(overused, w)
		}
	}

	return model.Mapping(
		model.Pair("current_keywords", model.Mapping(
			model.Pair("total_words", model.Int(totalWords)),
			model.Pair("keyword_density", density),
			model.Pair("top_keywords", model.StringList(topWords)),
		)),
		model.Pair("suggested_keywords", model.StringList(suggested)),
		model.Pair("recommendations", model.Mapping(
			model.Pair("underused_keywords", model.StringList(underused)),
			model.Pair("overused_keywords", model.StringList(overused)),
		)),
	), nil
}

// suggestRelated collects keywords co-occurring with the main
// keywords inside the same paragraph, excluding the main keywords
// themselves. Returns at most ten suggestions, sorted for
// deterministic output.
func suggestRelated(doc *goquery.Document, mainKeywords []string) []string {
	mainSet := make(map[string]bool, len(mainKeywords))
	for _, kw := range mainKeywords {
		mainSet[strings.ToLower(kw)] = true
	}

	related := make(map[string]bool)
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := strings.ToLower(s.Text())
		for kw := range mainSet {
			if !strings.Contains(text, kw) {
				continue
			}
			for word := range analyzer.KeywordFrequencies(text, 3) {
				if !mainSet[word] {
					related[word] = true
				}
			}
			break
		}
	})

	words := make([]string, 0, len(related))
	for w := range related {
		words = append(words, w)
	}
	sort.Strings(words)
	if len(words) > 10 {
		words = words[:10]
	}
	return words
}

// fetchDocument fetches and parses a URL, normalizing first.
// Shared by the enhanced analyzers, each of which fetches the page
// independently so one analyzer's failure cannot poison another's
// input.
func (c *Coordinator) fetchDocument(ctx context.Context, rawURL string) (*fetch.Result, *goquery.Document, error) {
	normalized, err := fetch.NormalizeURL(rawURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid url %q", rawURL)
	}

	res, err := c.fetcher.Fetch(ctx, normalized)
	if err != nil {
		return nil, nil, fmt.Errorf("could not fetch %s", normalized)
	}

	doc, err := res.Document()
	if err != nil {
		return nil, nil, fmt.Errorf("could not parse %s", normalized)
	}

	return res, doc, nil
}
