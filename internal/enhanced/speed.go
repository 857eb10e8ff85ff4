package enhanced

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/Baillie11/seo/internal/model"
)

// resourceInfo describes one sub-resource referenced by the page.
type resourceInfo struct {
	URL    string
	SizeKB float64
	// CacheControl is the resource's Cache-Control header, empty when
	// the HEAD check failed or the header is absent.
	CacheControl string
	// Checked is true when the HEAD request succeeded.
	Checked bool
}

// resourceTypes is the fixed rendering order of the breakdown table.
var resourceTypes = []string{"js", "css", "images", "fonts"}

// speedInsights analyzes page weight, render-blocking resources, and
// caching, then scores overall loading performance.
//
// Resource sizes come from HEAD requests executed through a bounded
// worker pool; a failed HEAD simply contributes zero size rather than
// failing the analysis.
func (c *Coordinator) speedInsights(ctx context.Context, rawURL string) (model.Value, error) {
	res, doc, err := c.fetchDocument(ctx, rawURL)
	if err != nil {
		return model.Value{}, err
	}

	loadTime := res.Elapsed.Seconds()
	resources := collectResources(doc)
	c.measureResources(ctx, res.FinalURL, resources)

	blocking := renderBlocking(doc)
	caching := cachingIssues(resources)

	totalKB := 0.0
	breakdown := model.Mapping()
	for _, typ := range resourceTypes {
		typeKB := 0.0
		for _, r := range resources[typ] {
			typeKB += r.SizeKB
		}
		totalKB += typeKB
		breakdown = breakdown.Append(typ, model.Float(typeKB))
	}

	recommendations := speedRecommendations(loadTime, totalKB, len(blocking), len(caching))

	score := 100
	if loadTime > rules.SlowLoadSeconds {
		score -= 20
	}
	if totalKB > rules.MaxPageSizeKB {
		score -= 20
	}
	score -= len(blocking) * 5
	score -= len(caching) * 5
	if score < 0 {
		score = 0
	}

	return model.Mapping(
		model.Pair("load_time", model.Float(loadTime)),
		model.Pair("page_size", model.Mapping(
			model.Pair("total", model.Float(totalKB)),
			model.Pair("breakdown", breakdown),
		)),
		model.Pair("blocking_resources", model.List(blocking...)),
		model.Pair("caching_issues", model.List(caching...)),
		model.Pair("recommendations", model.List(recommendations...)),
		model.Pair("performance_score", model.Int(score)),
	), nil
}

// collectResources gathers sub-resource URLs by type.
func collectResources(doc *goquery.Document) map[string][]*resourceInfo {
	resources := map[string][]*resourceInfo{}

	add := func(typ, u string) {
		if u != "" {
			resources[typ] = append(resources[typ], &resourceInfo{URL: u})
		}
	}

	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		add("js", src)
	})
	doc.Find(`link[rel="stylesheet"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		add("css", href)
	})
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		add("images", src)
	})
	doc.Find(`link[rel="preload"][as="font"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		add("fonts", href)
	})

	return resources
}

// measureResources HEAD-checks every resource through a bounded pool,
// recording content length and caching headers.
func (c *Coordinator) measureResources(ctx context.Context, baseURL string, resources map[string][]*resourceInfo) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.resourceLimit)

	var mu sync.Mutex
	for _, typ := range resourceTypes {
		for _, r := range resources[typ] {
			g.Go(func() error {
				ref, err := url.Parse(r.URL)
				if err != nil {
					return nil
				}
				resolved := base.ResolveReference(ref).String()

				head, err := c.fetcher.Head(gctx, resolved)
				if err != nil {
					return nil // unreachable resource contributes nothing
				}

				mu.Lock()
				defer mu.Unlock()
				r.Checked = true
				r.CacheControl = head.Headers["Cache-Control"]
				if head.ContentLength > 0 {
					r.SizeKB = float64(head.ContentLength) / 1024
				}
				return nil
			})
		}
	}
	_ = g.Wait()
}

// renderBlocking finds stylesheets without media queries and scripts
// without async/defer, both of which delay first paint.
func renderBlocking(doc *goquery.Document) []model.Value {
	var blocking []model.Value

	doc.Find(`link[rel="stylesheet"]`).Each(func(_ int, s *goquery.Selection) {
		media, _ := s.Attr("media")
		if media != "" && media != "all" {
			return
		}
		href, _ := s.Attr("href")
		blocking = append(blocking, model.Mapping(
			model.Pair("type", model.String("css")),
			model.Pair("url", model.String(href)),
			model.Pair("recommendation", model.String("Consider adding media queries or loading asynchronously")),
		))
	})

	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		if _, async := s.Attr("async"); async {
			return
		}
		if _, deferred := s.Attr("defer"); deferred {
			return
		}
		src, _ := s.Attr("src")
		blocking = append(blocking, model.Mapping(
			model.Pair("type", model.String("javascript")),
			model.Pair("url", model.String(src)),
			model.Pair("recommendation", model.String("Add async or defer attribute")),
		))
	})

	return blocking
}

// cachingIssues flags successfully checked resources with missing or
// disabled caching headers.
func cachingIssues(resources map[string][]*resourceInfo) []model.Value {
	var issues []model.Value

	for _, typ := range resourceTypes {
		for _, r := range resources[typ] {
			if !r.Checked {
				continue
			}
			cc := strings.ToLower(r.CacheControl)
			switch {
			case cc == "":
				issues = append(issues, model.Mapping(
					model.Pair("type", model.String(typ)),
					model.Pair("url", model.String(r.URL)),
					model.Pair("issue", model.String("No cache-control header")),
					model.Pair("recommendation", model.String("Add cache-control headers")),
				))
			case strings.Contains(cc, "no-cache") || strings.Contains(cc, "no-store"):
				issues = append(issues, model.Mapping(
					model.Pair("type", model.String(typ)),
					model.Pair("url", model.String(r.URL)),
					model.Pair("issue", model.String("Caching disabled")),
					model.Pair("recommendation", model.String("Enable caching for static resources")),
				))
			}
		}
	}

	return issues
}

// speedRecommendations derives prioritized recommendations from the
// measured signals.
func speedRecommendations(loadTime, totalKB float64, blockingCount, cachingCount int) []model.Value {
	var recs []model.Value

	rec := func(priority, message, recommendation string) {
		recs = append(recs, model.Mapping(
			model.Pair("priority", model.String(priority)),
			model.Pair("message", model.String(message)),
			model.Pair("recommendation", model.String(recommendation)),
		))
	}

	if totalKB > rules.MaxPageSizeKB {
		rec("high",
			fmt.Sprintf("Total page size (%.2fMB) is too large", totalKB/1024),
			"Optimize and compress resources")
	}
	if loadTime > rules.SlowLoadSeconds {
		rec("high",
			fmt.Sprintf("Page load time (%.2fs) is too high", loadTime),
			"Optimize performance and reduce server response time")
	}
	if blockingCount > 0 {
		rec("medium",
			fmt.Sprintf("Found %d render-blocking resources", blockingCount),
			"Optimize resource loading with async/defer")
	}
	if cachingCount > 0 {
		rec("medium",
			fmt.Sprintf("Found %d resources with caching issues", cachingCount),
			"Implement proper caching headers")
	}

	return recs
}
