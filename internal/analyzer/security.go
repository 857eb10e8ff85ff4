package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Baillie11/seo/internal/fetch"
	"github.com/Baillie11/seo/internal/model"
)

// AnalyzeSecurity reports HTTPS usage and mixed-content issues.
// URLAware: HTTPS assessment is about the URL actually served, not
// the markup.
func AnalyzeSecurity(_ context.Context, res *fetch.Result, doc *goquery.Document, actx Context) (model.Value, error) {
	pageURL := actx.PageURL
	if pageURL == "" {
		pageURL = res.FinalURL
	}

	httpsStatus, httpsDetail := "bad", "No HTTPS or misconfigured"
	if strings.HasPrefix(pageURL, "https://") {
		httpsStatus, httpsDetail = "good", "HTTPS enabled and properly configured"
	}

	mixedStatus, mixedDetail := analyzeMixedContent(res, doc)

	return model.Mapping(
		model.Pair("HTTPS", model.Mapping(
			model.Pair("Status", model.String(httpsStatus)),
			model.Pair("Details", model.String(httpsDetail)),
		)),
		model.Pair("Mixed Content", model.Mapping(
			model.Pair("Status", model.String(mixedStatus)),
			model.Pair("Details", model.String(mixedDetail)),
		)),
	), nil
}

// analyzeMixedContent classifies http:// sub-resources on an https
// page. Scripts and stylesheets are active mixed content (blocked by
// browsers); images and media are passive (degraded, not blocked).
func analyzeMixedContent(res *fetch.Result, doc *goquery.Document) (status, detail string) {
	if !strings.HasPrefix(res.FinalURL, "https://") {
		return "bad", "Site not using HTTPS, mixed content check not applicable"
	}

	active, passive := 0, 0

	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		if src, _ := s.Attr("src"); strings.HasPrefix(src, "http://") {
			active++
		}
	})
	doc.Find(`link[rel="stylesheet"][href]`).Each(func(_ int, s *goquery.Selection) {
		if href, _ := s.Attr("href"); strings.HasPrefix(href, "http://") {
			active++
		}
	})
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if src, _ := s.Attr("src"); strings.HasPrefix(src, "http://") {
			passive++
		}
	})
	doc.Find("audio[src], video[src]").Each(func(_ int, s *goquery.Selection) {
		if src, _ := s.Attr("src"); strings.HasPrefix(src, "http://") {
			passive++
		}
	})

	switch {
	case active > 0:
		return "bad", fmt.Sprintf("Found %d active mixed content issues", active)
	case passive > 0:
		return "warning", fmt.Sprintf("Found %d passive mixed content issues", passive)
	default:
		return "good", "No mixed content found"
	}
}
