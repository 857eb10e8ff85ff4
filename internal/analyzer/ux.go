package analyzer

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Baillie11/seo/internal/fetch"
	"github.com/Baillie11/seo/internal/model"
)

// AnalyzeUserExperience reports mobile viewport presence and the
// internal/external link breakdown. URLAware: link classification
// needs the resolved page URL.
func AnalyzeUserExperience(_ context.Context, _ *fetch.Result, doc *goquery.Document, actx Context) (model.Value, error) {
	viewport := doc.Find(`meta[name="viewport"]`).Length() > 0

	links := doc.Find("a")
	internal, external := 0, 0
	links.Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		switch {
		case strings.HasPrefix(href, "/") || (actx.PageURL != "" && strings.HasPrefix(href, actx.PageURL)):
			internal++
		case strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://"):
			external++
		}
	})

	return model.Mapping(
		model.Pair("Mobile Responsive", model.Bool(viewport)),
		model.Pair("Total Links", model.Int(links.Length())),
		model.Pair("Internal Links", model.Int(internal)),
		model.Pair("External Links", model.Int(external)),
	), nil
}
