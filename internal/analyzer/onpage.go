package analyzer

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Baillie11/seo/internal/fetch"
	"github.com/Baillie11/seo/internal/model"
)

// AnalyzeOnPage reports title tag, meta description, and H1 structure.
func AnalyzeOnPage(_ context.Context, _ *fetch.Result, doc *goquery.Document, _ Context) (model.Value, error) {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	titleText := title
	if titleText == "" {
		titleText = "No title tag found"
	}

	metaDesc, hasMeta := doc.Find(`meta[name="description"]`).First().Attr("content")
	metaText := metaDesc
	if !hasMeta {
		metaText = "No meta description found"
	}

	h1s := doc.Find("h1")
	h1Texts := make([]string, 0, 3)
	h1s.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		h1Texts = append(h1Texts, strings.TrimSpace(s.Text()))
		return len(h1Texts) < 3 // first three only
	})

	return model.Mapping(
		model.Pair("Title", model.String(titleText)),
		model.Pair("Title Length", model.Int(len(title))),
		model.Pair("Meta Description", model.String(metaText)),
		model.Pair("Meta Description Length", model.Int(len(metaDesc))),
		model.Pair("H1 Count", model.Int(h1s.Length())),
		model.Pair("H1 Tags", model.StringList(h1Texts)),
	), nil
}
