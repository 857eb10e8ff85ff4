package analyzer

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/Baillie11/seo/internal/fetch"
	"github.com/Baillie11/seo/internal/model"
)

// AnalyzeContent reports word, paragraph, and image counts and alt
// text coverage.
func AnalyzeContent(_ context.Context, _ *fetch.Result, doc *goquery.Document, _ Context) (model.Value, error) {
	paragraphs := doc.Find("p").Length()
	images := doc.Find("img")

	withAlt := 0
	images.Each(func(_ int, s *goquery.Selection) {
		if alt, ok := s.Attr("alt"); ok && alt != "" {
			withAlt++
		}
	})

	return model.Mapping(
		model.Pair("Word Count", model.Int(WordCount(DocumentText(doc)))),
		model.Pair("Paragraph Count", model.Int(paragraphs)),
		model.Pair("Image Count", model.Int(images.Length())),
		model.Pair("Images with Alt Text", model.Int(withAlt)),
	), nil
}
