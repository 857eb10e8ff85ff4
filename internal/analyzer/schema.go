package analyzer

import (
	"context"
	"encoding/json"

	"github.com/PuerkitoBio/goquery"

	"github.com/Baillie11/seo/internal/fetch"
	"github.com/Baillie11/seo/internal/model"
)

// AnalyzeSchemaMarkup reports JSON-LD structured data and social
// media meta tags.
func AnalyzeSchemaMarkup(_ context.Context, _ *fetch.Result, doc *goquery.Document, _ Context) (model.Value, error) {
	scripts := doc.Find(`script[type="application/ld+json"]`)

	schemaTypes := make([]string, 0, scripts.Length())
	scripts.Each(func(_ int, s *goquery.Selection) {
		if t := extractSchemaType(s.Text()); t != "" {
			schemaTypes = append(schemaTypes, t)
		}
	})

	og := model.Mapping()
	for _, prop := range []string{"og:title", "og:description", "og:image"} {
		og = og.Append(prop, model.String(metaContent(doc, `meta[property="`+prop+`"]`)))
	}

	twitter := model.Mapping()
	for _, name := range []string{"twitter:card", "twitter:title"} {
		twitter = twitter.Append(name, model.String(metaContent(doc, `meta[name="`+name+`"]`)))
	}

	return model.Mapping(
		model.Pair("JSON-LD Scripts", model.Int(scripts.Length())),
		model.Pair("Schema Types", model.StringList(schemaTypes)),
		model.Pair("OpenGraph Tags", og),
		model.Pair("Twitter Cards", twitter),
	), nil
}

// metaContent returns the content attribute of the first matching
// meta tag, or "Not found".
func metaContent(doc *goquery.Document, selector string) string {
	if content, ok := doc.Find(selector).First().Attr("content"); ok && content != "" {
		return content
	}
	return "Not found"
}

// extractSchemaType pulls the @type out of a JSON-LD block.
// Malformed JSON-LD is an authoring problem on the audited page, not
// an analysis failure, so parse errors yield an empty type.
func extractSchemaType(raw string) string {
	var payload struct {
		Type any `json:"@type"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return ""
	}

	switch t := payload.Type.(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				return s
			}
		}
	}
	return ""
}
