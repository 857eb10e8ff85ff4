package analyzer

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/Baillie11/seo/internal/fetch"
	"github.com/Baillie11/seo/internal/model"
)

// AnalyzeTechnical reports load time, status code, and response size.
func AnalyzeTechnical(_ context.Context, res *fetch.Result, _ *goquery.Document, _ Context) (model.Value, error) {
	loadTime := res.Elapsed

	rating := "Poor"
	switch {
	case loadTime < rules.LoadTimeGood:
		rating = "Good"
	case loadTime < rules.LoadTimeAverage:
		rating = "Average"
	}

	return model.Mapping(
		model.Pair("Page Load Time", model.Stringf("%.2f seconds", loadTime.Seconds())),
		model.Pair("Status Code", model.Int(res.StatusCode)),
		model.Pair("Response Size", model.Stringf("%.2f KB", float64(len(res.Body))/1024)),
		model.Pair("Load Time Rating", model.String(rating)),
	), nil
}
