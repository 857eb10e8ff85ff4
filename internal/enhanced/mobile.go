package enhanced

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Baillie11/seo/internal/fetch"
	"github.com/Baillie11/seo/internal/model"
)

// checkResult is the outcome of one mobile-friendliness check.
type checkResult struct {
	Status         string // "success", "warning", or "error"
	Message        string
	Recommendation string
	Issues         []model.Value
}

// toValue converts the check into its report representation.
func (r checkResult) toValue() model.Value {
	v := model.Mapping(
		model.Pair("status", model.String(r.Status)),
		model.Pair("message", model.String(r.Message)),
	)
	if r.Recommendation != "" {
		v = v.Append("recommendation", model.String(r.Recommendation))
	}
	if len(r.Issues) > 0 {
		v = v.Append("issues", model.Value{Kind: model.KindList, List: r.Issues})
	}
	return v
}

var (
	fontSizePattern  = regexp.MustCompile(`font-size:\s*(\d+)px`)
	dimensionPattern = regexp.MustCompile(`(height|width):\s*(\d+)px`)
)

// mobileFriendliness fetches the page with a mobile User-Agent and
// runs the viewport, font-size, tap-target, and responsive-image
// checks. The score starts at 100 and loses ten points per check
// that is not a clean pass.
func (c *Coordinator) mobileFriendliness(ctx context.Context, rawURL string) (model.Value, error) {
	normalized, err := fetch.NormalizeURL(rawURL)
	if err != nil {
		return model.Value{}, fmt.Errorf("invalid url %q", rawURL)
	}

	res, err := c.fetcher.FetchMobile(ctx, normalized)
	if err != nil {
		return model.Value{}, fmt.Errorf("could not fetch %s", normalized)
	}

	doc, err := res.Document()
	if err != nil {
		return model.Value{}, fmt.Errorf("could not parse %s", normalized)
	}

	checks := []struct {
		name   string
		result checkResult
	}{
		{"viewport", checkViewport(doc)},
		{"font_sizes", checkFontSizes(doc)},
		{"tap_targets", checkTapTargets(doc)},
		{"responsive_images", checkResponsiveImages(doc)},
	}

	checksValue := model.Mapping()
	issueCount, criticals, warnings, passed := 0, 0, 0, 0
	for _, ch := range checks {
		checksValue = checksValue.Append(ch.name, ch.result.toValue())
		switch ch.result.Status {
		case "error":
			issueCount++
			criticals++
		case "warning":
			issueCount++
			warnings++
		default:
			passed++
		}
	}

	score := 100 - issueCount*10
	if score < 0 {
		score = 0
	}

	return model.Mapping(
		model.Pair("mobile_score", model.Int(score)),
		model.Pair("checks", checksValue),
		model.Pair("summary", model.Mapping(
			model.Pair("critical_issues", model.Int(criticals)),
			model.Pair("warnings", model.Int(warnings)),
			model.Pair("passed_checks", model.Int(passed)),
		)),
	), nil
}

// checkViewport verifies the viewport meta tag exists and carries the
// standard device-width configuration.
func checkViewport(doc *goquery.Document) checkResult {
	viewport := doc.Find(`meta[name="viewport"]`).First()
	if viewport.Length() == 0 {
		return checkResult{
			Status:         "error",
			Message:        "No viewport meta tag found",
			Recommendation: "Add viewport meta tag for proper mobile rendering",
		}
	}

	content, _ := viewport.Attr("content")
	if !strings.Contains(content, "width=device-width") || !strings.Contains(content, "initial-scale=1") {
		return checkResult{
			Status:         "warning",
			Message:        "Viewport meta tag may not be properly configured",
			Recommendation: "Set viewport with width=device-width and initial-scale=1",
		}
	}

	return checkResult{Status: "success", Message: "Viewport meta tag properly configured"}
}

// checkFontSizes flags inline font sizes below the mobile-readable
// minimum. Only inline styles are visible to a markup-only audit;
// external CSS is out of reach by design.
func checkFontSizes(doc *goquery.Document) checkResult {
	var issues []model.Value

	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		m := fontSizePattern.FindStringSubmatch(style)
		if m == nil {
			return
		}
		if size, err := strconv.Atoi(m[1]); err == nil && size < rules.MinFontSizePx {
			issues = append(issues, model.Mapping(
				model.Pair("element", model.String(goquery.NodeName(s))),
				model.Pair("current_size", model.Stringf("%dpx", size)),
				model.Pair("recommendation", model.Stringf("Increase font size to at least %dpx for mobile readability", rules.MinFontSizePx)),
			))
		}
	})

	if len(issues) > 0 {
		return checkResult{
			Status:  "warning",
			Message: fmt.Sprintf("Found %d elements with small font sizes", len(issues)),
			Issues:  issues,
		}
	}
	return checkResult{Status: "success", Message: "No small font sizes detected"}
}

// checkTapTargets flags clickable elements with inline dimensions
// below the recommended tap target size.
func checkTapTargets(doc *goquery.Document) checkResult {
	var issues []model.Value

	doc.Find("a[style], button[style]").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		for _, m := range dimensionPattern.FindAllStringSubmatch(style, -1) {
			size, err := strconv.Atoi(m[2])
			if err != nil || size >= rules.MinTapTargetPx {
				continue
			}
			issues = append(issues, model.Mapping(
				model.Pair("element", model.String(goquery.NodeName(s))),
				model.Pair("dimension", model.String(m[1])),
				model.Pair("current_size", model.Stringf("%dpx", size)),
				model.Pair("recommendation", model.Stringf("Increase %s to at least %dpx for better tap targets", m[1], rules.MinTapTargetPx)),
			))
		}
	})

	if len(issues) > 0 {
		return checkResult{
			Status:  "warning",
			Message: fmt.Sprintf("Found %d undersized tap targets", len(issues)),
			Issues:  issues,
		}
	}
	return checkResult{Status: "success", Message: "Tap targets appear adequately sized"}
}

// checkResponsiveImages flags images without srcset or without
// explicit dimensions (which cause layout shifts on load).
func checkResponsiveImages(doc *goquery.Document) checkResult {
	var issues []model.Value

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")

		if _, ok := s.Attr("srcset"); !ok {
			issues = append(issues, model.Mapping(
				model.Pair("element", model.String("img")),
				model.Pair("src", model.String(src)),
				model.Pair("recommendation", model.String("Add srcset attribute for responsive images")),
			))
		}

		_, hasWidth := s.Attr("width")
		_, hasHeight := s.Attr("height")
		if !hasWidth || !hasHeight {
			issues = append(issues, model.Mapping(
				model.Pair("element", model.String("img")),
				model.Pair("src", model.String(src)),
				model.Pair("recommendation", model.String("Add width and height attributes to prevent layout shifts")),
			))
		}
	})

	if len(issues) > 0 {
		return checkResult{
			Status:  "warning",
			Message: fmt.Sprintf("Found %d responsive image issues", len(issues)),
			Issues:  issues,
		}
	}
	return checkResult{Status: "success", Message: "Images appear responsive"}
}
