package analyzer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Baillie11/seo/internal/fetch"
	"github.com/Baillie11/seo/internal/model"
)

// samplePage is a fixture exercising every category analyzer at once.
const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>Artisan Coffee Roasters</title>
<meta name="description" content="Small-batch coffee roasted weekly.">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="keywords" content="coffee, espresso, roasting, beans, arabica">
<meta property="og:title" content="Artisan Coffee Roasters">
<meta property="og:description" content="Small-batch coffee.">
<script type="application/ld+json">{"@context":"https://schema.org","@type":"LocalBusiness"}</script>
<script src="http://insecure.example.com/app.js"></script>
</head>
<body>
<h1>Artisan Coffee Roasters</h1>
<h2>Fresh espresso beans</h2>
<h2>Roasting process</h2>
<p>We roast coffee beans in small batches every single week.</p>
<p>Our espresso blends celebrate arabica coffee from independent farms.</p>
<img src="/beans.jpg" alt="Roasted coffee beans">
<img src="http://insecure.example.com/cup.jpg">
<a href="/shop">Shop</a>
<a href="/about">About</a>
<a href="https://partner.example.net">Partner</a>
</body>
</html>`

// parseFixture builds the analyzer inputs from an HTML string.
func parseFixture(t *testing.T, html, pageURL string) (*fetch.Result, *goquery.Document) {
	t.Helper()

	res := &fetch.Result{
		RequestedURL: pageURL,
		FinalURL:     pageURL,
		StatusCode:   http.StatusOK,
		Headers:      map[string]string{"Content-Type": "text/html"},
		Elapsed:      800 * time.Millisecond,
		Body:         []byte(html),
	}
	doc, err := res.Document()
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return res, doc
}

// scalar fetches a mapping entry and asserts it is present.
func scalar(t *testing.T, m model.Value, label string) model.Value {
	t.Helper()

	v, ok := m.Get(label)
	if !ok {
		t.Fatalf("missing entry %q", label)
	}
	return v
}

// TestAnalyzeTechnical tests load time, status, and size reporting.
func TestAnalyzeTechnical(t *testing.T) {
	t.Parallel()

	res, doc := parseFixture(t, samplePage, "https://example.com")
	result, err := AnalyzeTechnical(context.Background(), res, doc, Context{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := scalar(t, result, "Status Code"); got.Number != 200 {
		t.Errorf("Status Code = %v, want 200", got.Number)
	}
	if got := scalar(t, result, "Page Load Time"); got.Scalar != "0.80 seconds" {
		t.Errorf("Page Load Time = %q", got.Scalar)
	}
	if got := scalar(t, result, "Load Time Rating"); got.Scalar != "Good" {
		t.Errorf("Load Time Rating = %q, want Good", got.Scalar)
	}
}

// TestAnalyzeOnPage tests title, meta description, and H1 extraction.
func TestAnalyzeOnPage(t *testing.T) {
	t.Parallel()

	t.Run("complete page", func(t *testing.T) {
		t.Parallel()

		res, doc := parseFixture(t, samplePage, "https://example.com")
		result, err := AnalyzeOnPage(context.Background(), res, doc, Context{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := scalar(t, result, "Title"); got.Scalar != "Artisan Coffee Roasters" {
			t.Errorf("Title = %q", got.Scalar)
		}
		if got := scalar(t, result, "Title Length"); got.Number != float64(len("Artisan Coffee Roasters")) {
			t.Errorf("Title Length = %v", got.Number)
		}
		if got := scalar(t, result, "H1 Count"); got.Number != 1 {
			t.Errorf("H1 Count = %v, want 1", got.Number)
		}
	})

	t.Run("empty page", func(t *testing.T) {
		t.Parallel()

		res, doc := parseFixture(t, "<html><body></body></html>", "https://example.com")
		result, err := AnalyzeOnPage(context.Background(), res, doc, Context{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := scalar(t, result, "Title"); got.Scalar != "No title tag found" {
			t.Errorf("Title = %q", got.Scalar)
		}
		if got := scalar(t, result, "Meta Description"); got.Scalar != "No meta description found" {
			t.Errorf("Meta Description = %q", got.Scalar)
		}
		if got := scalar(t, result, "H1 Count"); got.Number != 0 {
			t.Errorf("H1 Count = %v, want 0", got.Number)
		}
	})
}

// TestAnalyzeContent tests word, paragraph, and image counting.
func TestAnalyzeContent(t *testing.T) {
	t.Parallel()

	res, doc := parseFixture(t, samplePage, "https://example.com")
	result, err := AnalyzeContent(context.Background(), res, doc, Context{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := scalar(t, result, "Paragraph Count"); got.Number != 2 {
		t.Errorf("Paragraph Count = %v, want 2", got.Number)
	}
	if got := scalar(t, result, "Image Count"); got.Number != 2 {
		t.Errorf("Image Count = %v, want 2", got.Number)
	}
	if got := scalar(t, result, "Images with Alt Text"); got.Number != 1 {
		t.Errorf("Images with Alt Text = %v, want 1", got.Number)
	}
	if got := scalar(t, result, "Word Count"); got.Number == 0 {
		t.Error("Word Count should be positive")
	}
}

// TestAnalyzeUserExperience tests viewport and link classification.
func TestAnalyzeUserExperience(t *testing.T) {
	t.Parallel()

	res, doc := parseFixture(t, samplePage, "https://example.com")
	result, err := AnalyzeUserExperience(context.Background(), res, doc, Context{PageURL: "https://example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := scalar(t, result, "Mobile Responsive"); got.Scalar != "Yes" {
		t.Errorf("Mobile Responsive = %q, want Yes", got.Scalar)
	}
	if got := scalar(t, result, "Internal Links"); got.Number != 2 {
		t.Errorf("Internal Links = %v, want 2", got.Number)
	}
	if got := scalar(t, result, "External Links"); got.Number != 1 {
		t.Errorf("External Links = %v, want 1", got.Number)
	}
}

// TestAnalyzeSecurity tests HTTPS status and mixed content detection.
func TestAnalyzeSecurity(t *testing.T) {
	t.Parallel()

	t.Run("https with mixed content", func(t *testing.T) {
		t.Parallel()

		res, doc := parseFixture(t, samplePage, "https://example.com")
		result, err := AnalyzeSecurity(context.Background(), res, doc, Context{PageURL: "https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		https := scalar(t, result, "HTTPS")
		if got := scalar(t, https, "Status"); got.Scalar != "good" {
			t.Errorf("HTTPS Status = %q, want good", got.Scalar)
		}

		// One http:// script is active mixed content
		mixed := scalar(t, result, "Mixed Content")
		if got := scalar(t, mixed, "Status"); got.Scalar != "bad" {
			t.Errorf("Mixed Content Status = %q, want bad", got.Scalar)
		}
		if got := scalar(t, mixed, "Details"); !strings.Contains(got.Scalar, "1 active") {
			t.Errorf("Mixed Content Details = %q", got.Scalar)
		}
	})

	t.Run("plain http", func(t *testing.T) {
		t.Parallel()

		res, doc := parseFixture(t, samplePage, "http://example.com")
		result, err := AnalyzeSecurity(context.Background(), res, doc, Context{PageURL: "http://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		https := scalar(t, result, "HTTPS")
		if got := scalar(t, https, "Status"); got.Scalar != "bad" {
			t.Errorf("HTTPS Status = %q, want bad", got.Scalar)
		}
	})
}

// TestAnalyzeSchemaMarkup tests JSON-LD and social tag extraction.
func TestAnalyzeSchemaMarkup(t *testing.T) {
	t.Parallel()

	res, doc := parseFixture(t, samplePage, "https://example.com")
	result, err := AnalyzeSchemaMarkup(context.Background(), res, doc, Context{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := scalar(t, result, "JSON-LD Scripts"); got.Number != 1 {
		t.Errorf("JSON-LD Scripts = %v, want 1", got.Number)
	}

	types := scalar(t, result, "Schema Types")
	if len(types.List) != 1 || types.List[0].Scalar != "LocalBusiness" {
		t.Errorf("Schema Types = %+v, want [LocalBusiness]", types.List)
	}

	og := scalar(t, result, "OpenGraph Tags")
	if got := scalar(t, og, "og:title"); got.Scalar != "Artisan Coffee Roasters" {
		t.Errorf("og:title = %q", got.Scalar)
	}
	if got := scalar(t, og, "og:image"); got.Scalar != "Not found" {
		t.Errorf("og:image = %q, want Not found", got.Scalar)
	}
}

// TestAnalyzeAdvancedContent tests keyword extraction, headings, and
// broken-link sampling.
func TestAnalyzeAdvancedContent(t *testing.T) {
	t.Parallel()

	t.Run("without checker", func(t *testing.T) {
		t.Parallel()

		res, doc := parseFixture(t, samplePage, "https://example.com")
		result, err := AnalyzeAdvancedContent(context.Background(), res, doc, Context{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		headings := scalar(t, result, "Heading Structure")
		if got := scalar(t, headings, "h2"); got.Number != 2 {
			t.Errorf("h2 count = %v, want 2", got.Number)
		}

		if got := scalar(t, result, "Broken Links Found"); got.Number != 0 {
			t.Errorf("Broken Links Found = %v, want 0 without checker", got.Number)
		}

		top := scalar(t, result, "Top Keywords")
		if len(top.List) == 0 {
			t.Fatal("expected top keywords")
		}
		if !strings.Contains(top.List[0].Scalar, "coffee") {
			t.Errorf("top keyword = %q, want coffee", top.List[0].Scalar)
		}
	})

	t.Run("with broken link", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/dead") {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		html := `<html><body>
			<a href="` + srv.URL + `/ok">fine</a>
			<a href="` + srv.URL + `/dead">gone</a>
		</body></html>`
		res, doc := parseFixture(t, html, "https://example.com")

		actx := Context{Checker: fetch.NewClient()}
		result, err := AnalyzeAdvancedContent(context.Background(), res, doc, actx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := scalar(t, result, "Broken Links Found"); got.Number != 1 {
			t.Errorf("Broken Links Found = %v, want 1", got.Number)
		}
		broken := scalar(t, result, "Broken Links")
		if len(broken.List) != 1 || !strings.HasSuffix(broken.List[0].Scalar, "/dead") {
			t.Errorf("Broken Links = %+v", broken.List)
		}
	})
}

// TestAnalyzeMetaKeywords tests the meta keywords audit.
func TestAnalyzeMetaKeywords(t *testing.T) {
	t.Parallel()

	t.Run("existing tag", func(t *testing.T) {
		t.Parallel()

		res, doc := parseFixture(t, samplePage, "https://example.com")
		result, err := AnalyzeMetaKeywords(context.Background(), res, doc, Context{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		existing := scalar(t, result, "Existing Keywords")
		if got := scalar(t, existing, "Present"); got.Scalar != "Yes" {
			t.Errorf("Present = %q, want Yes", got.Scalar)
		}
		if got := scalar(t, existing, "Count"); got.Number != 5 {
			t.Errorf("Count = %v, want 5", got.Number)
		}
		if got := scalar(t, existing, "Status"); got.Scalar != "good" {
			t.Errorf("Status = %q, want good", got.Scalar)
		}
	})

	t.Run("no tag generates candidates", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Espresso guide</title></head><body>
			<p>Espresso espresso espresso grinder grinder tamper.</p>
		</body></html>`
		res, doc := parseFixture(t, html, "https://example.com")
		result, err := AnalyzeMetaKeywords(context.Background(), res, doc, Context{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		existing := scalar(t, result, "Existing Keywords")
		if got := scalar(t, existing, "Present"); got.Scalar != "No" {
			t.Errorf("Present = %q, want No", got.Scalar)
		}
		if got := scalar(t, result, "Overall Status"); got.Scalar != "bad" {
			t.Errorf("Overall Status = %q, want bad", got.Scalar)
		}

		generated := scalar(t, result, "Generated Keywords")
		tag := scalar(t, generated, "HTML Tag")
		if !strings.Contains(tag.Scalar, `meta name="keywords"`) {
			t.Errorf("HTML Tag = %q", tag.Scalar)
		}
	})

	t.Run("user keywords drive density", func(t *testing.T) {
		t.Parallel()

		res, doc := parseFixture(t, samplePage, "https://example.com")
		actx := Context{Keywords: []string{"coffee", "espresso"}}
		result, err := AnalyzeMetaKeywords(context.Background(), res, doc, actx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		density := scalar(t, result, "Keyword Density")
		if len(density.Mapping) != 2 {
			t.Fatalf("density entries = %d, want 2", len(density.Mapping))
		}
		if density.Mapping[0].Label != "coffee" {
			t.Errorf("first density keyword = %q, want coffee", density.Mapping[0].Label)
		}
		count := scalar(t, density.Mapping[0].Value, "Count")
		if count.Number == 0 {
			t.Error("coffee count should be positive")
		}
	})
}
