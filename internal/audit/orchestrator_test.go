package audit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Baillie11/seo/internal/analyzer"
	"github.com/Baillie11/seo/internal/fetch"
	"github.com/Baillie11/seo/internal/model"
)

const testPage = `<html>
<head><title>Test Page</title><meta name="description" content="A test."></head>
<body><h1>Welcome</h1><p>Some body text for the analyzers.</p></body>
</html>`

// newTestServer serves the fixture page.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(testPage)) //nolint:errcheck // test server
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestOrchestratorRun tests a successful full run.
func TestOrchestratorRun(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	o := New(fetch.NewClient())

	selected := analyzer.DefaultRegistry().Categories()
	report := o.Run(context.Background(), srv.URL, selected, nil)

	if report.Failed() {
		t.Fatalf("unexpected failure: %s", report.Err)
	}
	if len(report.Categories) != len(selected) {
		t.Fatalf("len(Categories) = %d, want %d", len(report.Categories), len(selected))
	}

	// Categories must appear in registration order
	for i, name := range selected {
		if report.Categories[i].Name != name {
			t.Errorf("category %d = %q, want %q", i, report.Categories[i].Name, name)
		}
	}

	onpage, ok := report.Category(analyzer.CategoryOnPage)
	if !ok {
		t.Fatal("expected On-Page SEO category")
	}
	title, ok := onpage.Get("Title")
	if !ok || title.Scalar != "Test Page" {
		t.Errorf("Title = %q, want Test Page", title.Scalar)
	}
}

// TestOrchestratorRunSelection tests category filtering.
func TestOrchestratorRunSelection(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	o := New(fetch.NewClient())

	t.Run("subset in registration order", func(t *testing.T) {
		t.Parallel()

		// Selection order is reversed; report order must not be
		selected := []string{analyzer.CategoryContent, analyzer.CategoryTechnical}
		report := o.Run(context.Background(), srv.URL, selected, nil)

		if len(report.Categories) != 2 {
			t.Fatalf("len(Categories) = %d, want 2", len(report.Categories))
		}
		if report.Categories[0].Name != analyzer.CategoryTechnical {
			t.Errorf("first category = %q, want Technical SEO", report.Categories[0].Name)
		}
	})

	t.Run("unknown names ignored", func(t *testing.T) {
		t.Parallel()

		selected := []string{"No Such Category", analyzer.CategoryTechnical}
		report := o.Run(context.Background(), srv.URL, selected, nil)

		if len(report.Categories) != 1 {
			t.Fatalf("len(Categories) = %d, want 1", len(report.Categories))
		}
	})
}

// TestOrchestratorRunInvalidURL tests the invalid URL failure message.
// resultShape renders a Value's structure (kinds and labels, not
// scalar contents) so timing-sensitive values compare equal.
func resultShape(v model.Value) string {
	switch v.Kind {
	case model.KindScalar:
		return "scalar"
	case model.KindError:
		return "error(" + v.Scalar + ")"
	case model.KindList:
		parts := make([]string, 0, len(v.List))
		for _, elem := range v.List {
			parts = append(parts, resultShape(elem))
		}
		return "list[" + strings.Join(parts, ",") + "]"
	case model.KindMapping:
		parts := make([]string, 0, len(v.Mapping))
		for _, e := range v.Mapping {
			parts = append(parts, e.Label+"="+resultShape(e.Value))
		}
		return "map{" + strings.Join(parts, ",") + "}"
	default:
		return "unknown"
	}
}

// TestOrchestratorRunShapeIdempotent tests that two runs against an
// unchanged document produce identically shaped results. Values like
// load time may differ between runs, but never the structure.
func TestOrchestratorRunShapeIdempotent(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	o := New(fetch.NewClient())
	selected := analyzer.DefaultRegistry().Categories()

	first := o.Run(context.Background(), srv.URL, selected, []string{"analyzers"})
	second := o.Run(context.Background(), srv.URL, selected, []string{"analyzers"})

	if first.Failed() || second.Failed() {
		t.Fatalf("unexpected failure: %q / %q", first.Err, second.Err)
	}
	if len(first.Categories) != len(second.Categories) {
		t.Fatalf("category counts differ: %d vs %d", len(first.Categories), len(second.Categories))
	}

	for i, section := range first.Categories {
		other := second.Categories[i]
		if section.Name != other.Name {
			t.Errorf("category %d name differs: %q vs %q", i, section.Name, other.Name)
			continue
		}
		got, want := resultShape(other.Result), resultShape(section.Result)
		if got != want {
			t.Errorf("%s shape differs between runs:\nfirst:  %s\nsecond: %s",
				section.Name, want, got)
		}
	}
}

func TestOrchestratorRunInvalidURL(t *testing.T) {
	t.Parallel()

	o := New(fetch.NewClient())
	report := o.Run(context.Background(), "", nil, nil)

	if !report.Failed() {
		t.Fatal("expected failed report")
	}
	if report.Err != "The supplied URL is not valid" {
		t.Errorf("Err = %q", report.Err)
	}
}

// TestOrchestratorRunFetchFailures tests the user-facing messages for
// classified fetch errors.
func TestOrchestratorRunFetchFailures(t *testing.T) {
	t.Parallel()

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte("late")) //nolint:errcheck // test server
		}))
		defer srv.Close()

		o := New(fetch.NewClient(fetch.WithTimeout(20 * time.Millisecond)))
		report := o.Run(context.Background(), srv.URL, nil, nil)

		if !report.Failed() {
			t.Fatal("expected failed report")
		}
		if report.Err != "Website took too long to respond (timeout: 20 seconds)" {
			t.Errorf("Err = %q", report.Err)
		}
	})

	t.Run("connection refused", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		addr := srv.URL
		srv.Close()

		o := New(fetch.NewClient())
		report := o.Run(context.Background(), addr, nil, nil)

		if !report.Failed() {
			t.Fatal("expected failed report")
		}
		if report.Err != "Could not establish connection to the website" {
			t.Errorf("Err = %q", report.Err)
		}
	})
}

// TestOrchestratorInsecureFallback tests the plain-HTTP retry after a
// TLS failure.
//
// The httptest TLS certificate is untrusted, so the https fetch fails
// with a TLS error. The plain-HTTP retry against the same port gets a
// response (the Go server answers plaintext requests on a TLS port
// with a 400 page), which is enough to exercise the fallback path.
func TestOrchestratorInsecureFallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(testPage)) //nolint:errcheck // test server
	}))
	defer srv.Close()

	o := New(fetch.NewClient())
	report := o.Run(context.Background(), srv.URL, []string{analyzer.CategoryTechnical}, nil)

	if report.Failed() {
		t.Fatalf("fallback should succeed: %s", report.Err)
	}
	if !strings.HasPrefix(report.URL, "http://") {
		t.Errorf("URL = %q, want http:// after fallback", report.URL)
	}

	warnings := 0
	for _, w := range report.Warnings {
		if w == "Website is using unsecure HTTP protocol" {
			warnings++
		}
	}
	if warnings != 1 {
		t.Errorf("insecure warning count = %d, want exactly 1", warnings)
	}
}

// TestOrchestratorAnalyzerIsolation tests that one failing analyzer
// does not abort the run.
func TestOrchestratorAnalyzerIsolation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	ok := func(_ context.Context, _ *fetch.Result, _ *goquery.Document, _ analyzer.Context) (model.Value, error) {
		return model.String("fine"), nil
	}
	failing := func(_ context.Context, _ *fetch.Result, _ *goquery.Document, _ analyzer.Context) (model.Value, error) {
		return model.Value{}, errors.New("deliberate failure")
	}
	panicking := func(_ context.Context, _ *fetch.Result, _ *goquery.Document, _ analyzer.Context) (model.Value, error) {
		panic("deliberate panic")
	}

	r := analyzer.NewRegistry()
	r.Register(analyzer.Unit{Name: "Healthy", Analyze: ok})
	r.Register(analyzer.Unit{Name: "Failing", Analyze: failing})
	r.Register(analyzer.Unit{Name: "Panicking", Analyze: panicking})

	o := New(fetch.NewClient(), WithRegistry(r))
	report := o.Run(context.Background(), srv.URL, r.Categories(), nil)

	if report.Failed() {
		t.Fatalf("run should not fail as a whole: %s", report.Err)
	}
	if len(report.Categories) != 3 {
		t.Fatalf("len(Categories) = %d, want 3", len(report.Categories))
	}

	healthy, _ := report.Category("Healthy")
	if healthy.IsError() {
		t.Error("Healthy should not carry an error marker")
	}

	failed, _ := report.Category("Failing")
	if !failed.IsError() {
		t.Error("Failing should carry an error marker")
	}
	if failed.Scalar != "Failing analysis failed: deliberate failure" {
		t.Errorf("error message = %q", failed.Scalar)
	}

	panicked, _ := report.Category("Panicking")
	if !panicked.IsError() {
		t.Error("Panicking should carry an error marker")
	}
	if panicked.Scalar != "Panicking analysis failed" {
		t.Errorf("panic message = %q", panicked.Scalar)
	}
}

// TestOrchestratorURLScheme tests that reports carry scheme-qualified
// URLs.
func TestOrchestratorURLScheme(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	o := New(fetch.NewClient())

	report := o.Run(context.Background(), srv.URL, []string{analyzer.CategoryTechnical}, nil)
	if report.URL != srv.URL {
		t.Errorf("URL = %q, want %q", report.URL, srv.URL)
	}
}
