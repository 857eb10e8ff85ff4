package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestNormalizeURL tests scheme defaulting and validation.
func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare host", input: "example.com", want: "https://example.com"},
		{name: "host with path", input: "example.com/about", want: "https://example.com/about"},
		{name: "https preserved", input: "https://example.com", want: "https://example.com"},
		{name: "http preserved", input: "http://example.com", want: "http://example.com"},
		{name: "surrounding whitespace", input: "  example.com  ", want: "https://example.com"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "scheme without host", input: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizeURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("error = %v, want ErrInvalidURL", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestClientFetch tests a successful GET fetch.
func TestClientFetch(t *testing.T) {
	t.Parallel()

	const page = "<html><head><title>Test</title></head><body>hello</body></html>"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "SEO-Audit") {
			t.Errorf("User-Agent = %q, want auditor UA", ua)
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page)) //nolint:errcheck // test server
	}))
	defer srv.Close()

	client := NewClient()
	result, err := client.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", result.StatusCode)
	}
	if string(result.Body) != page {
		t.Errorf("Body = %q, want page content", result.Body)
	}
	if result.Headers["Content-Type"] != "text/html" {
		t.Errorf("Content-Type = %q, want text/html", result.Headers["Content-Type"])
	}
	if result.Elapsed <= 0 {
		t.Error("Elapsed should be positive")
	}
}

// TestClientFetchFollowsRedirects tests that FinalURL reflects the
// redirect target.
func TestClientFetchFollowsRedirects(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/final", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("arrived")) //nolint:errcheck // test server
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusMovedPermanently)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient()
	result, err := client.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasSuffix(result.FinalURL, "/final") {
		t.Errorf("FinalURL = %q, want redirect target", result.FinalURL)
	}
	if result.RequestedURL != srv.URL {
		t.Errorf("RequestedURL = %q, want %q", result.RequestedURL, srv.URL)
	}
}

// TestClientFetchBodyLimit tests that oversized bodies are truncated.
func TestClientFetchBodyLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(strings.Repeat("x", 2048))) //nolint:errcheck // test server
	}))
	defer srv.Close()

	client := NewClient(WithMaxBodySize(1024))
	result, err := client.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Body) != 1024 {
		t.Errorf("len(Body) = %d, want 1024", len(result.Body))
	}
}

// TestClientFetchTimeout tests timeout classification.
func TestClientFetchTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("late")) //nolint:errcheck // test server
	}))
	defer srv.Close()

	client := NewClient(WithTimeout(20 * time.Millisecond))
	_, err := client.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("error = %v, want ErrTimeout", err)
	}
}

// TestClientFetchConnectionFailed tests connection error classification.
func TestClientFetchConnectionFailed(t *testing.T) {
	t.Parallel()

	// Server started and immediately closed: the port refuses
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	client := NewClient()
	_, err := client.Fetch(context.Background(), addr)
	if err == nil {
		t.Fatal("expected connection error")
	}
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("error = %v, want ErrConnectionFailed", err)
	}
}

// TestClientFetchTLSFailure tests certificate error classification.
// httptest TLS servers use a self-signed certificate the default
// client does not trust.
func TestClientFetchTLSFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("secure")) //nolint:errcheck // test server
	}))
	defer srv.Close()

	client := NewClient()
	_, err := client.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected TLS error")
	}
	if !errors.Is(err, ErrTLSFailed) {
		t.Errorf("error = %v, want ErrTLSFailed", err)
	}
}

// TestClientFetchMobile tests the mobile User-Agent fetch.
func TestClientFetchMobile(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "iPhone") {
			t.Errorf("User-Agent = %q, want mobile UA", ua)
		}
		w.Write([]byte("mobile page")) //nolint:errcheck // test server
	}))
	defer srv.Close()

	client := NewClient()
	result, err := client.FetchMobile(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result.Body) != "mobile page" {
		t.Errorf("Body = %q", result.Body)
	}
}

// TestClientHead tests the HEAD pre-check.
func TestClientHead(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		w.Header().Set("Content-Length", "512")
		w.Header().Set("Cache-Control", "max-age=3600")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient()
	result, err := client.Head(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", result.StatusCode)
	}
	if result.ContentLength != 512 {
		t.Errorf("ContentLength = %d, want 512", result.ContentLength)
	}
	if result.Headers["Cache-Control"] != "max-age=3600" {
		t.Errorf("Cache-Control = %q", result.Headers["Cache-Control"])
	}
}

// TestClientFetchContextCancelled tests that a cancelled context
// aborts the fetch.
func TestClientFetchContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(time.Second)
		w.Write([]byte("late")) //nolint:errcheck // test server
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient()
	if _, err := client.Fetch(ctx, srv.URL); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
