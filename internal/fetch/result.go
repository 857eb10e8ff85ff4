package fetch

import (
	"bytes"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Result is the outcome of one successful document fetch.
// Immutable once produced; one Result exists per analysis run and is
// shared read-only by every analyzer.
type Result struct {
	// RequestedURL is the normalized URL the fetch was asked for.
	RequestedURL string

	// FinalURL is the URL after redirects.
	FinalURL string

	// StatusCode is the HTTP response status.
	StatusCode int

	// Headers holds response headers, first value per name.
	Headers map[string]string

	// Elapsed is the wall-clock time of the request including body read.
	Elapsed time.Duration

	// Body is the raw response body, truncated to the client's limit.
	Body []byte

	// UsedInsecureFallback is true when the document was obtained over
	// plain HTTP after a TLS failure on the original https URL.
	UsedInsecureFallback bool

	// doc caches the parsed document.
	doc *goquery.Document
}

// Header returns the named response header or "".
func (r *Result) Header(name string) string {
	return r.Headers[name]
}

// IsSuccess reports whether the status code indicates a usable page.
// Redirects are already followed by the client, so 3xx here means a
// redirect loop was cut short; we still treat the body as unusable.
func (r *Result) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Document returns the parsed HTML document, parsing on first use.
//
// Design decision: parsing is lazy because the orchestrator may
// short-circuit before any analyzer needs the tree, and competitor
// sub-fetches only inspect a reduced analyzer subset.
func (r *Result) Document() (*goquery.Document, error) {
	if r.doc != nil {
		return r.doc, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
	if err != nil {
		return nil, err
	}

	r.doc = doc
	return doc, nil
}
