// Package main provides the entry point for the seoaudit CLI.
//
// seoaudit analyzes a web page for on-page SEO quality. It fetches the
// page, runs a set of rule-based analyzers, and produces a PDF report
// plus an on-screen summary.
//
// Usage:
//
//	seoaudit audit <url>
//	seoaudit serve
//
// See --help for all available options.
package main

// main is the entry point for seoaudit.
func main() {
	Execute()
}
