// Package config provides configuration structures and utilities for
// the SEO auditor. It defines the options for fetching, analysis
// selection, report generation, and serve mode.
package config
