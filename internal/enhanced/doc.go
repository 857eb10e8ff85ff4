// Package enhanced contains the heavier, network-bound analyzers that
// run on top of a standard audit: competitor comparison, keyword
// suggestion, mobile-friendliness testing, speed insight, and
// recommendation synthesis.
//
// The coordinator runs them concurrently and isolates failures: a
// failed analyzer surfaces as a single named error section, never as
// a partial result and never by aborting the batch. Outbound fetch
// fan-out is bounded by worker pools so an audit cannot hammer
// arbitrary third-party hosts.
package enhanced
