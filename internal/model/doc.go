// Package model defines the core data structures shared across the
// analysis pipeline: the tagged Value variant that analyzers produce,
// and the Report that aggregates per-category results.
//
// Design decision: Value is a discriminated union (Scalar | List |
// Mapping | Error) rather than a free-form map[string]any because:
//  1. The renderer can pattern-match exhaustively on Kind
//  2. Mappings keep insertion order, making rendering deterministic
//  3. Error markers stay distinguishable from legitimate results
package model
