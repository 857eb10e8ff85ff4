// Package analyzer contains the category analyzers and the registry
// that fixes their names, kinds, and execution order.
//
// Each analyzer is a stateless rule-based check over the fetched
// response and parsed markup. Analyzers never interact with each
// other, and any network sub-requests they issue (broken-link HEAD
// checks) are failure-isolated inside the analyzer body.
//
// The numeric thresholds the analyzers apply are business rules and
// live together in rules.go rather than scattered inline.
package analyzer
