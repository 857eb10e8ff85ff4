// Package fetch provides the document-fetch capability used by the
// orchestrator and by individual analyzers for read-only sub-requests.
//
// All outbound HTTP traffic in the application flows through a
// fetch.Client so that timeouts, body limits, and error classification
// stay consistent, and so analyzers remain testable against fakes.
package fetch
