// Package audit contains the analysis orchestrator: it fetches the
// target document once, dispatches it through the selected category
// analyzers in registration order, and assembles the unified report.
//
// The orchestrator's posture is tolerant and best-effort. Unknown
// category names are ignored, one analyzer's failure never disturbs
// its siblings, and only a failed fetch is fatal to the whole run.
package audit
