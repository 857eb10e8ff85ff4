package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Baillie11/seo/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting and indentation matching the result's nesting depth.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no findings are shown.
	showEmpty bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
// Failed reports render only the header and the failure message.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)

	if report.Failed() {
		sb.WriteString(fmt.Sprintf("  ERROR: %s\n\n", report.Err))
		return w.output.Write([]byte(sb.String()))
	}

	w.writeWarnings(&sb, report)

	for _, section := range report.Categories {
		w.writeSection(&sb, section)
	}
	for _, section := range report.Enhanced {
		w.writeSection(&sb, model.Section{
			Name:   PrettyLabel(section.Name),
			Result: section.Result,
		})
	}

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with analysis information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.Report) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                       SEO ANALYSIS REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Website:       %s\n", report.URL))
	sb.WriteString(fmt.Sprintf("Analysis Date: %s\n", report.AnalysisDate.Format("2006-01-02 15:04:05 MST")))

	if report.Failed() {
		sb.WriteString("Status:        FAILED\n")
	} else if n := report.ErrorCount(); n > 0 {
		sb.WriteString(fmt.Sprintf("Status:        Complete (%d sections failed)\n", n))
	} else {
		sb.WriteString("Status:        Complete\n")
	}

	sb.WriteString("\n")
}

// writeWarnings writes the top-level warnings block.
func (w *SimpleWriter) writeWarnings(sb *strings.Builder, report *model.Report) {
	if len(report.Warnings) == 0 {
		return
	}

	for _, warning := range report.Warnings {
		sb.WriteString(fmt.Sprintf("  [!] %s\n", warning))
	}
	sb.WriteString("\n")
}

// writeSection writes one category or enhanced section.
func (w *SimpleWriter) writeSection(sb *strings.Builder, section model.Section) {
	if isEmpty(section.Result) && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(strings.ToUpper(section.Name))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	w.writeValue(sb, section.Result, 1)
	sb.WriteString("\n")
}

// writeValue renders a result value recursively, indenting one level
// per nesting depth.
func (w *SimpleWriter) writeValue(sb *strings.Builder, v model.Value, depth int) {
	indent := strings.Repeat("  ", depth)

	switch v.Kind {
	case model.KindScalar:
		sb.WriteString(indent)
		sb.WriteString(v.Scalar)
		sb.WriteString("\n")
	case model.KindError:
		sb.WriteString(indent)
		sb.WriteString(fmt.Sprintf("[!] %s\n", v.Scalar))
	case model.KindList:
		if len(v.List) == 0 {
			sb.WriteString(indent)
			sb.WriteString("None\n")
			return
		}
		for _, elem := range v.List {
			if elem.Kind == model.KindScalar {
				sb.WriteString(indent)
				sb.WriteString(fmt.Sprintf("- %s\n", elem.Scalar))
				continue
			}
			w.writeValue(sb, elem, depth)
		}
	case model.KindMapping:
		for _, entry := range v.Mapping {
			label := PrettyLabel(entry.Label)
			if entry.Value.Kind == model.KindScalar {
				sb.WriteString(indent)
				sb.WriteString(fmt.Sprintf("%s: %s\n", label, entry.Value.Scalar))
				continue
			}
			sb.WriteString(indent)
			sb.WriteString(label)
			sb.WriteString(":\n")
			w.writeValue(sb, entry.Value, depth+1)
		}
	}
}

// isEmpty reports whether a value renders to nothing.
func isEmpty(v model.Value) bool {
	switch v.Kind {
	case model.KindScalar, model.KindError:
		return v.Scalar == ""
	case model.KindList:
		return len(v.List) == 0
	case model.KindMapping:
		return len(v.Mapping) == 0
	}
	return true
}
