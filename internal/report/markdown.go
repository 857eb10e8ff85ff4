package report

import (
	"io"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/Baillie11/seo/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)

	if report.Failed() {
		md.Warning(report.Err)
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	for _, warning := range report.Warnings {
		md.Warning(warning)
		md.PlainText("")
	}

	for _, section := range report.Categories {
		w.writeSection(md, section.Name, section.Result)
	}
	for _, section := range report.Enhanced {
		w.writeSection(md, PrettyLabel(section.Name), section.Result)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with analysis information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("SEO Analysis Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Website", "`" + report.URL + "`"},
			{"Analysis Date", report.AnalysisDate.Format("2006-01-02 15:04:05 MST")},
			{"Status", w.statusText(report)},
		},
	})
	md.PlainText("")
}

// statusText returns the status cell based on report state.
func (w *MarkdownWriter) statusText(report *model.Report) string {
	if report.Failed() {
		return "❌ Failed - " + report.Err
	}
	if n := report.ErrorCount(); n > 0 {
		return "⚠️ Complete with errors"
	}
	return "✅ Complete"
}

// writeSection writes one category or enhanced section under an H2.
func (w *MarkdownWriter) writeSection(md *markdown.Markdown, name string, result model.Value) {
	md.H2(name)
	md.PlainText("")

	if result.IsError() {
		md.Warning(result.Scalar)
		md.PlainText("")
		return
	}

	// Mappings of scalars render as a two-column table; everything
	// else falls back to nested bullets.
	if rows, ok := scalarRows(result); ok {
		md.Table(markdown.TableSet{
			Header: []string{"Metric", "Value"},
			Rows:   rows,
		})
		md.PlainText("")
		return
	}

	w.writeValue(md, result, 0)
	md.PlainText("")
}

// scalarRows flattens a mapping into table rows when every entry is a
// scalar. The second return is false for nested or non-mapping values.
func scalarRows(v model.Value) ([][]string, bool) {
	if v.Kind != model.KindMapping {
		return nil, false
	}
	rows := make([][]string, 0, len(v.Mapping))
	for _, e := range v.Mapping {
		if e.Value.Kind != model.KindScalar {
			return nil, false
		}
		rows = append(rows, []string{PrettyLabel(e.Label), e.Value.Scalar})
	}
	return rows, true
}

// writeValue renders a nested value as an indented bullet list.
func (w *MarkdownWriter) writeValue(md *markdown.Markdown, v model.Value, depth int) {
	indent := strings.Repeat("  ", depth)

	switch v.Kind {
	case model.KindScalar:
		md.PlainText(indent + "- " + v.Scalar)
	case model.KindError:
		md.PlainText(indent + "- ⚠️ " + v.Scalar)
	case model.KindList:
		if len(v.List) == 0 {
			md.PlainText(indent + "- None")
			return
		}
		for _, elem := range v.List {
			w.writeValue(md, elem, depth)
		}
	case model.KindMapping:
		for _, entry := range v.Mapping {
			label := PrettyLabel(entry.Label)
			if entry.Value.Kind == model.KindScalar {
				md.PlainText(indent + "- **" + label + "**: " + entry.Value.Scalar)
				continue
			}
			md.PlainText(indent + "- **" + label + "**:")
			w.writeValue(md, entry.Value, depth+1)
		}
	}
}

// writeFooter writes the generator attribution.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by seoaudit*")
}
