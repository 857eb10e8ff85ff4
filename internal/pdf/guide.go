package pdf

import (
	"log/slog"

	"github.com/Baillie11/seo/internal/metrics"
)

const guideIntro = "This guide explains the SEO metrics used in this report. " +
	"Each metric includes a description, what constitutes good and bad " +
	"values, and why it matters for your website's SEO performance."

// writeGuide appends the static metrics reference on a fresh page.
// The appendix is emitted for every successful report regardless of
// which categories were selected.
func (r *Renderer) writeGuide(p *page) {
	guide, err := metrics.Load()
	if err != nil {
		// The guide is embedded; a parse failure is a build defect.
		// Log and render the report without the appendix.
		r.logger.Error("failed to load metrics guide", slog.Any("error", err))
		return
	}

	p.pdf.AddPage()

	p.pdf.SetFont("Helvetica", "B", 20)
	p.setColor(colorHeading)
	p.pdf.CellFormat(p.width, 12, "SEO Metrics Guide", "", 1, "L", false, 0, "")
	p.pdf.Ln(2)

	p.textLine(guideIntro, 0, colorSubtle)
	p.pdf.Ln(sectionGap)

	for _, category := range guide.Categories {
		p.sectionHeader(category.Name)
		for _, metric := range category.Metrics {
			p.labelLine(metric.Name, 0)
			p.tableRow("Description", metric.Description, 0)
			p.tableRow("Good Value", metric.Good, 0)
			if metric.Warning != "" {
				p.tableRow("Warning Value", metric.Warning, 0)
			}
			p.tableRow("Poor Value", metric.Bad, 0)
			p.tableRow("Why it Matters", metric.Why, 0)
			p.pdf.Ln(2)
		}
	}
}
