package pdf

import (
	"fmt"

	"github.com/Baillie11/seo/internal/analyzer"
	"github.com/Baillie11/seo/internal/enhanced"
	"github.com/Baillie11/seo/internal/model"
	"github.com/Baillie11/seo/internal/report"
)

var passingScore = analyzer.DefaultRules().PassingScore

// writeEnhanced renders one enhanced section, using a purpose-built
// layout per analyzer and falling back to the generic value walk for
// anything unrecognized.
func (r *Renderer) writeEnhanced(p *page, section model.Section) {
	if section.Result.IsError() {
		p.subHeader(report.PrettyLabel(section.Name))
		p.errorLine(section.Result.Scalar, 0)
		p.pdf.Ln(sectionGap)
		return
	}

	switch section.Name {
	case enhanced.SectionCompetitor:
		p.writeCompetitor(section.Result)
	case enhanced.SectionKeywords:
		p.writeKeywords(section.Result)
	case enhanced.SectionMobile:
		p.writeMobile(section.Result)
	case enhanced.SectionSpeed:
		p.writeSpeed(section.Result)
	case enhanced.SectionRecommendations:
		p.writeRecommendations(section.Result)
	default:
		p.subHeader(report.PrettyLabel(section.Name))
		p.writeValue(section.Result, 0)
	}
	p.pdf.Ln(sectionGap)
}

// writeCompetitor renders the main-vs-competitors comparison table.
// When every competitor fetch failed the summary is absent and only
// the per-site details render.
func (p *page) writeCompetitor(v model.Value) {
	p.subHeader("Competitor Analysis")

	if summary, ok := v.Get("summary"); ok {
		rows := make([][]string, 0, 2)
		if wc, ok := summary.Get("word_count"); ok {
			rows = append(rows, comparisonRow("Word Count", wc))
		}
		if lt, ok := summary.Get("load_time"); ok {
			rows = append(rows, comparisonRow("Load Time", lt))
		}
		if len(rows) > 0 {
			p.headerTable(
				[]string{"Metric", "Your Website", "Competitor Average"},
				rows,
				[]float64{50, 50, 50},
			)
		}
		if mt, ok := summary.Get("meta_tags"); ok {
			p.writeMapping(mt.Mapping, 0)
		}
		return
	}

	// No summary means the main fetch or all competitors failed.
	p.writeValue(v, 0)
}

// comparisonRow flattens a {main, avg_competitors} block into one row.
func comparisonRow(metric string, block model.Value) []string {
	main, _ := block.Get("main")
	avg, _ := block.Get("avg_competitors")
	return []string{metric, main.Scalar, avg.Scalar}
}

// writeKeywords renders the density table and suggested keyword list.
func (p *page) writeKeywords(v model.Value) {
	p.subHeader("Keyword Analysis")

	if current, ok := v.Get("current_keywords"); ok {
		if density, ok := current.Get("keyword_density"); ok && len(density.Mapping) > 0 {
			rows := make([][]string, 0, len(density.Mapping))
			for _, entry := range density.Mapping {
				rows = append(rows, []string{entry.Label, densityText(entry.Value)})
			}
			p.headerTable([]string{"Keyword", "Density"}, rows, []float64{75, 75})
		}
	}

	if suggested, ok := v.Get("suggested_keywords"); ok && len(suggested.List) > 0 {
		p.labelLine("Suggested Keywords", 0)
		p.writeList(suggested.List, 4)
	}

	if recs, ok := v.Get("recommendations"); ok {
		p.labelLine("Recommendations", 0)
		p.writeMapping(recs.Mapping, 4)
	}
}

// densityText extracts the display density from a density entry,
// which is either a scalar percentage or a {count, density} mapping.
func densityText(v model.Value) string {
	if v.Kind == model.KindMapping {
		if d, ok := v.Get("density"); ok {
			return d.Scalar
		}
	}
	return v.Scalar
}

// writeMobile renders the colored score line and per-check findings.
func (p *page) writeMobile(v model.Value) {
	p.subHeader("Mobile Friendliness")

	if score, ok := v.Get("mobile_score"); ok && score.IsNumber {
		p.scoreLine("Mobile Score", int(score.Number), passingScore)
	}

	if checks, ok := v.Get("checks"); ok {
		for _, check := range checks.Mapping {
			p.labelLine(report.PrettyLabel(check.Label), 0)
			if msg, ok := check.Value.Get("message"); ok {
				p.textLine(msg.Scalar, 4, colorBody)
			}
			if rec, ok := check.Value.Get("recommendation"); ok && rec.Scalar != "" {
				p.textLine("Recommendation: "+rec.Scalar, 4, colorAccent)
			}
		}
	}
}

// writeSpeed renders the performance score, resource-breakdown table,
// and prioritized recommendations.
func (p *page) writeSpeed(v model.Value) {
	p.subHeader("Speed Insights")

	if score, ok := v.Get("performance_score"); ok && score.IsNumber {
		p.scoreLine("Performance Score", int(score.Number), passingScore)
	}
	if load, ok := v.Get("load_time"); ok {
		p.tableRow("Load Time", load.Scalar+"s", 0)
	}

	if size, ok := v.Get("page_size"); ok {
		if breakdown, ok := size.Get("breakdown"); ok && len(breakdown.Mapping) > 0 {
			p.labelLine("Resource Breakdown", 0)
			rows := make([][]string, 0, len(breakdown.Mapping))
			for _, entry := range breakdown.Mapping {
				mb := entry.Value.Number / 1024
				rows = append(rows, []string{
					report.PrettyLabel(entry.Label),
					fmt.Sprintf("%.2f", mb),
				})
			}
			p.headerTable([]string{"Resource Type", "Size (MB)"}, rows, []float64{75, 75})
		}
	}

	if recs, ok := v.Get("recommendations"); ok && len(recs.List) > 0 {
		p.labelLine("Recommendations", 0)
		for _, rec := range recs.List {
			if msg, ok := rec.Get("message"); ok {
				p.bullet(msg.Scalar, 0)
			}
			if action, ok := rec.Get("recommendation"); ok {
				p.textLine(action.Scalar, 6, colorAccent)
			}
		}
	}
}

// writeRecommendations renders the prioritized recommendation lists.
func (p *page) writeRecommendations(v model.Value) {
	p.subHeader("Recommendations")

	groups := []struct {
		key   string
		label string
		color rgb
	}{
		{"critical", "Critical", colorFail},
		{"warnings", "Warnings", colorHeading},
		{"suggestions", "Suggestions", colorAccent},
	}

	for _, g := range groups {
		items, ok := v.Get(g.key)
		if !ok || len(items.List) == 0 {
			continue
		}
		p.labelLine(g.label, 0)
		for _, item := range items.List {
			if msg, ok := item.Get("message"); ok {
				p.bullet(msg.Scalar, 0)
			}
			if action, ok := item.Get("action"); ok {
				p.textLine(action.Scalar, 6, g.color)
			}
		}
	}
}

// headerTable draws a fixed-column table with a filled header row.
// Rows never split across pages.
func (p *page) headerTable(headers []string, rows [][]string, widths []float64) {
	rowH := float64(5 + 2*rowPadding)
	p.ensureSpace(rowH * 2)

	p.pdf.SetDrawColor(colorGrid.r, colorGrid.g, colorGrid.b)
	p.pdf.SetFillColor(colorRowBG.r, colorRowBG.g, colorRowBG.b)
	p.pdf.SetFont("Helvetica", "B", 9)
	p.setColor(colorBody)
	for i, h := range headers {
		p.pdf.CellFormat(widths[i], rowH, h, "1", 0, "L", true, 0, "")
	}
	p.pdf.Ln(rowH)

	p.pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		p.ensureSpace(rowH)
		for i, cell := range row {
			p.pdf.CellFormat(widths[i], rowH, cell, "1", 0, "L", false, 0, "")
		}
		p.pdf.Ln(rowH)
	}
}

// formatScore renders "<label>: <n>/100".
func formatScore(label string, score int) string {
	return fmt.Sprintf("%s: %d/100", label, score)
}
