package pdf

import (
	"github.com/Baillie11/seo/internal/model"
	"github.com/Baillie11/seo/internal/report"
)

// writeValue renders a result value recursively. Runs of scalar
// mapping entries become key/value table rows; nested mappings get a
// sub-heading and recurse; lists become bullets.
func (p *page) writeValue(v model.Value, indent float64) {
	switch v.Kind {
	case model.KindScalar:
		p.textLine(v.Scalar, indent, colorBody)
	case model.KindError:
		p.errorLine(v.Scalar, indent)
	case model.KindList:
		p.writeList(v.List, indent)
	case model.KindMapping:
		p.writeMapping(v.Mapping, indent)
	}
}

// writeMapping renders ordered entries, keeping scalar entries as
// table rows and breaking out for nested values.
func (p *page) writeMapping(entries []model.Entry, indent float64) {
	for _, entry := range entries {
		label := report.PrettyLabel(entry.Label)
		switch entry.Value.Kind {
		case model.KindScalar:
			p.tableRow(label, entry.Value.Scalar, indent)
		case model.KindError:
			p.errorLine(label+": "+entry.Value.Scalar, indent)
		case model.KindList:
			p.labelLine(label, indent)
			p.writeList(entry.Value.List, indent+4)
		case model.KindMapping:
			p.labelLine(label, indent)
			p.writeMapping(entry.Value.Mapping, indent+4)
		}
	}
}

// writeList renders list elements as bullets, recursing for nested
// elements.
func (p *page) writeList(elems []model.Value, indent float64) {
	if len(elems) == 0 {
		p.textLine("None", indent, colorSubtle)
		return
	}
	for _, elem := range elems {
		if elem.Kind == model.KindScalar {
			p.bullet(elem.Scalar, indent)
			continue
		}
		p.writeValue(elem, indent+4)
	}
}

// tableRow draws one bordered key/value row. The row never splits
// across pages; when it would, a new page starts first.
func (p *page) tableRow(label, value string, indent float64) {
	valueWidth := p.width - labelColWidth - indent
	if value == "" {
		value = "-"
	}

	p.pdf.SetFont("Helvetica", "", 9)
	lines := len(p.pdf.SplitText(value, valueWidth-2))
	if lines < 1 {
		lines = 1
	}
	h := float64(lines)*5 + 2*rowPadding

	p.ensureSpace(h)

	x := p.left + indent
	y := p.pdf.GetY()

	p.pdf.SetFillColor(colorRowBG.r, colorRowBG.g, colorRowBG.b)
	p.pdf.SetDrawColor(colorGrid.r, colorGrid.g, colorGrid.b)
	p.pdf.Rect(x, y, labelColWidth, h, "FD")
	p.pdf.Rect(x+labelColWidth, y, valueWidth, h, "D")

	p.pdf.SetFont("Helvetica", "B", 9)
	p.setColor(colorBody)
	p.pdf.SetXY(x+1, y+rowPadding)
	p.pdf.MultiCell(labelColWidth-2, 5, label, "", "L", false)

	p.pdf.SetFont("Helvetica", "", 9)
	p.pdf.SetXY(x+labelColWidth+1, y+rowPadding)
	p.pdf.MultiCell(valueWidth-2, 5, value, "", "L", false)

	p.pdf.SetXY(p.left, y+h)
}

// labelLine draws a bold standalone label introducing nested content.
func (p *page) labelLine(label string, indent float64) {
	p.ensureSpace(lineHeight)
	p.pdf.SetFont("Helvetica", "B", 10)
	p.setColor(colorHeading)
	p.pdf.SetX(p.left + indent)
	p.pdf.CellFormat(p.width-indent, lineHeight, label, "", 1, "L", false, 0, "")
}

// textLine draws a plain wrapped line of text.
func (p *page) textLine(text string, indent float64, c rgb) {
	p.ensureSpace(lineHeight)
	p.pdf.SetFont("Helvetica", "", 9)
	p.setColor(c)
	p.pdf.SetX(p.left + indent)
	p.pdf.MultiCell(p.width-indent, 5, text, "", "L", false)
}

// errorLine draws a failure message in the failure color.
func (p *page) errorLine(text string, indent float64) {
	p.ensureSpace(lineHeight)
	p.pdf.SetFont("Helvetica", "B", 9)
	p.setColor(colorFail)
	p.pdf.SetX(p.left + indent)
	p.pdf.MultiCell(p.width-indent, 5, text, "", "L", false)
}

// bullet draws one bulleted line.
func (p *page) bullet(text string, indent float64) {
	p.ensureSpace(lineHeight)
	p.pdf.SetFont("Helvetica", "", 9)
	p.setColor(colorBody)
	p.pdf.SetX(p.left + indent)
	p.pdf.MultiCell(p.width-indent, 5, "- "+text, "", "L", false)
}

// scoreLine draws a score value colored by the pass threshold.
func (p *page) scoreLine(label string, score, passing int) {
	p.ensureSpace(lineHeight + 2)
	p.pdf.SetFont("Helvetica", "B", 12)
	if score >= passing {
		p.setColor(colorPass)
	} else {
		p.setColor(colorFail)
	}
	p.pdf.CellFormat(p.width, lineHeight+2, formatScore(label, score), "", 1, "L", false, 0, "")
}
