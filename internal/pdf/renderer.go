package pdf

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Baillie11/seo/internal/model"
)

// Layout constants in millimeters, tuned for A4 portrait.
const (
	lineHeight    = 6
	rowPadding    = 1
	bottomMargin  = 20
	labelColWidth = 65
	sectionGap    = 4
)

// Palette used throughout the document.
var (
	colorHeading = rgb{44, 62, 80}    // dark slate
	colorSubtle  = rgb{102, 102, 102} // gray
	colorAccent  = rgb{13, 110, 253}  // blue
	colorPass    = rgb{40, 167, 69}   // green
	colorFail    = rgb{220, 53, 69}   // red
	colorWarnBG  = rgb{255, 243, 205} // pale yellow
	colorRowBG   = rgb{248, 249, 250} // near white
	colorGrid    = rgb{222, 226, 230} // light gray
	colorBody    = rgb{33, 37, 41}    // near black
)

type rgb struct{ r, g, b int }

// Document describes a rendered report file on disk.
type Document struct {
	// Path is the absolute or relative path of the written file.
	Path string

	// Filename is the file's base name, used by download endpoints.
	Filename string

	// Pages is the page count of the rendered document.
	Pages int
}

// Renderer writes reports as PDF files into a dedicated directory.
//
// Design decision: the clock is injectable so tests can pin the
// timestamp-salted filename; production code uses time.Now.
type Renderer struct {
	outputDir string
	now       func() time.Time
	logger    *slog.Logger
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithOutputDir sets the directory rendered files are written into.
func WithOutputDir(dir string) RendererOption {
	return func(r *Renderer) {
		r.outputDir = dir
	}
}

// WithClock overrides the time source used for filenames.
func WithClock(now func() time.Time) RendererOption {
	return func(r *Renderer) {
		r.now = now
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) RendererOption {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// NewRenderer creates a Renderer writing into "reports" by default.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		outputDir: "reports",
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// page wraps the fpdf document with vertical-position tracking.
type page struct {
	pdf    *fpdf.Fpdf
	width  float64 // usable width between margins
	breakY float64 // y position past which a new page starts
	left   float64
}

// Render writes the report as a PDF and returns the resulting document.
// Categories are emitted in the order of selected; names absent from
// the report are skipped. A report that failed as a whole produces a
// single page carrying only the title, URL, and failure message.
func (r *Renderer) Render(report *model.Report, selected []string) (*Document, error) {
	if err := os.MkdirAll(r.outputDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}

	f, filename, err := r.createReportFile(report.URL)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(r.outputDir, filename)

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, bottomMargin)
	doc.AddPage()

	pageWidth, pageHeight := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	p := &page{
		pdf:    doc,
		width:  pageWidth - left - right,
		breakY: pageHeight - bottomMargin,
		left:   left,
	}

	r.writeTitle(p, report)

	if report.Failed() {
		p.setColor(colorFail)
		p.pdf.SetFont("Helvetica", "B", 12)
		p.pdf.MultiCell(p.width, lineHeight, report.Err, "", "L", false)
	} else {
		r.writeBody(p, report, selected)
	}

	if err := doc.Output(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}

	r.logger.Info("rendered report",
		slog.String("path", path),
		slog.Int("pages", doc.PageCount()))

	return &Document{
		Path:     path,
		Filename: filename,
		Pages:    doc.PageCount(),
	}, nil
}

// maxFilenameAttempts bounds the suffix search in createReportFile.
const maxFilenameAttempts = 100

// createReportFile creates the output file without ever overwriting
// an existing report. The timestamp in the filename has second
// granularity, so renders of the same URL within one second would
// collide; those get a numeric suffix instead.
func (r *Renderer) createReportFile(url string) (*os.File, string, error) {
	base := Filename(url, r.now())
	stem := strings.TrimSuffix(base, ".pdf")

	name := base
	for attempt := 2; ; attempt++ {
		path := filepath.Join(r.outputDir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			return f, name, nil
		}
		if !os.IsExist(err) {
			return nil, "", fmt.Errorf("failed to create %s: %w", path, err)
		}
		if attempt > maxFilenameAttempts {
			return nil, "", fmt.Errorf("no unique filename available for %s", base)
		}
		name = fmt.Sprintf("%s_%d.pdf", stem, attempt)
	}
}

// writeTitle emits the document header shared by all reports.
func (r *Renderer) writeTitle(p *page, report *model.Report) {
	p.pdf.SetFont("Helvetica", "B", 22)
	p.setColor(colorHeading)
	p.pdf.CellFormat(p.width, 12, "SEO Analysis Report", "", 1, "L", false, 0, "")

	p.pdf.SetFont("Helvetica", "B", 14)
	p.setColor(colorAccent)
	p.pdf.CellFormat(p.width, 8, "for "+report.URL, "", 1, "L", false, 0, "")

	p.pdf.SetFont("Helvetica", "", 9)
	p.setColor(colorSubtle)
	date := report.AnalysisDate.Format("January 2, 2006 at 3:04 PM")
	p.pdf.CellFormat(p.width, lineHeight, "Analysis Date: "+date, "", 1, "L", false, 0, "")
	p.pdf.Ln(sectionGap)
}

// writeBody emits categories, warnings, enhanced sections, and the
// guide appendix for a successful report.
func (r *Renderer) writeBody(p *page, report *model.Report, selected []string) {
	for _, name := range selected {
		result, ok := report.Category(name)
		if !ok {
			continue
		}
		p.sectionHeader(name)
		p.writeValue(result, 0)
		p.pdf.Ln(sectionGap)
	}

	for _, warning := range report.Warnings {
		p.warningBlock(warning)
	}

	if len(report.Enhanced) > 0 {
		p.sectionHeader("Enhanced Analysis Results")
		for _, section := range report.Enhanced {
			r.writeEnhanced(p, section)
		}
	}

	r.writeGuide(p)
}

// setColor sets the current text color.
func (p *page) setColor(c rgb) {
	p.pdf.SetTextColor(c.r, c.g, c.b)
}

// ensureSpace starts a new page when less than h millimeters remain.
// Callers invoke this before drawing any unit that must not straddle
// a page boundary.
func (p *page) ensureSpace(h float64) {
	if p.pdf.GetY()+h > p.breakY {
		p.pdf.AddPage()
	}
}

// sectionHeader draws a category heading with a rule under it.
func (p *page) sectionHeader(name string) {
	p.ensureSpace(lineHeight * 3)
	p.pdf.SetFont("Helvetica", "B", 13)
	p.setColor(colorHeading)
	p.pdf.CellFormat(p.width, 8, name, "", 1, "L", false, 0, "")
	p.pdf.SetDrawColor(colorGrid.r, colorGrid.g, colorGrid.b)
	y := p.pdf.GetY()
	p.pdf.Line(p.left, y, p.left+p.width, y)
	p.pdf.Ln(2)
}

// subHeader draws a nested heading inside a section.
func (p *page) subHeader(name string) {
	p.ensureSpace(lineHeight * 2)
	p.pdf.SetFont("Helvetica", "B", 11)
	p.setColor(colorHeading)
	p.pdf.CellFormat(p.width, 7, name, "", 1, "L", false, 0, "")
}

// warningBlock draws one top-level warning on a highlighted background.
func (p *page) warningBlock(text string) {
	p.ensureSpace(lineHeight * 2)
	p.pdf.SetFillColor(colorWarnBG.r, colorWarnBG.g, colorWarnBG.b)
	p.pdf.SetFont("Helvetica", "B", 10)
	p.setColor(colorHeading)
	p.pdf.MultiCell(p.width, lineHeight+rowPadding, "Warning: "+text, "", "L", true)
	p.pdf.Ln(2)
}
