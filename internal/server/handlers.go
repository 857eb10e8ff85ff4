package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Baillie11/seo/internal/analyzer"
	"github.com/Baillie11/seo/internal/metrics"
	"github.com/Baillie11/seo/internal/model"
)

// analyzeRequest is the body of POST /analyze.
type analyzeRequest struct {
	URL        string   `json:"url" binding:"required"`
	Categories []string `json:"categories"`
	Keywords   []string `json:"keywords"`

	// Enhanced triggers the enhanced pass inline with the standard
	// analysis. Competitor URLs only matter when it is set.
	Enhanced    bool     `json:"enhanced"`
	Competitors []string `json:"competitor_urls"`
}

// enhancedRequest is the body of POST /api/enhanced-analysis.
type enhancedRequest struct {
	URL         string   `json:"url" binding:"required"`
	Competitors []string `json:"competitor_urls"`
	Keywords    []string `json:"keywords"`
}

// handleAnalyze runs the standard analysis (optionally plus the
// enhanced pass), renders a PDF, and returns the report together with
// the download filename.
//
// A PDF render failure does not fail the request: the on-screen report
// is still viewable, so the response carries a render_error instead.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: url is required"})
		return
	}

	selected := req.Categories
	if len(selected) == 0 {
		selected = analyzer.DefaultRegistry().Categories()
	}

	report := s.orchestrator.Run(c.Request.Context(), req.URL, selected, req.Keywords)

	if req.Enhanced && !report.Failed() {
		report.Enhanced = s.coordinator.Run(c.Request.Context(), report.URL, req.Competitors, req.Keywords)
	}

	response := gin.H{"report": report}

	if report.Failed() {
		c.JSON(http.StatusOK, response)
		return
	}

	pdfFilename := ""
	doc, err := s.renderer.Render(report, selected)
	if err != nil {
		s.logger.Error("pdf render failed",
			slog.String("url", report.URL),
			slog.Any("error", err))
		response["render_error"] = "Report could not be rendered as PDF"
	} else {
		pdfFilename = doc.Filename
		response["pdf_filename"] = doc.Filename
	}

	s.saveRun(c, report, pdfFilename)

	c.JSON(http.StatusOK, response)
}

// handleEnhanced runs only the enhanced analyzers and returns their
// sections keyed by name.
func (s *Server) handleEnhanced(c *gin.Context) {
	var req enhancedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: url is required"})
		return
	}

	sections := s.coordinator.Run(c.Request.Context(), req.URL, req.Competitors, req.Keywords)

	results := gin.H{}
	for _, section := range sections {
		results[section.Name] = section.Result
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// handleMetricsGuide returns the static metrics reference the PDF
// appendix is built from.
func (s *Server) handleMetricsGuide(c *gin.Context) {
	guide, err := metrics.Load()
	if err != nil {
		s.logger.Error("failed to load metrics guide", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Metrics guide unavailable"})
		return
	}

	c.JSON(http.StatusOK, guide)
}

// saveRun persists the run when a history store is configured.
func (s *Server) saveRun(c *gin.Context, report *model.Report, pdfFilename string) {
	if s.store == nil {
		return
	}

	if _, err := s.store.Save(c.Request.Context(), report, pdfFilename); err != nil {
		s.logger.Warn("failed to save run history", slog.Any("error", err))
	}
}
