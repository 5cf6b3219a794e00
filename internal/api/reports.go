package api

import (
	"net/http"                          // HTTP status codes
	"smart_condominium/internal/domain" // Date layout
	"smart_condominium/internal/report" // Report builder and renderer
	"time"                              // Date validation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// FinancialReportHandler renders the expenses due in [start_date, end_date] as a PDF
func FinancialReportHandler(db *gorm.DB, renderer report.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, end := c.Query("start_date"), c.Query("end_date") // Optional bounds
		for _, d := range []string{start, end} {
			if d == "" {
				continue
			}
			if _, err := time.Parse(domain.DateLayout, d); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Dates must be YYYY-MM-DD"})
				return
			}
		}
		if renderer == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "PDF rendering is not configured"})
			return
		}
		fin, err := report.BuildFinancial(c.Request.Context(), db, start, end)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
			return
		}
		html, err := fin.HTML()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
			return
		}
		pdf, err := renderer.RenderPDF(c.Request.Context(), html)
		if err != nil {
			logrus.WithFields(logrus.Fields{"error": err.Error()}).Error("PDF rendering failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render report"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="financial_report.pdf"`)
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}
