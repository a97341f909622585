package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/blsh/salon-dashboard/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves report downloads
type ExportHandler struct {
	store   TableReader
	clock   *services.TimeNormalizer
	exports *services.ExportService
	logger  *logrus.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(store TableReader, clock *services.TimeNormalizer, exports *services.ExportService, logger *logrus.Logger) *ExportHandler {
	return &ExportHandler{
		store:   store,
		clock:   clock,
		exports: exports,
		logger:  logger,
	}
}

// Download handles GET /api/v1/exports/:report
func (h *ExportHandler) Download(c *gin.Context) {
	report := c.Param("report")

	var src services.ReportSources
	switch report {
	case services.ReportIncentives, services.ReportTopClients, services.ReportLastVisits:
		src.Services = h.clock.Normalize(h.store.LoadOrEmpty(models.TableServiceSales))
	case services.ReportProductIncentives:
		src.Products = h.clock.Normalize(h.store.LoadOrEmpty(models.TableProductSales))
	case services.ReportAttendance:
		src.Attendance = h.store.LoadOrEmpty(models.TableAttendance)
	}

	data, err := h.exports.BuildReport(report, src)
	if errors.Is(err, services.ErrUnknownReport) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "unknown_report",
			Message: "No export named " + report,
		})
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("report", report).Error("Failed to build export")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "export_failed",
			Message: "Failed to build the report",
		})
		return
	}

	filename := fmt.Sprintf("%s_%s.xlsx", report, h.clock.Today().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
