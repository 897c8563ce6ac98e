package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/services"
	"gearguard/pkg/api"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// ExportRequests streams the request register as an XLSX attachment.
func (c *ReportController) ExportRequests(ctx echo.Context) error {
	buf, err := c.reportService.ExportRequests(ctx.Request().Context())
	if err != nil {
		c.logger.Error("ExportRequests failed", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	filename := fmt.Sprintf("maintenance-requests-%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))

	return ctx.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
