package services

import (
	"bytes"
	"context"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gearguard/internal/repositories"
	"gearguard/pkg/types"
	"gearguard/pkg/utils"
)

type ReportServiceInterface interface {
	ExportRequests(ctx context.Context) (*bytes.Buffer, error)
}

type ReportService struct {
	requestRepo repositories.MaintenanceRequestRepositoryInterface
	logger      *zap.Logger
}

func NewReportService(requestRepo repositories.MaintenanceRequestRepositoryInterface, logger *zap.Logger) *ReportService {
	return &ReportService{requestRepo: requestRepo, logger: logger}
}

var exportHeaders = []string{
	"Subject", "Equipment", "Category", "Team", "Technician",
	"Type", "Priority", "Status", "Scheduled", "Hours Spent", "Completed", "Created",
}

// ExportRequests renders the full request register as an XLSX workbook.
func (s *ReportService) ExportRequests(ctx context.Context) (*bytes.Buffer, error) {
	requests, _, err := s.requestRepo.GetRequests(ctx, types.Filter{})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Requests"
	f.SetSheetName("Sheet1", sheet)

	for i, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for rowIdx, req := range requests {
		values := []interface{}{
			req.Subject,
			strOrEmpty(req.EquipmentName),
			strOrEmpty(req.Category),
			strOrEmpty(req.TeamName),
			strOrEmpty(req.TechnicianName),
			string(req.RequestType),
			string(req.Priority),
			string(req.Status),
			dateOrEmpty(req.ScheduledDate),
			hoursOrEmpty(req.HoursSpent),
			dateOrEmpty(req.CompletedDate),
			utils.FormatDate(req.CreatedAt),
		}
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	s.logger.Info("exported request register", zap.Int("rows", len(requests)))
	return f.WriteToBuffer()
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return utils.FormatDate(*t)
}

func hoursOrEmpty(h *float64) interface{} {
	if h == nil {
		return ""
	}
	return *h
}
