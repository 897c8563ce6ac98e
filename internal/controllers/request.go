package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/services"
	"gearguard/pkg/api"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/utils"
)

type MaintenanceRequestController struct {
	requestService services.MaintenanceRequestServiceInterface
	logger         *zap.Logger
}

func NewMaintenanceRequestController(requestService services.MaintenanceRequestServiceInterface, logger *zap.Logger) *MaintenanceRequestController {
	return &MaintenanceRequestController{requestService: requestService, logger: logger}
}

func (c *MaintenanceRequestController) GetRequests(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	list, total, err := c.requestService.GetRequests(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("GetRequests failed", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessList(ctx, "request list", list, total, filter.Page, filter.Limit)
}

func (c *MaintenanceRequestController) FindRequest(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	req, err := c.requestService.FindRequest(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Error("FindRequest failed", zap.String("id", id.String()), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusOK, "request found", req)
}

func (c *MaintenanceRequestController) CreateRequest(ctx echo.Context) error {
	var payload dto.CreateMaintenanceRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil))
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	req, err := c.requestService.CreateRequest(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Warn("CreateRequest refused", zap.String("subject", payload.Subject), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusCreated, "request created", req)
}

// UpdateStatus drives the request lifecycle. The service enforces which
// transitions are legal and what each terminal status requires.
func (c *MaintenanceRequestController) UpdateStatus(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	var payload dto.UpdateRequestStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil))
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	req, err := c.requestService.Transition(ctx.Request().Context(), id, payload)
	if err != nil {
		c.logger.Warn("UpdateStatus refused",
			zap.String("id", id.String()),
			zap.String("target", payload.Status),
			zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusOK, "request status updated", req)
}

func (c *MaintenanceRequestController) Complete(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	var payload dto.CompleteRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil))
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	req, err := c.requestService.Complete(ctx.Request().Context(), id, payload)
	if err != nil {
		c.logger.Warn("Complete refused", zap.String("id", id.String()), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusOK, "request completed", req)
}

func (c *MaintenanceRequestController) Reassign(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	var payload dto.ReassignRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil))
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	req, err := c.requestService.Reassign(ctx.Request().Context(), id, payload)
	if err != nil {
		c.logger.Warn("Reassign refused", zap.String("id", id.String()), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusOK, "request reassigned", req)
}

// GetCalendar buckets preventive requests by scheduled date. Without query
// bounds it covers the current month.
func (c *MaintenanceRequestController) GetCalendar(ctx echo.Context) error {
	from := ctx.QueryParam("from")
	to := ctx.QueryParam("to")

	buckets, err := c.requestService.GetCalendar(ctx.Request().Context(), from, to)
	if err != nil {
		c.logger.Error("GetCalendar failed", zap.String("from", from), zap.String("to", to), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusOK, "preventive calendar", buckets)
}
