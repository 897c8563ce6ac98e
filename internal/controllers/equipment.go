package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/services"
	"gearguard/pkg/api"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/utils"
)

type EquipmentController struct {
	equipmentService services.EquipmentServiceInterface
	requestService   services.MaintenanceRequestServiceInterface
	logger           *zap.Logger
}

func NewEquipmentController(
	equipmentService services.EquipmentServiceInterface,
	requestService services.MaintenanceRequestServiceInterface,
	logger *zap.Logger,
) *EquipmentController {
	return &EquipmentController{
		equipmentService: equipmentService,
		requestService:   requestService,
		logger:           logger,
	}
}

func (c *EquipmentController) GetEquipments(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	list, total, err := c.equipmentService.GetEquipments(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("GetEquipments failed", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessList(ctx, "equipment list", list, total, filter.Page, filter.Limit)
}

func (c *EquipmentController) FindEquipment(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	eq, err := c.equipmentService.FindEquipment(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Error("FindEquipment failed", zap.String("id", id.String()), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusOK, "equipment found", eq)
}

// GetAutofill serves the request-form derivation: category, team and default
// technician for the selected equipment.
func (c *EquipmentController) GetAutofill(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	autofill, err := c.equipmentService.GetAutofill(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Warn("GetAutofill refused", zap.String("id", id.String()), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusOK, "autofill data", autofill)
}

func (c *EquipmentController) GetEquipmentRequests(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	filter.Filter = map[string]interface{}{"equipment_id": id.String()}

	list, total, err := c.requestService.GetRequests(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("GetEquipmentRequests failed", zap.String("id", id.String()), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessList(ctx, "equipment requests", list, total, filter.Page, filter.Limit)
}

func (c *EquipmentController) GetOpenCount(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	count, err := c.equipmentService.GetOpenCount(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Error("GetOpenCount failed", zap.String("id", id.String()), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusOK, "open request count", count)
}

func (c *EquipmentController) CreateEquipment(ctx echo.Context) error {
	var payload dto.CreateEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil))
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	eq, err := c.equipmentService.CreateEquipment(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Error("CreateEquipment failed", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusCreated, "equipment created", eq)
}

func (c *EquipmentController) UpdateEquipment(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	var payload dto.UpdateEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil))
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	eq, err := c.equipmentService.UpdateEquipment(ctx.Request().Context(), id, payload)
	if err != nil {
		c.logger.Error("UpdateEquipment failed", zap.String("id", id.String()), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusOK, "equipment updated", eq)
}

func parseIDParam(ctx echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.NewHttpError(http.StatusBadRequest, "invalid id parameter", err, map[string]interface{}{"param": ctx.Param("id")})
	}
	return id, nil
}
