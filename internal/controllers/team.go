package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/services"
	"gearguard/pkg/api"
	apperrors "gearguard/pkg/errors"
)

type TeamController struct {
	teamService services.TeamServiceInterface
	logger      *zap.Logger
}

func NewTeamController(teamService services.TeamServiceInterface, logger *zap.Logger) *TeamController {
	return &TeamController{teamService: teamService, logger: logger}
}

func (c *TeamController) GetTeams(ctx echo.Context) error {
	teams, err := c.teamService.GetTeams(ctx.Request().Context())
	if err != nil {
		c.logger.Error("GetTeams failed", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessList(ctx, "team list", teams, uint64(len(teams)), 1, len(teams))
}

func (c *TeamController) FindTeam(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	team, err := c.teamService.FindTeam(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Error("FindTeam failed", zap.String("id", id.String()), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusOK, "team found", team)
}

func (c *TeamController) CreateTeam(ctx echo.Context) error {
	var payload dto.CreateTeamDTO
	if err := ctx.Bind(&payload); err != nil {
		return api.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil))
	}
	if err := ctx.Validate(&payload); err != nil {
		return api.ErrorResponse(ctx, err)
	}

	team, err := c.teamService.CreateTeam(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Error("CreateTeam failed", zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessOne(ctx, http.StatusCreated, "team created", team)
}

func (c *TeamController) GetTeamMembers(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	members, err := c.teamService.GetTeamMembers(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Error("GetTeamMembers failed", zap.String("id", id.String()), zap.Error(err))
		return api.ErrorResponse(ctx, err)
	}

	return api.SuccessList(ctx, "team members", members, uint64(len(members)), 1, len(members))
}
