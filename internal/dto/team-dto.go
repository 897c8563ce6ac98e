package dto

import "github.com/aarondl/null/v8"

type CreateTeamDTO struct {
	Name      string      `json:"name" validate:"required"`
	Specialty null.String `json:"specialty"`
}
