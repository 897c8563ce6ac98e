package dto

import "github.com/aarondl/null/v8"

type CreateUserDTO struct {
	FullName  string      `json:"full_name" validate:"required"`
	Email     string      `json:"email" validate:"required,email"`
	AvatarURL null.String `json:"avatar_url"`
	TeamID    null.String `json:"team_id"`
}
