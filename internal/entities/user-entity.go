package entities

import (
	"time"

	"github.com/google/uuid"
)

// User is a technician or employee. There are no credentials here; access
// control lives outside this service.
type User struct {
	ID        uuid.UUID  `json:"id"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	TeamID    *uuid.UUID `json:"team_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
