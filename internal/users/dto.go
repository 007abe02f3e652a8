package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/KrishMoond/eco/pkg/db/models"
	"github.com/KrishMoond/eco/pkg/enums"
	"github.com/KrishMoond/eco/pkg/types"
)

// UserDTO is the API shape of a user account. The password hash never leaves
// the storage layer.
type UserDTO struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      enums.UserRole  `json:"role"`
	Address   *types.Address  `json:"address,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewUserDTO maps the storage model to its API shape.
func NewUserDTO(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Address:   user.Address,
		CreatedAt: user.CreatedAt,
	}
}
