package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/KrishMoond/eco/pkg/enums"
	"github.com/KrishMoond/eco/pkg/types"
)

// User is the authenticated shopper or administrator.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string         `gorm:"column:name;not null"`
	Email        string         `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;not null;default:'customer'"`
	Address      *types.Address `gorm:"column:address;type:jsonb;serializer:json"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
