package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles. CAJERO may sell and read the catalog; ADMIN manages catalog,
// stock, settings, users and reports.
const (
	RoleAdmin  = "ADMIN"
	RoleCajero = "CAJERO"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
