package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/mbcx07/SISTRA/internal/rbac"
)

// Usuario is an authenticated system principal. Users are never hard-deleted:
// Activo=false disables login while preserving the bitácora trail.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Matricula    string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Role         rbac.Role `gorm:"type:varchar(30);not null"`
	// Unidad scopes CAPTURISTA_UNIDAD captures and updates to their home unit
	Unidad    string `gorm:"not null"`
	OOAD      string `gorm:"column:ooad;not null"`
	Activo    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
