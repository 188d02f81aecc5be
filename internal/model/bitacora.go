package model

import (
	"time"

	"github.com/google/uuid"
)

// Categorías de bitácora.
const (
	BitacoraWorkflow  = "WORKFLOW"
	BitacoraImpresion = "IMPRESION"
	BitacoraSistema   = "SISTEMA"
)

// Bitacora is an append-only audit entry. Entries are enqueued before the
// originating business-rule failure is surfaced, so a rejected capture still
// leaves its trace.
type Bitacora struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TramiteID *uuid.UUID `gorm:"type:uuid;index"`
	Folio     string     `gorm:"index"`
	Categoria string     `gorm:"type:varchar(20);index;not null"`
	Accion    string     `gorm:"not null"`
	Usuario   string     `gorm:"index;not null"`
	Unidad    string
	Datos     map[string]any `gorm:"serializer:json"`
	Fecha     time.Time      `gorm:"index;not null"`
}
