package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mbcx07/SISTRA/internal/workflow"
)

// DotacionMax is the hard ceiling on supply instances per beneficiary+contract.
// Policy allows 2; the 3rd and 4th exist only with a medical opinion attached,
// which is why DotacionNumero is clamped at 4 rather than 2.
const DotacionMax = 4

// DotacionesPermitidas is the normal-policy cap enforced on capture.
const DotacionesPermitidas = 2

// Impresiones tracks how many times each printable document was emitted for a
// trámite, plus the last reprint metadata. The counters are authoritative for
// original-vs-reprint classification (bitácora writes are asynchronous).
type Impresiones struct {
	Formato             int `gorm:"not null;default:0"`
	Tarjeta             int `gorm:"not null;default:0"`
	UltimaFecha         *time.Time
	UltimoUsuario       string
	UltimoMotivoReimpre string `gorm:"column:ultimo_motivo_reimpresion"`
}

// Tramite is the central aggregate: one eyewear-benefit request moving
// through the workflow. Immutable once Estatus is CERRADO, except for
// bitácora appends.
type Tramite struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folio string    `gorm:"uniqueIndex;not null"` // OOAD-UNIDAD-AÑO-CONSECUTIVO

	Beneficiario Beneficiario `gorm:"embedded;embeddedPrefix:beneficiario_"`

	// ContratoColectivoAplicable identifies the CCT whose 2-dotación cap
	// governs this request. Compared case-insensitively.
	ContratoColectivoAplicable string `gorm:"index;not null"`
	LugarSolicitud             string

	CreadorID uuid.UUID        `gorm:"type:uuid;not null"`
	Unidad    string           `gorm:"index;not null"`
	Estatus   workflow.Estatus `gorm:"type:varchar(30);index;not null"`

	// DotacionNumero is the 1-based sequence of this supply instance within
	// the (beneficiary scope, contract) pair.
	DotacionNumero         int  `gorm:"not null"`
	RequiereDictamenMedico bool `gorm:"not null;default:false"`
	MotivoRechazo          string

	// Importes — authorized amount is set only through an AUTORIZADO transition
	ImporteSolicitado      decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	ImporteAutorizado      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CostoSolicitud         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ValidadoPor            string
	FechaValidacionImporte *time.Time

	// Receta
	FolioRecetaIMSS       string `gorm:"column:folio_receta_imss;not null"`
	FechaExpedicionReceta string `gorm:"type:varchar(10)"` // YYYY-MM-DD
	DescripcionLente      string `gorm:"not null"`
	Dioptrias             string
	ClavePresupuestal     string
	QnaInclusion          string `gorm:"column:qna_inclusion"`

	// Fechas de proceso óptico
	FechaRecepcionOptica *time.Time
	FechaEntregaOptica   *time.Time
	FechaEntregaReal     *time.Time

	// Firmas
	FirmaAutorizacion string
	NombreAutorizador string

	Impresiones Impresiones `gorm:"embedded;embeddedPrefix:impresiones_"`
	Evidencias  []Evidencia `gorm:"foreignKey:TramiteID"`

	FechaCreacion time.Time `gorm:"index;not null"`
	UpdatedAt     time.Time
}

// Cerrado reports whether the trámite reached the terminal state.
func (t *Tramite) Cerrado() bool { return t.Estatus == workflow.Cerrado }

// Evidencia is an uploaded proof document (scanned receta, CURP, …) stored in
// object storage; ObjetoNombre is the storage key.
type Evidencia struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TramiteID    uuid.UUID     `gorm:"type:uuid;index;not null"`
	Tipo         TipoDocumento `gorm:"type:varchar(30);not null"`
	ObjetoNombre string        `gorm:"not null"`
	NombreOrig   string
	UsuarioCarga string
	FechaCarga   time.Time `gorm:"not null"`
}
