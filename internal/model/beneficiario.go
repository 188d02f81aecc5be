package model

// TipoBeneficiario classifies who receives the eyewear.
type TipoBeneficiario string

const (
	Trabajador         TipoBeneficiario = "TRABAJADOR"
	Hijo               TipoBeneficiario = "HIJO"
	JubiladoPensionado TipoBeneficiario = "JUBILADO_PENSIONADO"
)

// TipoDocumento enumerates the evidence documents attached to a trámite.
type TipoDocumento string

const (
	DocReceta             TipoDocumento = "RECETA"
	DocIdentificacion     TipoDocumento = "IDENTIFICACION"
	DocReciboNomina       TipoDocumento = "RECIBO_NOMINA"
	DocActaNacimiento     TipoDocumento = "ACTA_NACIMIENTO"
	DocCURP               TipoDocumento = "CURP"
	DocConstanciaEstudios TipoDocumento = "CONSTANCIA_ESTUDIOS"
	DocDictamenMedico     TipoDocumento = "DICTAMEN_MEDICO"
	DocOtro               TipoDocumento = "OTRO"
)

// Valido reports whether d is a known document type.
func (d TipoDocumento) Valido() bool {
	switch d {
	case DocReceta, DocIdentificacion, DocReciboNomina, DocActaNacimiento,
		DocCURP, DocConstanciaEstudios, DocDictamenMedico, DocOtro:
		return true
	}
	return false
}

// DocumentosRequeridos returns the checklist for a beneficiary type.
// For HIJO the identification and payroll receipt are the titular's.
func DocumentosRequeridos(tipo TipoBeneficiario) []TipoDocumento {
	switch tipo {
	case Hijo:
		return []TipoDocumento{DocActaNacimiento, DocCURP, DocReceta, DocIdentificacion, DocReciboNomina}
	default:
		return []TipoDocumento{DocReceta, DocIdentificacion, DocReciboNomina}
	}
}

// Beneficiario describes the person receiving the eyewear. It is embedded in
// Tramite: the benefit record is the aggregate, not the person.
//
// NSSTrabajador is always the titular's NSS — a child's benefit is anchored
// to the working/retired titular, so it is present even when Tipo is HIJO.
type Beneficiario struct {
	Tipo             TipoBeneficiario `gorm:"type:varchar(30);not null"`
	Nombre           string           `gorm:"not null"`
	ApellidoPaterno  string
	ApellidoMaterno  string
	NSSTrabajador    string `gorm:"column:nss_trabajador;index;not null"`
	NSSHijo          string `gorm:"column:nss_hijo"`
	Matricula        string
	ClaveAdscripcion string
	EntidadLaboral   string
	TipoContratacion string
	FechaNacimiento  *string `gorm:"type:varchar(10)"` // YYYY-MM-DD
	OOAD             string  `gorm:"column:ooad"`
	// Titular identification, required when Tipo is HIJO
	TitularNombreCompleto string
	// Study-proof tracking for adult children
	RequiereConstanciaEstudios bool
	FechaConstanciaEstudios    *string `gorm:"type:varchar(10)"`
}
