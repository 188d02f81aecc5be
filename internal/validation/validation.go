// Package validation agrupa las reglas puras de captura: funciones sin estado
// que regresan mensajes en lugar de errores, de modo que quien llama decide
// si bloquea o sólo advierte.
package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/mbcx07/SISTRA/internal/model"
)

const (
	// PasswordMinLen is the institutional minimum for any credential.
	PasswordMinLen = 10
	// VigenciaRecetaDias is how long a receta remains usable after issue.
	VigenciaRecetaDias = 90
	// VigenciaConstanciaMeses applies to the school-enrollment proof of
	// dependent children over 16.
	VigenciaConstanciaMeses = 3
	// DescripcionLenteMin is the minimum useful lens description length.
	DescripcionLenteMin = 10
	// EdadSinConstancia: children up to this age need no school-enrollment
	// proof; above it the constancia becomes mandatory.
	EdadSinConstancia = 16
)

var nssRe = regexp.MustCompile(`^\d{10,11}$`)

// NSSValido reports whether s is a well-formed NSS (10 u 11 dígitos).
func NSSValido(s string) bool { return nssRe.MatchString(s) }

// ValidaLogin checks the sign-in form. Returns the first violated rule as a
// user-facing message, or "" when the input is acceptable.
func ValidaLogin(matricula, password string) string {
	if strings.TrimSpace(matricula) == "" {
		return "La matrícula es obligatoria."
	}
	if password == "" {
		return "La contraseña es obligatoria."
	}
	if len(password) < PasswordMinLen {
		return "La contraseña debe tener al menos 10 caracteres."
	}
	return ""
}

// ValidaFortalezaPassword returns every policy clause the password violates.
// An empty slice means the password is acceptable.
func ValidaFortalezaPassword(password string) []string {
	var faltas []string
	if len(password) < PasswordMinLen {
		faltas = append(faltas, "mínimo 10 caracteres")
	}
	var mayus, minus, digito, simbolo bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			mayus = true
		case unicode.IsLower(r):
			minus = true
		case unicode.IsDigit(r):
			digito = true
		default:
			simbolo = true
		}
	}
	if !mayus {
		faltas = append(faltas, "al menos una mayúscula")
	}
	if !minus {
		faltas = append(faltas, "al menos una minúscula")
	}
	if !digito {
		faltas = append(faltas, "al menos un dígito")
	}
	if !simbolo {
		faltas = append(faltas, "al menos un símbolo")
	}
	return faltas
}

// ValidaPaso1 checks the beneficiary identification step.
func ValidaPaso1(b *model.Beneficiario) string {
	if strings.TrimSpace(b.Nombre) == "" {
		return "El nombre del beneficiario es obligatorio."
	}
	if !NSSValido(b.NSSTrabajador) {
		return "El NSS del trabajador debe tener 10 u 11 dígitos."
	}
	if b.Tipo == model.Hijo && strings.TrimSpace(b.TitularNombreCompleto) == "" {
		return "Para beneficiario HIJO el nombre completo del titular es obligatorio."
	}
	return ""
}

// Receta carries the prescription fields validated on step 2.
type Receta struct {
	FolioRecetaIMSS       string
	FechaExpedicionReceta string // YYYY-MM-DD
	DescripcionLente      string
}

// ValidaPaso2 checks the prescription step.
func ValidaPaso2(r *Receta) string {
	if strings.TrimSpace(r.FolioRecetaIMSS) == "" {
		return "El folio de la receta IMSS es obligatorio."
	}
	if len(strings.TrimSpace(r.DescripcionLente)) < DescripcionLenteMin {
		return "La descripción del lente debe tener al menos 10 caracteres."
	}
	return ""
}

// ValidaCaptura runs both steps plus the date-bound rules (receta vigencia,
// constancia de estudios de hijos mayores) evaluated at ref, and returns the
// ordered list of violations. Callers block on the first message.
func ValidaCaptura(b *model.Beneficiario, r *Receta, ref time.Time) []string {
	var v []string
	if msg := ValidaPaso1(b); msg != "" {
		v = append(v, msg)
	}
	if msg := ValidaPaso2(r); msg != "" {
		v = append(v, msg)
	}
	if strings.TrimSpace(r.FechaExpedicionReceta) != "" && !RecetaVigente(r.FechaExpedicionReceta, ref) {
		v = append(v, "La receta excede la vigencia de 90 días naturales.")
	}
	if msg := validaConstanciaHijo(b, ref); msg != "" {
		v = append(v, msg)
	}
	return v
}

// validaConstanciaHijo enforces the school-proof rule for dependent children
// older than EdadSinConstancia.
func validaConstanciaHijo(b *model.Beneficiario, ref time.Time) string {
	if b.Tipo != model.Hijo || b.FechaNacimiento == nil {
		return ""
	}
	edad := CalculaEdad(*b.FechaNacimiento, ref)
	if edad <= EdadSinConstancia {
		return ""
	}
	if b.FechaConstanciaEstudios == nil {
		return "Para hijos mayores de 16 años la constancia de estudios es obligatoria."
	}
	if !ConstanciaVigente(*b.FechaConstanciaEstudios, ref) {
		return "La constancia de estudios excede la vigencia de 3 meses."
	}
	return ""
}

// RecetaVigente reports whether a receta issued on fechaExpedicion
// (YYYY-MM-DD) is still within its validity window at ref.
func RecetaVigente(fechaExpedicion string, ref time.Time) bool {
	f, err := time.Parse("2006-01-02", strings.TrimSpace(fechaExpedicion))
	if err != nil {
		return false
	}
	limite := f.AddDate(0, 0, VigenciaRecetaDias)
	return !ref.After(limite) && !ref.Before(f)
}

// ConstanciaVigente reports whether a school-enrollment proof dated fecha
// (YYYY-MM-DD) is still current at ref.
func ConstanciaVigente(fecha string, ref time.Time) bool {
	f, err := time.Parse("2006-01-02", strings.TrimSpace(fecha))
	if err != nil {
		return false
	}
	limite := f.AddDate(0, VigenciaConstanciaMeses, 0)
	return !ref.After(limite) && !ref.Before(f)
}

// CalculaEdad returns completed years between fechaNacimiento (YYYY-MM-DD)
// and ref, or -1 when the date does not parse.
func CalculaEdad(fechaNacimiento string, ref time.Time) int {
	f, err := time.Parse("2006-01-02", strings.TrimSpace(fechaNacimiento))
	if err != nil {
		return -1
	}
	años := ref.Year() - f.Year()
	if ref.Month() < f.Month() || (ref.Month() == f.Month() && ref.Day() < f.Day()) {
		años--
	}
	if años < 0 {
		return -1
	}
	return años
}
