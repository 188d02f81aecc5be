// Package scope decide si dos registros de beneficiario representan el mismo
// derecho de dotación (mismo titular, mismo hijo cuando aplica), para que el
// conteo de dotaciones no se infle por nombres recapturados ni se desinfle
// por colisiones de NSS.
package scope

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mbcx07/SISTRA/internal/model"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SoloDigitos strips everything that is not an ASCII digit.
func SoloDigitos(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizaNombre uppercases, strips accents and collapses interior
// whitespace so "  María  Pérez " and "MARIA PEREZ" compare equal.
func NormalizaNombre(s string) string {
	out, _, err := transform.String(deaccent, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToUpper(out)), " ")
}

func nombreCompleto(b *model.Beneficiario) string {
	return NormalizaNombre(b.Nombre + " " + b.ApellidoPaterno + " " + b.ApellidoMaterno)
}

// MismoAlcance reports whether a and b are the same benefit-entitlement slot.
// It is symmetric: MismoAlcance(a,b) == MismoAlcance(b,a).
func MismoAlcance(a, b *model.Beneficiario) bool {
	nssA := SoloDigitos(a.NSSTrabajador)
	nssB := SoloDigitos(b.NSSTrabajador)
	if nssA == "" || nssB == "" || nssA != nssB {
		return false
	}

	if a.Tipo != model.Hijo && b.Tipo != model.Hijo {
		// Prestación a nivel titular, el NSS basta.
		return true
	}

	// Un NSS de hijo sólo identifica si existe y no es copia del NSS titular.
	hijoA := SoloDigitos(a.NSSHijo)
	hijoB := SoloDigitos(b.NSSHijo)
	if hijoA != "" && hijoA != nssA && hijoB != "" && hijoB != nssB {
		return hijoA == hijoB
	}

	if nombreCompleto(a) != nombreCompleto(b) {
		return false
	}
	fa := fechaNac(a)
	fb := fechaNac(b)
	if fa != "" && fb != "" {
		return fa == fb
	}
	return true
}

func fechaNac(b *model.Beneficiario) string {
	if b.FechaNacimiento == nil {
		return ""
	}
	return strings.TrimSpace(*b.FechaNacimiento)
}
