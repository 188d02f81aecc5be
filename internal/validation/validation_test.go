package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mbcx07/SISTRA/internal/model"
)

func TestValidaLogin(t *testing.T) {
	assert.NotEmpty(t, ValidaLogin("", "Secreta#2025x"))
	assert.NotEmpty(t, ValidaLogin("A1234", ""))
	assert.NotEmpty(t, ValidaLogin("A1234", "corta"))
	assert.Empty(t, ValidaLogin("A1234", "Secreta#2025x"))
}

func TestValidaFortalezaPassword(t *testing.T) {
	assert.Empty(t, ValidaFortalezaPassword("Abcdef1234!"))

	faltas := ValidaFortalezaPassword("abc")
	assert.Contains(t, faltas, "mínimo 10 caracteres")
	assert.Contains(t, faltas, "al menos una mayúscula")
	assert.Contains(t, faltas, "al menos un dígito")
	assert.Contains(t, faltas, "al menos un símbolo")

	assert.Equal(t, []string{"al menos un símbolo"}, ValidaFortalezaPassword("Abcdef12345"))
}

func TestValidaPaso1(t *testing.T) {
	b := &model.Beneficiario{Nombre: "Juan", NSSTrabajador: "12345678901"}
	assert.Empty(t, ValidaPaso1(b))

	b.NSSTrabajador = "123456789" // 9 dígitos
	assert.NotEmpty(t, ValidaPaso1(b))

	b.NSSTrabajador = "12345678901"
	b.Nombre = "   "
	assert.NotEmpty(t, ValidaPaso1(b))
}

func TestValidaPaso1_HijoExigeTitular(t *testing.T) {
	b := &model.Beneficiario{
		Tipo:          model.Hijo,
		Nombre:        "Sofía",
		NSSTrabajador: "12345678901",
	}
	assert.Equal(t, "Para beneficiario HIJO el nombre completo del titular es obligatorio.", ValidaPaso1(b))

	b.TitularNombreCompleto = "Juan Pérez García"
	assert.Empty(t, ValidaPaso1(b))
}

func TestValidaPaso2(t *testing.T) {
	r := &Receta{FolioRecetaIMSS: "R-123", DescripcionLente: "Monofocal CR-39 antirreflejante"}
	assert.Empty(t, ValidaPaso2(r))

	assert.NotEmpty(t, ValidaPaso2(&Receta{FolioRecetaIMSS: "", DescripcionLente: "Monofocal CR-39"}))
	assert.NotEmpty(t, ValidaPaso2(&Receta{FolioRecetaIMSS: "R-123", DescripcionLente: "  corto  "}))
}

func TestValidaCaptura(t *testing.T) {
	ref := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	b := &model.Beneficiario{Nombre: "", NSSTrabajador: "12345678901"}
	r := &Receta{FolioRecetaIMSS: "", DescripcionLente: "x"}
	v := ValidaCaptura(b, r, ref)
	assert.Len(t, v, 2)
	// El primer mensaje es el motivo de bloqueo para el usuario.
	assert.Equal(t, "El nombre del beneficiario es obligatorio.", v[0])

	b.Nombre = "Juan"
	r.FolioRecetaIMSS = "R-123"
	r.DescripcionLente = "Bifocal flat-top policarbonato"
	assert.Empty(t, ValidaCaptura(b, r, ref))
}

func TestValidaCaptura_RecetaVencida(t *testing.T) {
	ref := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	b := &model.Beneficiario{Nombre: "Juan", NSSTrabajador: "12345678901"}
	r := &Receta{
		FolioRecetaIMSS:       "R-123",
		FechaExpedicionReceta: "2025-01-15",
		DescripcionLente:      "Bifocal flat-top policarbonato",
	}
	v := ValidaCaptura(b, r, ref)
	assert.Equal(t, []string{"La receta excede la vigencia de 90 días naturales."}, v)

	// Sin fecha de expedición no se evalúa la vigencia.
	r.FechaExpedicionReceta = ""
	assert.Empty(t, ValidaCaptura(b, r, ref))
}

func TestValidaCaptura_ConstanciaHijoMayor(t *testing.T) {
	ref := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	nacimiento := "2007-01-20" // 18 años al corte
	constanciaVigente := "2025-05-01"
	constanciaVencida := "2025-01-01"
	b := &model.Beneficiario{
		Tipo:                  model.Hijo,
		Nombre:                "Sofía",
		NSSTrabajador:         "12345678901",
		TitularNombreCompleto: "Juan Pérez García",
		FechaNacimiento:       &nacimiento,
	}
	r := &Receta{FolioRecetaIMSS: "R-123", DescripcionLente: "Monofocal CR-39 antirreflejante"}

	v := ValidaCaptura(b, r, ref)
	assert.Equal(t, []string{"Para hijos mayores de 16 años la constancia de estudios es obligatoria."}, v)

	b.FechaConstanciaEstudios = &constanciaVencida
	v = ValidaCaptura(b, r, ref)
	assert.Equal(t, []string{"La constancia de estudios excede la vigencia de 3 meses."}, v)

	b.FechaConstanciaEstudios = &constanciaVigente
	assert.Empty(t, ValidaCaptura(b, r, ref))

	// Un hijo de 12 años no requiere constancia.
	menor := "2013-04-10"
	b.FechaNacimiento = &menor
	b.FechaConstanciaEstudios = nil
	assert.Empty(t, ValidaCaptura(b, r, ref))
}

func TestRecetaVigente(t *testing.T) {
	ref := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, RecetaVigente("2025-05-01", ref))
	assert.True(t, RecetaVigente("2025-03-03", ref)) // día 90
	assert.False(t, RecetaVigente("2025-03-02", ref))
	assert.False(t, RecetaVigente("2025-06-02", ref)) // fecha futura
	assert.False(t, RecetaVigente("no-es-fecha", ref))
}

func TestConstanciaVigente(t *testing.T) {
	ref := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, ConstanciaVigente("2025-04-15", ref))
	assert.False(t, ConstanciaVigente("2025-02-15", ref))
}

func TestCalculaEdad(t *testing.T) {
	ref := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 10, CalculaEdad("2015-03-09", ref))
	assert.Equal(t, 9, CalculaEdad("2015-08-09", ref))
	assert.Equal(t, -1, CalculaEdad("???", ref))
}
