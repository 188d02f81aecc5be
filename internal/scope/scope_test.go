package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbcx07/SISTRA/internal/model"
)

func strPtr(s string) *string { return &s }

func trabajador(nss string) *model.Beneficiario {
	return &model.Beneficiario{
		Tipo:            model.Trabajador,
		Nombre:          "Juan",
		ApellidoPaterno: "Pérez",
		NSSTrabajador:   nss,
	}
}

func hijo(nssTitular, nssHijo, nombre string, nacimiento *string) *model.Beneficiario {
	return &model.Beneficiario{
		Tipo:            model.Hijo,
		Nombre:          nombre,
		ApellidoPaterno: "Pérez",
		NSSTrabajador:   nssTitular,
		NSSHijo:         nssHijo,
		FechaNacimiento: nacimiento,
	}
}

func TestMismoAlcanceTitular(t *testing.T) {
	a := trabajador("12345678901")
	b := trabajador("123-456-78901") // separadores no cambian el NSS
	assert.True(t, MismoAlcance(a, b))

	c := trabajador("98765432109")
	assert.False(t, MismoAlcance(a, c))

	vacio := trabajador("")
	assert.False(t, MismoAlcance(a, vacio))
	assert.False(t, MismoAlcance(vacio, vacio))
}

func TestMismoAlcanceHijosDistintos(t *testing.T) {
	// Dos hijos del mismo titular con NSS propio y distinto: alcances
	// diferentes, cada uno con derecho a sus propias dotaciones.
	a := hijo("12345678901", "11111111111", "Ana", nil)
	b := hijo("12345678901", "22222222222", "Luis", nil)
	assert.False(t, MismoAlcance(a, b))
	assert.True(t, MismoAlcance(a, a))
}

func TestMismoAlcanceNSSHijoPlaceholder(t *testing.T) {
	// El NSS del hijo duplicado del titular no identifica; cae al nombre.
	a := hijo("12345678901", "12345678901", "María José", nil)
	b := hijo("12345678901", "", "  MARIA   JOSE ", nil)
	assert.True(t, MismoAlcance(a, b))

	c := hijo("12345678901", "", "Carmen", nil)
	assert.False(t, MismoAlcance(a, c))
}

func TestMismoAlcanceFechaNacimiento(t *testing.T) {
	a := hijo("12345678901", "", "Ana", strPtr("2015-03-09"))
	b := hijo("12345678901", "", "Ana", strPtr("2015-03-09"))
	c := hijo("12345678901", "", "Ana", strPtr("2017-10-22"))
	d := hijo("12345678901", "", "Ana", nil)

	assert.True(t, MismoAlcance(a, b))
	assert.False(t, MismoAlcance(a, c))
	// Con fecha en un solo lado el nombre basta.
	assert.True(t, MismoAlcance(a, d))
}

func TestMismoAlcanceSimetria(t *testing.T) {
	casos := []*model.Beneficiario{
		trabajador("12345678901"),
		trabajador("98765432109"),
		hijo("12345678901", "11111111111", "Ana", nil),
		hijo("12345678901", "22222222222", "Luis", nil),
		hijo("12345678901", "12345678901", "Ana", strPtr("2015-03-09")),
		hijo("12345678901", "", "Ana", strPtr("2017-10-22")),
		hijo("", "", "Ana", nil),
	}
	for i, a := range casos {
		for j, b := range casos {
			assert.Equal(t, MismoAlcance(a, b), MismoAlcance(b, a), "casos %d y %d", i, j)
		}
	}
}

func TestNormalizaNombre(t *testing.T) {
	assert.Equal(t, "MARIA JOSE PEREZ", NormalizaNombre("  maría   josé Pérez "))
	assert.Equal(t, "", NormalizaNombre("   "))
}
