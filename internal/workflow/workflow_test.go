package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaminoFeliz(t *testing.T) {
	camino := []Estatus{
		Borrador, EnRevisionDocumental, Autorizado, EnviadoAOptica,
		EnProcesoOptica, ListoParaEntrega, Entregado, Cerrado,
	}
	for i := 0; i < len(camino)-1; i++ {
		res := ValidateTransition(camino[i], camino[i+1])
		assert.True(t, res.IsValid, "%s -> %s", camino[i], camino[i+1])
		assert.Empty(t, res.Reason)
	}
}

func TestRechazoYReapertura(t *testing.T) {
	assert.True(t, ValidateTransition(EnRevisionDocumental, Rechazado).IsValid)
	assert.True(t, ValidateTransition(Rechazado, EnRevisionDocumental).IsValid)
	assert.True(t, ValidateTransition(Rechazado, Cerrado).IsValid)
	assert.False(t, ValidateTransition(Rechazado, Autorizado).IsValid)
}

func TestMismoEstatusSiempreValido(t *testing.T) {
	for _, e := range Todos() {
		res := ValidateTransition(e, e)
		assert.True(t, res.IsValid, "%s -> %s", e, e)
	}
}

func TestCerradoEsTerminal(t *testing.T) {
	assert.Empty(t, AllowedNext(Cerrado))
	for _, e := range Todos() {
		if e == Cerrado {
			continue
		}
		res := ValidateTransition(Cerrado, e)
		assert.False(t, res.IsValid, "CERRADO -> %s debería rechazarse", e)
		assert.Contains(t, res.Reason, "NINGUNO")
	}
}

func TestSaltosInvalidos(t *testing.T) {
	res := ValidateTransition(Borrador, Autorizado)
	assert.False(t, res.IsValid)
	assert.Equal(t, []Estatus{EnRevisionDocumental}, res.AllowedNext)
	assert.Contains(t, res.Reason, "EN_REVISION_DOCUMENTAL")

	assert.False(t, ValidateTransition(Autorizado, Entregado).IsValid)
	assert.False(t, ValidateTransition(EnviadoAOptica, Cerrado).IsValid)
	assert.False(t, ValidateTransition(Entregado, Autorizado).IsValid)
}

func TestAllowedNextCopiaDefensiva(t *testing.T) {
	a := AllowedNext(EnRevisionDocumental)
	a[0] = Cerrado
	assert.Equal(t, []Estatus{Autorizado, Rechazado}, AllowedNext(EnRevisionDocumental))
}

func TestValido(t *testing.T) {
	assert.True(t, Valido(Borrador))
	assert.False(t, Valido(Estatus("PENDIENTE")))
}
