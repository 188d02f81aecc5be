package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbcx07/SISTRA/internal/dto"
	"github.com/mbcx07/SISTRA/internal/model"
	"github.com/mbcx07/SISTRA/internal/rbac"
	"github.com/mbcx07/SISTRA/internal/service"
	"github.com/mbcx07/SISTRA/internal/workflow"
)

func seedTramiteImprimible(repo *stubTramiteRepo, estatus workflow.Estatus) *model.Tramite {
	t := &model.Tramite{
		ID:      uuid.New(),
		Folio:   "JALISCO-UMF-23-2026-00007",
		Estatus: estatus,
		Unidad:  "UMF-23",
		Beneficiario: model.Beneficiario{
			Tipo:          model.Trabajador,
			Nombre:        "Pedro",
			NSSTrabajador: "12345678901",
		},
		NombreAutorizador: "Carlos Mendoza López",
	}
	_ = repo.Create(context.Background(), nil, t)
	return t
}

func buildImpresionSvc() (service.ImpresionService, *stubTramiteRepo, *recordingSink) {
	repo := newStubTramiteRepo()
	sink := &recordingSink{}
	return service.NewImpresionService(repo, sink), repo, sink
}

func TestImprimir_PrimeraEmisionEsOriginal(t *testing.T) {
	svc, repo, sink := buildImpresionSvc()
	seed := seedTramiteImprimible(repo, workflow.Autorizado)

	resp, err := svc.Imprimir(context.Background(), actorConRol(rbac.CapturistaUnidad), seed.ID,
		dto.ImprimirRequest{TipoDocumento: service.DocumentoFormato027})
	require.NoError(t, err)
	assert.Equal(t, service.EmisionOriginal, resp.Emision)
	assert.Equal(t, 1, resp.NumeroImpresion)
	assert.Equal(t, "Carlos Mendoza López", resp.NombreAutorizador)

	ultima := sink.ultima()
	require.NotNil(t, ultima)
	assert.Equal(t, "DOCUMENTO_EMITIDO", ultima.Accion)
	assert.Equal(t, model.BitacoraImpresion, ultima.Categoria)
	assert.Equal(t, "ORIGINAL", ultima.Datos["emision"])
}

func TestImprimir_ReimpresionExigeMotivo(t *testing.T) {
	svc, repo, _ := buildImpresionSvc()
	seed := seedTramiteImprimible(repo, workflow.Entregado)
	actor := actorConRol(rbac.ValidadorPrestaciones)

	_, err := svc.Imprimir(context.Background(), actor, seed.ID,
		dto.ImprimirRequest{TipoDocumento: service.DocumentoTarjeta028})
	require.NoError(t, err)

	// Segunda emisión sin motivo: rebota y no incrementa el contador.
	_, err = svc.Imprimir(context.Background(), actor, seed.ID,
		dto.ImprimirRequest{TipoDocumento: service.DocumentoTarjeta028})
	var svcErr *service.Error
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, service.CodeInvalidInput, svcErr.Code)

	stored, _ := repo.FindByID(context.Background(), seed.ID)
	assert.Equal(t, 1, stored.Impresiones.Tarjeta)

	motivo := "Extravío del documento original"
	resp, err := svc.Imprimir(context.Background(), actor, seed.ID,
		dto.ImprimirRequest{TipoDocumento: service.DocumentoTarjeta028, Motivo: &motivo})
	require.NoError(t, err)
	assert.Equal(t, service.EmisionReimpresion, resp.Emision)
	assert.Equal(t, 2, resp.NumeroImpresion)
	assert.Equal(t, motivo, resp.Motivo)

	stored, _ = repo.FindByID(context.Background(), seed.ID)
	assert.Equal(t, 2, stored.Impresiones.Tarjeta)
	assert.Equal(t, motivo, stored.Impresiones.UltimoMotivoReimpre)
}

func TestImprimir_ContadoresIndependientesPorTipo(t *testing.T) {
	svc, repo, _ := buildImpresionSvc()
	seed := seedTramiteImprimible(repo, workflow.Autorizado)
	actor := actorConRol(rbac.CapturistaUnidad)

	_, err := svc.Imprimir(context.Background(), actor, seed.ID,
		dto.ImprimirRequest{TipoDocumento: service.DocumentoFormato027})
	require.NoError(t, err)

	// La tarjeta arranca su propia cuenta: sigue siendo ORIGINAL.
	resp, err := svc.Imprimir(context.Background(), actor, seed.ID,
		dto.ImprimirRequest{TipoDocumento: service.DocumentoTarjeta028})
	require.NoError(t, err)
	assert.Equal(t, service.EmisionOriginal, resp.Emision)

	stored, _ := repo.FindByID(context.Background(), seed.ID)
	assert.Equal(t, 1, stored.Impresiones.Formato)
	assert.Equal(t, 1, stored.Impresiones.Tarjeta)
}

func TestImprimir_AntesDeAutorizarNoEmite(t *testing.T) {
	svc, repo, _ := buildImpresionSvc()
	for _, estatus := range []workflow.Estatus{workflow.Borrador, workflow.EnRevisionDocumental, workflow.Rechazado} {
		seed := seedTramiteImprimible(repo, estatus)
		_, err := svc.Imprimir(context.Background(), actorConRol(rbac.AdminSistema), seed.ID,
			dto.ImprimirRequest{TipoDocumento: service.DocumentoFormato027})
		var svcErr *service.Error
		require.True(t, errors.As(err, &svcErr), "estatus %s", estatus)
		assert.Equal(t, service.CodeWorkflowViolation, svcErr.Code)
	}
}

func TestImprimir_CerradoSigueImprimible(t *testing.T) {
	// El expediente cerrado es inmutable, pero sus documentos se reimprimen.
	svc, repo, _ := buildImpresionSvc()
	seed := seedTramiteImprimible(repo, workflow.Cerrado)

	resp, err := svc.Imprimir(context.Background(), actorConRol(rbac.ConsultaCentral), seed.ID,
		dto.ImprimirRequest{TipoDocumento: service.DocumentoFormato027})
	require.NoError(t, err)
	assert.Equal(t, service.EmisionOriginal, resp.Emision)
}

func TestImprimir_TipoDesconocido(t *testing.T) {
	svc, repo, _ := buildImpresionSvc()
	seed := seedTramiteImprimible(repo, workflow.Autorizado)

	_, err := svc.Imprimir(context.Background(), actorConRol(rbac.AdminSistema), seed.ID,
		dto.ImprimirRequest{TipoDocumento: "acta_029"})
	var svcErr *service.Error
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, service.CodeInvalidInput, svcErr.Code)
}

func TestImprimir_TramiteInexistente(t *testing.T) {
	svc, _, _ := buildImpresionSvc()
	_, err := svc.Imprimir(context.Background(), actorConRol(rbac.AdminSistema), uuid.New(),
		dto.ImprimirRequest{TipoDocumento: service.DocumentoFormato027})
	var svcErr *service.Error
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, service.CodeNotFound, svcErr.Code)
}
