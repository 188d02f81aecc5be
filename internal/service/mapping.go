package service

import (
	"time"

	"github.com/mbcx07/SISTRA/internal/dto"
	"github.com/mbcx07/SISTRA/internal/model"
	"github.com/mbcx07/SISTRA/internal/workflow"
)

func fechaStr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func tramiteToResponse(t *model.Tramite) *dto.TramiteResponse {
	ben := dto.BeneficiarioRequest{
		Tipo:                  string(t.Beneficiario.Tipo),
		Nombre:                t.Beneficiario.Nombre,
		ApellidoPaterno:       t.Beneficiario.ApellidoPaterno,
		ApellidoMaterno:       t.Beneficiario.ApellidoMaterno,
		NSSTrabajador:         t.Beneficiario.NSSTrabajador,
		Matricula:             t.Beneficiario.Matricula,
		ClaveAdscripcion:      t.Beneficiario.ClaveAdscripcion,
		EntidadLaboral:        t.Beneficiario.EntidadLaboral,
		TipoContratacion:      t.Beneficiario.TipoContratacion,
		FechaNacimiento:       t.Beneficiario.FechaNacimiento,
		TitularNombreCompleto: t.Beneficiario.TitularNombreCompleto,
		FechaConstanciaEstudios: t.Beneficiario.FechaConstanciaEstudios,
	}
	if t.Beneficiario.NSSHijo != "" {
		hijo := t.Beneficiario.NSSHijo
		ben.NSSHijo = &hijo
	}

	return &dto.TramiteResponse{
		ID:                         t.ID.String(),
		Folio:                      t.Folio,
		Estatus:                    string(t.Estatus),
		Beneficiario:               ben,
		ContratoColectivoAplicable: t.ContratoColectivoAplicable,
		LugarSolicitud:             t.LugarSolicitud,
		Unidad:                     t.Unidad,
		DotacionNumero:             t.DotacionNumero,
		RequiereDictamenMedico:     t.RequiereDictamenMedico,
		MotivoRechazo:              t.MotivoRechazo,
		ImporteSolicitado:          t.ImporteSolicitado,
		ImporteAutorizado:          t.ImporteAutorizado,
		CostoSolicitud:             t.CostoSolicitud,
		ValidadoPor:                t.ValidadoPor,
		FechaValidacionImporte:     fechaStr(t.FechaValidacionImporte),
		FirmaAutorizacion:          t.FirmaAutorizacion,
		NombreAutorizador:          t.NombreAutorizador,
		FolioRecetaIMSS:            t.FolioRecetaIMSS,
		FechaExpedicionReceta:      t.FechaExpedicionReceta,
		DescripcionLente:           t.DescripcionLente,
		Dioptrias:                  t.Dioptrias,
		ClavePresupuestal:          t.ClavePresupuestal,
		FechaRecepcionOptica:       fechaStr(t.FechaRecepcionOptica),
		FechaEntregaOptica:         fechaStr(t.FechaEntregaOptica),
		FechaEntregaReal:           fechaStr(t.FechaEntregaReal),
		Impresiones: dto.ImpresionesResponse{
			Formato:             t.Impresiones.Formato,
			Tarjeta:             t.Impresiones.Tarjeta,
			UltimaFecha:         fechaStr(t.Impresiones.UltimaFecha),
			UltimoUsuario:       t.Impresiones.UltimoUsuario,
			UltimoMotivoReimpre: t.Impresiones.UltimoMotivoReimpre,
		},
		FechaCreacion:     t.FechaCreacion.Format(time.RFC3339),
		EstatusSiguientes: estatusStrings(workflow.AllowedNext(t.Estatus)),
	}
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:        u.ID.String(),
		Matricula: u.Matricula,
		Nombre:    u.Nombre,
		Role:      string(u.Role),
		Unidad:    u.Unidad,
		OOAD:      u.OOAD,
		Activo:    u.Activo,
	}
}
