package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mbcx07/SISTRA/internal/dto"
	"github.com/mbcx07/SISTRA/internal/model"
	"github.com/mbcx07/SISTRA/internal/repository"
	"github.com/mbcx07/SISTRA/internal/workflow"
)

// Tipos de documento imprimible.
const (
	DocumentoFormato027 = "formato_027"
	DocumentoTarjeta028 = "tarjeta_028"
)

const (
	EmisionOriginal    = "ORIGINAL"
	EmisionReimpresion = "REIMPRESION"
)

type ImpresionService interface {
	// Imprimir registra la emisión del documento y devuelve sus metadatos
	// para el render. La primera emisión por tipo es ORIGINAL; cualquier
	// posterior es REIMPRESION y exige motivo.
	Imprimir(ctx context.Context, actor *Actor, tramiteID uuid.UUID, req dto.ImprimirRequest) (*dto.ImpresionResponse, error)
}

type impresionService struct {
	repo  repository.TramiteRepository
	audit AuditSink
	now   func() time.Time
}

func NewImpresionService(repo repository.TramiteRepository, audit AuditSink) ImpresionService {
	return &impresionService{repo: repo, audit: audit, now: time.Now}
}

// imprimible lists the states where the documents carry legal value.
func imprimible(e workflow.Estatus) bool {
	switch e {
	case workflow.Autorizado, workflow.EnviadoAOptica, workflow.EnProcesoOptica,
		workflow.ListoParaEntrega, workflow.Entregado, workflow.Cerrado:
		return true
	}
	return false
}

func (s *impresionService) Imprimir(ctx context.Context, actor *Actor, tramiteID uuid.UUID, req dto.ImprimirRequest) (*dto.ImpresionResponse, error) {
	if actor == nil {
		return nil, Errf(CodeInvalidSession, "Sesión no válida. Inicie sesión nuevamente.")
	}

	t, err := s.repo.FindByID(ctx, tramiteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Errf(CodeNotFound, "Trámite %s no encontrado.", tramiteID)
		}
		return nil, err
	}
	if !imprimible(t.Estatus) {
		return nil, Errf(CodeWorkflowViolation,
			"El trámite está en %s; los documentos sólo se emiten a partir de AUTORIZADO.", t.Estatus)
	}

	// El contador por tipo es la fuente de verdad para original/reimpresión:
	// se actualiza en la misma transacción de la emisión, a diferencia de la
	// bitácora que se persiste de forma asíncrona.
	var previas int
	switch req.TipoDocumento {
	case DocumentoFormato027:
		previas = t.Impresiones.Formato
	case DocumentoTarjeta028:
		previas = t.Impresiones.Tarjeta
	default:
		return nil, Errf(CodeInvalidInput, "Tipo de documento desconocido: %s.", req.TipoDocumento)
	}

	emision := EmisionOriginal
	motivo := ""
	if previas > 0 {
		emision = EmisionReimpresion
		if req.Motivo == nil || strings.TrimSpace(*req.Motivo) == "" {
			return nil, Errf(CodeInvalidInput, "La reimpresión requiere un motivo.")
		}
		motivo = strings.TrimSpace(*req.Motivo)
	}

	ahora := s.now()
	switch req.TipoDocumento {
	case DocumentoFormato027:
		t.Impresiones.Formato++
	case DocumentoTarjeta028:
		t.Impresiones.Tarjeta++
	}
	t.Impresiones.UltimaFecha = &ahora
	t.Impresiones.UltimoUsuario = actor.Matricula
	if emision == EmisionReimpresion {
		t.Impresiones.UltimoMotivoReimpre = motivo
	}

	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Update(ctx, tx, t)
	}); err != nil {
		return nil, err
	}

	tid := t.ID
	s.audit.Append(ctx, &model.Bitacora{
		TramiteID: &tid,
		Folio:     t.Folio,
		Categoria: model.BitacoraImpresion,
		Accion:    "DOCUMENTO_EMITIDO",
		Usuario:   actor.Matricula,
		Unidad:    actor.Unidad,
		Datos: map[string]any{
			"tipo_documento":   req.TipoDocumento,
			"emision":          emision,
			"numero_impresion": previas + 1,
			"motivo":           motivo,
		},
		Fecha: ahora,
	})

	return &dto.ImpresionResponse{
		Folio:             t.Folio,
		TipoDocumento:     req.TipoDocumento,
		Emision:           emision,
		NumeroImpresion:   previas + 1,
		Motivo:            motivo,
		Usuario:           actor.Matricula,
		Fecha:             ahora.Format(time.RFC3339),
		NombreAutorizador: t.NombreAutorizador,
	}, nil
}
