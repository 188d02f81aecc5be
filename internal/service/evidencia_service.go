package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mbcx07/SISTRA/internal/dto"
	"github.com/mbcx07/SISTRA/internal/model"
	"github.com/mbcx07/SISTRA/internal/rbac"
	"github.com/mbcx07/SISTRA/internal/repository"
)

const evidenciaMaxBytes = 10 << 20 // 10 MiB por archivo

// Almacen abstracts the object store so unit tests can stub it.
type Almacen interface {
	Upload(ctx context.Context, folio, originalFilename string, data []byte) (string, error)
	PresignedURL(ctx context.Context, objeto string) (string, error)
	Remove(ctx context.Context, objeto string) error
}

type EvidenciaService interface {
	Subir(ctx context.Context, actor *Actor, tramiteID uuid.UUID, tipo, nombreArchivo string, data []byte) (*dto.EvidenciaResponse, error)
	Descargar(ctx context.Context, actor *Actor, tramiteID, evidenciaID uuid.UUID) (*dto.EvidenciaResponse, error)
	Listar(ctx context.Context, actor *Actor, tramiteID uuid.UUID) (*dto.EvidenciaListResponse, error)
}

type evidenciaService struct {
	tramites   repository.TramiteRepository
	evidencias repository.EvidenciaRepository
	almacen    Almacen
	audit      AuditSink
}

func NewEvidenciaService(tramites repository.TramiteRepository, evidencias repository.EvidenciaRepository, almacen Almacen, audit AuditSink) EvidenciaService {
	return &evidenciaService{tramites: tramites, evidencias: evidencias, almacen: almacen, audit: audit}
}

func (s *evidenciaService) cargarTramite(ctx context.Context, actor *Actor, tramiteID uuid.UUID) (*model.Tramite, error) {
	if actor == nil {
		return nil, Errf(CodeInvalidSession, "Sesión no válida. Inicie sesión nuevamente.")
	}
	t, err := s.tramites.FindByID(ctx, tramiteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Errf(CodeNotFound, "Trámite %s no encontrado.", tramiteID)
		}
		return nil, err
	}
	if actor.Role == rbac.CapturistaUnidad && t.Unidad != actor.Unidad {
		return nil, Errf(CodeUnauthorized, "El trámite pertenece a la unidad %s.", t.Unidad)
	}
	return t, nil
}

func (s *evidenciaService) Subir(ctx context.Context, actor *Actor, tramiteID uuid.UUID, tipo, nombreArchivo string, data []byte) (*dto.EvidenciaResponse, error) {
	t, err := s.cargarTramite(ctx, actor, tramiteID)
	if err != nil {
		return nil, err
	}
	if t.Cerrado() {
		return nil, Errf(CodeWorkflowViolation, "El trámite está CERRADO y no admite modificaciones.")
	}
	if len(data) == 0 || len(data) > evidenciaMaxBytes {
		return nil, Errf(CodeInvalidInput, "El archivo debe pesar entre 1 byte y 10 MB.")
	}
	td := model.TipoDocumento(tipo)
	if !td.Valido() {
		return nil, Errf(CodeInvalidInput, "Tipo de documento desconocido: %s.", tipo)
	}

	objeto, err := s.almacen.Upload(ctx, t.Folio, nombreArchivo, data)
	if err != nil {
		return nil, err
	}
	e := &model.Evidencia{
		ID:           uuid.New(),
		TramiteID:    t.ID,
		Tipo:         td,
		ObjetoNombre: objeto,
		NombreOrig:   nombreArchivo,
		UsuarioCarga: actor.Matricula,
		FechaCarga:   time.Now(),
	}
	if err := s.evidencias.Create(ctx, e); err != nil {
		// Metadata falló: no dejar el objeto huérfano.
		_ = s.almacen.Remove(ctx, objeto)
		return nil, err
	}

	tid := t.ID
	s.audit.Append(ctx, &model.Bitacora{
		TramiteID: &tid,
		Folio:     t.Folio,
		Categoria: model.BitacoraSistema,
		Accion:    "EVIDENCIA_CARGADA",
		Usuario:   actor.Matricula,
		Unidad:    actor.Unidad,
		Datos:     map[string]any{"tipo": tipo, "archivo": nombreArchivo},
		Fecha:     e.FechaCarga,
	})

	return &dto.EvidenciaResponse{
		ID:         e.ID.String(),
		Tipo:       string(e.Tipo),
		NombreOrig: e.NombreOrig,
		FechaCarga: e.FechaCarga.Format(time.RFC3339),
	}, nil
}

func (s *evidenciaService) Descargar(ctx context.Context, actor *Actor, tramiteID, evidenciaID uuid.UUID) (*dto.EvidenciaResponse, error) {
	if _, err := s.cargarTramite(ctx, actor, tramiteID); err != nil {
		return nil, err
	}
	e, err := s.evidencias.FindByID(ctx, evidenciaID)
	if err != nil || e.TramiteID != tramiteID {
		return nil, Errf(CodeNotFound, "Evidencia %s no encontrada.", evidenciaID)
	}
	u, err := s.almacen.PresignedURL(ctx, e.ObjetoNombre)
	if err != nil {
		return nil, err
	}
	return &dto.EvidenciaResponse{
		ID:         e.ID.String(),
		Tipo:       string(e.Tipo),
		NombreOrig: e.NombreOrig,
		URL:        u,
		FechaCarga: e.FechaCarga.Format(time.RFC3339),
	}, nil
}

func (s *evidenciaService) Listar(ctx context.Context, actor *Actor, tramiteID uuid.UUID) (*dto.EvidenciaListResponse, error) {
	t, err := s.cargarTramite(ctx, actor, tramiteID)
	if err != nil {
		return nil, err
	}
	es, err := s.evidencias.ListByTramite(ctx, tramiteID)
	if err != nil {
		return nil, err
	}

	cargados := make(map[model.TipoDocumento]bool, len(es))
	out := make([]dto.EvidenciaResponse, 0, len(es))
	for i := range es {
		cargados[es[i].Tipo] = true
		out = append(out, dto.EvidenciaResponse{
			ID:         es[i].ID.String(),
			Tipo:       string(es[i].Tipo),
			NombreOrig: es[i].NombreOrig,
			FechaCarga: es[i].FechaCarga.Format(time.RFC3339),
		})
	}

	requeridos := model.DocumentosRequeridos(t.Beneficiario.Tipo)
	resp := &dto.EvidenciaListResponse{
		Evidencias: out,
		Requeridos: make([]string, 0, len(requeridos)),
		Faltantes:  make([]string, 0),
	}
	for _, d := range requeridos {
		resp.Requeridos = append(resp.Requeridos, string(d))
		if !cargados[d] {
			resp.Faltantes = append(resp.Faltantes, string(d))
		}
	}
	return resp, nil
}
