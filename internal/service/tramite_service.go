package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mbcx07/SISTRA/internal/dto"
	"github.com/mbcx07/SISTRA/internal/model"
	"github.com/mbcx07/SISTRA/internal/rbac"
	"github.com/mbcx07/SISTRA/internal/repository"
	"github.com/mbcx07/SISTRA/internal/scope"
	"github.com/mbcx07/SISTRA/internal/validation"
	"github.com/mbcx07/SISTRA/internal/workflow"
)

type TramiteService interface {
	Crear(ctx context.Context, actor *Actor, req dto.CrearTramiteRequest) (*dto.TramiteResponse, error)
	Actualizar(ctx context.Context, actor *Actor, id uuid.UUID, req dto.ActualizarTramiteRequest) (*dto.TramiteResponse, error)
	Eliminar(ctx context.Context, actor *Actor, id uuid.UUID) error
	Obtener(ctx context.Context, actor *Actor, id uuid.UUID) (*dto.TramiteResponse, error)
	Listar(ctx context.Context, actor *Actor, filter dto.TramiteFilter) (*dto.TramiteListResponse, error)
}

// Notificador receives transition events for best-effort delivery (correo a
// la unidad). Implementations never fail the caller.
type Notificador interface {
	TransicionTramite(ctx context.Context, t *model.Tramite, from, to workflow.Estatus)
}

type tramiteService struct {
	repo       repository.TramiteRepository
	audit      AuditSink
	notifica   Notificador
	locks      *scopeLocks
	now        func() time.Time
}

func NewTramiteService(repo repository.TramiteRepository, audit AuditSink, notifica Notificador) TramiteService {
	return &tramiteService{
		repo:     repo,
		audit:    audit,
		notifica: notifica,
		locks:    newScopeLocks(),
		now:      time.Now,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Crear ────────────────────────────────────────────────────────────────────
// Alta de trámite:
//   1. Permiso de captura del rol
//   2. Validación de campos (beneficiario + receta)
//   3. Candado por (NSS titular, contrato) y conteo de dotaciones previas
//   4. Tope de 2 dotaciones; rechazo IMPROCEDENTE con bitácora, sin persistir
//   5. BEGIN TX: nextval folio, alta con EN_REVISION_DOCUMENTAL
//   6. Bitácora de alta (async)

func (s *tramiteService) Crear(ctx context.Context, actor *Actor, req dto.CrearTramiteRequest) (*dto.TramiteResponse, error) {
	if actor == nil {
		return nil, Errf(CodeInvalidSession, "Sesión no válida. Inicie sesión nuevamente.")
	}
	if !rbac.CanCreateTramite(actor.Role) {
		s.auditar(ctx, nil, model.BitacoraWorkflow, "ALTA_DENEGADA", actor, map[string]any{
			"rol": string(actor.Role),
		})
		return nil, Errf(CodeUnauthorized, "El rol %s no puede capturar trámites.", actor.Role)
	}

	ben := beneficiarioFromRequest(&req.Beneficiario)
	ben.OOAD = actor.OOAD
	receta := validation.Receta{
		FolioRecetaIMSS:       req.Receta.FolioRecetaIMSS,
		FechaExpedicionReceta: req.Receta.FechaExpedicionReceta,
		DescripcionLente:      req.Receta.DescripcionLente,
	}
	if v := validation.ValidaCaptura(&ben, &receta, time.Now()); len(v) > 0 {
		return nil, Errf(CodeInvalidInput, "%s", v[0])
	}
	contrato := strings.TrimSpace(req.ContratoColectivoAplicable)
	if contrato == "" {
		return nil, Errf(CodeInvalidInput, "El contrato colectivo aplicable es obligatorio.")
	}

	// Serializa el chequeo de tope por (NSS, contrato); dos capturas
	// simultáneas del mismo alcance no pueden colarse ambas.
	release := s.locks.acquire(scopeLockKey(ben.NSSTrabajador, contrato))
	defer release()

	var t *model.Tramite
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		previos, err := s.repo.FindByNSS(ctx, tx, scope.SoloDigitos(ben.NSSTrabajador))
		if err != nil {
			return err
		}
		n := contarDotaciones(previos, &ben, contrato, uuid.Nil)
		if n >= model.DotacionesPermitidas {
			s.auditar(ctx, nil, model.BitacoraWorkflow, "ALTA_IMPROCEDENTE", actor, map[string]any{
				"nss":        ben.NSSTrabajador,
				"contrato":   contrato,
				"dotaciones": n,
			})
			return Errf(CodeCapExceeded,
				"IMPROCEDENTE: el beneficiario ya cuenta con %d dotaciones para el contrato %s; el máximo es %d.",
				n, contrato, model.DotacionesPermitidas)
		}

		dotacion := n + 1
		if dotacion > model.DotacionMax {
			dotacion = model.DotacionMax
		}

		consecutivo, err := s.nextConsecutivo(ctx, tx)
		if err != nil {
			return err
		}
		ahora := s.now()
		t = &model.Tramite{
			ID:                         uuid.New(),
			Folio:                      formatearFolio(actor.OOAD, actor.Unidad, ahora.Year(), consecutivo),
			Beneficiario:               ben,
			ContratoColectivoAplicable: contrato,
			LugarSolicitud:             req.LugarSolicitud,
			CreadorID:                  actor.ID,
			Unidad:                     actor.Unidad,
			Estatus:                    workflow.EnRevisionDocumental,
			DotacionNumero:             dotacion,
			RequiereDictamenMedico:     dotacion >= 3,
			ImporteSolicitado:          req.ImporteSolicitado,
			FolioRecetaIMSS:            req.Receta.FolioRecetaIMSS,
			FechaExpedicionReceta:      req.Receta.FechaExpedicionReceta,
			DescripcionLente:           req.Receta.DescripcionLente,
			Dioptrias:                  req.Receta.Dioptrias,
			ClavePresupuestal:          req.Receta.ClavePresupuestal,
			FechaCreacion:              ahora,
		}
		return s.repo.Create(ctx, tx, t)
	})
	if err != nil {
		return nil, err
	}

	s.auditar(ctx, t, model.BitacoraWorkflow, "TRAMITE_CREADO", actor, map[string]any{
		"dotacion_numero": t.DotacionNumero,
		"contrato":        contrato,
	})
	return tramiteToResponse(t), nil
}

// ── Actualizar ───────────────────────────────────────────────────────────────

func (s *tramiteService) Actualizar(ctx context.Context, actor *Actor, id uuid.UUID, req dto.ActualizarTramiteRequest) (*dto.TramiteResponse, error) {
	if actor == nil {
		return nil, Errf(CodeInvalidSession, "Sesión no válida. Inicie sesión nuevamente.")
	}

	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Errf(CodeNotFound, "Trámite %s no encontrado.", id)
		}
		return nil, err
	}

	if actor.Role == rbac.CapturistaUnidad && t.Unidad != actor.Unidad {
		s.auditar(ctx, t, model.BitacoraWorkflow, "ACTUALIZACION_DENEGADA", actor, map[string]any{
			"motivo":         "unidad distinta",
			"unidad_tramite": t.Unidad,
		})
		return nil, Errf(CodeUnauthorized, "El trámite pertenece a la unidad %s.", t.Unidad)
	}

	if t.Cerrado() {
		s.auditar(ctx, t, model.BitacoraWorkflow, "ACTUALIZACION_DENEGADA", actor, map[string]any{
			"motivo": "trámite cerrado",
		})
		return nil, &Error{
			Code:   CodeWorkflowViolation,
			Detail: "El trámite está CERRADO y no admite modificaciones.",
		}
	}

	desde := t.Estatus
	var hacia workflow.Estatus

	// Cambio de estatus: primero la compuerta de permisos, luego la gráfica.
	if req.Estatus != nil {
		hacia = workflow.Estatus(req.Estatus.Estatus)
		if !workflow.Valido(hacia) {
			return nil, Errf(CodeInvalidInput, "Estatus desconocido: %s.", req.Estatus.Estatus)
		}
		if err := s.validarTransicion(ctx, t, actor, desde, hacia); err != nil {
			return nil, err
		}
		if err := s.aplicarTransicion(t, actor, req.Estatus, hacia); err != nil {
			return nil, err
		}
	}

	if req.Beneficiario != nil {
		ben := beneficiarioFromRequest(req.Beneficiario)
		// El OOAD se estampa en el alta y no viaja en la solicitud.
		ben.OOAD = t.Beneficiario.OOAD
		if msg := validation.ValidaPaso1(&ben); msg != "" {
			return nil, Errf(CodeInvalidInput, "%s", msg)
		}
		t.Beneficiario = ben
	}
	if req.Receta != nil {
		receta := validation.Receta{
			FolioRecetaIMSS:  req.Receta.FolioRecetaIMSS,
			DescripcionLente: req.Receta.DescripcionLente,
		}
		if msg := validation.ValidaPaso2(&receta); msg != "" {
			return nil, Errf(CodeInvalidInput, "%s", msg)
		}
		t.FolioRecetaIMSS = req.Receta.FolioRecetaIMSS
		t.FechaExpedicionReceta = req.Receta.FechaExpedicionReceta
		t.DescripcionLente = req.Receta.DescripcionLente
		t.Dioptrias = req.Receta.Dioptrias
		t.ClavePresupuestal = req.Receta.ClavePresupuestal
	}
	if req.Proceso != nil {
		aplicarProceso(t, req.Proceso)
	}
	if req.ContratoColectivoAplicable != nil {
		t.ContratoColectivoAplicable = strings.TrimSpace(*req.ContratoColectivoAplicable)
		if t.ContratoColectivoAplicable == "" {
			return nil, Errf(CodeInvalidInput, "El contrato colectivo aplicable es obligatorio.")
		}
	}
	if req.ImporteSolicitado != nil {
		t.ImporteSolicitado = *req.ImporteSolicitado
	}
	if req.LugarSolicitud != nil {
		t.LugarSolicitud = *req.LugarSolicitud
	}

	// Tocar contrato o NSS reabre el conteo de dotaciones, excluyendo este
	// mismo registro.
	recontar := req.ContratoColectivoAplicable != nil || req.Beneficiario != nil
	if recontar {
		release := s.locks.acquire(scopeLockKey(t.Beneficiario.NSSTrabajador, t.ContratoColectivoAplicable))
		defer release()
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if recontar {
			previos, err := s.repo.FindByNSS(ctx, tx, scope.SoloDigitos(t.Beneficiario.NSSTrabajador))
			if err != nil {
				return err
			}
			n := contarDotaciones(previos, &t.Beneficiario, t.ContratoColectivoAplicable, t.ID)
			if n >= model.DotacionesPermitidas {
				s.auditar(ctx, t, model.BitacoraWorkflow, "ACTUALIZACION_IMPROCEDENTE", actor, map[string]any{
					"contrato":   t.ContratoColectivoAplicable,
					"dotaciones": n,
				})
				return Errf(CodeCapExceeded,
					"IMPROCEDENTE: el beneficiario ya cuenta con %d dotaciones para el contrato %s; el máximo es %d.",
					n, t.ContratoColectivoAplicable, model.DotacionesPermitidas)
			}
		}
		return s.repo.Update(ctx, tx, t)
	})
	if err != nil {
		return nil, err
	}

	if req.Estatus != nil && hacia != desde {
		s.auditar(ctx, t, model.BitacoraWorkflow, "TRANSICION_APLICADA", actor, map[string]any{
			"de":  string(desde),
			"a":   string(hacia),
			"rol": string(actor.Role),
		})
		if s.notifica != nil && (hacia == workflow.Autorizado || hacia == workflow.Rechazado) {
			s.notifica.TransicionTramite(ctx, t, desde, hacia)
		}
	}
	return tramiteToResponse(t), nil
}

// validarTransicion runs the permission gate and then the graph check,
// auditing either rejection before returning it.
func (s *tramiteService) validarTransicion(ctx context.Context, t *model.Tramite, actor *Actor, desde, hacia workflow.Estatus) error {
	if !rbac.CanUpdateStatus(actor.Role, hacia) {
		s.auditar(ctx, t, model.BitacoraWorkflow, "TRANSICION_DENEGADA", actor, map[string]any{
			"de":     string(desde),
			"a":      string(hacia),
			"rol":    string(actor.Role),
			"motivo": "permiso insuficiente",
		})
		return Errf(CodeUnauthorized, "El rol %s no puede mover el trámite a %s.", actor.Role, hacia)
	}

	res := workflow.ValidateTransition(desde, hacia)
	if !res.IsValid {
		s.auditar(ctx, t, model.BitacoraWorkflow, "TRANSICION_DENEGADA", actor, map[string]any{
			"de":         string(desde),
			"a":          string(hacia),
			"rol":        string(actor.Role),
			"permitidos": estatusStrings(res.AllowedNext),
		})
		return &Error{Code: CodeWorkflowViolation, Detail: res.Reason, AllowedNext: res.AllowedNext}
	}
	return nil
}

// aplicarTransicion mutates the record for the accepted status change,
// stamping authorization or rejection metadata as the target requires.
func (s *tramiteService) aplicarTransicion(t *model.Tramite, actor *Actor, req *dto.CambioEstatusRequest, hacia workflow.Estatus) error {
	switch hacia {
	case workflow.Autorizado:
		if req.ImporteAutorizado == nil {
			return Errf(CodeInvalidInput, "El importe autorizado es obligatorio al autorizar.")
		}
		ahora := s.now()
		t.ImporteAutorizado = req.ImporteAutorizado
		t.CostoSolicitud = req.CostoSolicitud
		t.ValidadoPor = actor.Matricula
		t.FechaValidacionImporte = &ahora
		t.FirmaAutorizacion = fmt.Sprintf("AUTORIZADO ELECTRÓNICAMENTE POR %s", strings.ToUpper(actor.Nombre))
		t.NombreAutorizador = actor.Nombre
	case workflow.Rechazado:
		if req.MotivoRechazo == nil || strings.TrimSpace(*req.MotivoRechazo) == "" {
			return Errf(CodeInvalidInput, "El motivo de rechazo es obligatorio.")
		}
		t.MotivoRechazo = *req.MotivoRechazo
	}
	t.Estatus = hacia
	return nil
}

// ── Eliminar / Obtener / Listar ──────────────────────────────────────────────

func (s *tramiteService) Eliminar(ctx context.Context, actor *Actor, id uuid.UUID) error {
	if actor == nil {
		return Errf(CodeInvalidSession, "Sesión no válida. Inicie sesión nuevamente.")
	}
	if actor.Role != rbac.AdminSistema {
		s.auditar(ctx, nil, model.BitacoraWorkflow, "ELIMINACION_DENEGADA", actor, map[string]any{
			"tramite_id": id.String(),
			"rol":        string(actor.Role),
		})
		return Errf(CodeUnauthorized, "Sólo ADMIN_SISTEMA puede eliminar trámites.")
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Errf(CodeNotFound, "Trámite %s no encontrado.", id)
		}
		return err
	}
	s.auditar(ctx, t, model.BitacoraSistema, "TRAMITE_ELIMINADO", actor, map[string]any{
		"estatus": string(t.Estatus),
	})
	return s.repo.Delete(ctx, id)
}

func (s *tramiteService) Obtener(ctx context.Context, actor *Actor, id uuid.UUID) (*dto.TramiteResponse, error) {
	if actor == nil {
		return nil, Errf(CodeInvalidSession, "Sesión no válida. Inicie sesión nuevamente.")
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Errf(CodeNotFound, "Trámite %s no encontrado.", id)
		}
		return nil, err
	}
	if actor.Role == rbac.CapturistaUnidad && t.Unidad != actor.Unidad {
		return nil, Errf(CodeUnauthorized, "El trámite pertenece a la unidad %s.", t.Unidad)
	}
	return tramiteToResponse(t), nil
}

func (s *tramiteService) Listar(ctx context.Context, actor *Actor, filter dto.TramiteFilter) (*dto.TramiteListResponse, error) {
	if actor == nil {
		return nil, Errf(CodeInvalidSession, "Sesión no válida. Inicie sesión nuevamente.")
	}
	// Roles de unidad sólo ven su propia unidad, sin importar el filtro.
	if actor.Role == rbac.CapturistaUnidad {
		filter.Unidad = actor.Unidad
	}
	ts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.TramiteListResponse{
		Data:  make([]dto.TramiteResponse, 0, len(ts)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range ts {
		resp.Data = append(resp.Data, *tramiteToResponse(&ts[i]))
	}
	return resp, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (s *tramiteService) nextConsecutivo(ctx context.Context, tx *gorm.DB) (int, error) {
	if tx == nil {
		// Unit test mode: the sequence lives in Postgres.
		return 1, nil
	}
	return s.repo.NextFolioConsecutivo(ctx, tx)
}

func (s *tramiteService) auditar(ctx context.Context, t *model.Tramite, categoria, accion string, actor *Actor, datos map[string]any) {
	e := &model.Bitacora{
		Categoria: categoria,
		Accion:    accion,
		Usuario:   actor.Matricula,
		Unidad:    actor.Unidad,
		Datos:     datos,
		Fecha:     s.now(),
	}
	if t != nil {
		tid := t.ID
		e.TramiteID = &tid
		e.Folio = t.Folio
	}
	s.audit.Append(ctx, e)
}

// contarDotaciones filters previos down to the same contract and beneficiary
// slot, skipping excluir (the record being updated). Status is irrelevant:
// every persisted trámite in the slot counts against the cap.
func contarDotaciones(previos []model.Tramite, ben *model.Beneficiario, contrato string, excluir uuid.UUID) int {
	n := 0
	for i := range previos {
		p := &previos[i]
		if p.ID == excluir {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(p.ContratoColectivoAplicable), strings.TrimSpace(contrato)) {
			continue
		}
		if scope.MismoAlcance(&p.Beneficiario, ben) {
			n++
		}
	}
	return n
}

func formatearFolio(ooad, unidad string, año, consecutivo int) string {
	return fmt.Sprintf("%s-%s-%d-%05d", ooad, unidad, año, consecutivo)
}

func beneficiarioFromRequest(r *dto.BeneficiarioRequest) model.Beneficiario {
	b := model.Beneficiario{
		Tipo:                  model.TipoBeneficiario(r.Tipo),
		Nombre:                r.Nombre,
		ApellidoPaterno:       r.ApellidoPaterno,
		ApellidoMaterno:       r.ApellidoMaterno,
		NSSTrabajador:         r.NSSTrabajador,
		Matricula:             r.Matricula,
		ClaveAdscripcion:      r.ClaveAdscripcion,
		EntidadLaboral:        r.EntidadLaboral,
		TipoContratacion:      r.TipoContratacion,
		FechaNacimiento:       r.FechaNacimiento,
		TitularNombreCompleto: r.TitularNombreCompleto,
	}
	if r.NSSHijo != nil {
		b.NSSHijo = *r.NSSHijo
	}
	if r.FechaConstanciaEstudios != nil {
		b.RequiereConstanciaEstudios = true
		b.FechaConstanciaEstudios = r.FechaConstanciaEstudios
	}
	return b
}

func aplicarProceso(t *model.Tramite, p *dto.ProcesoOpticaRequest) {
	if p.FechaRecepcionOptica != nil {
		t.FechaRecepcionOptica = parseFecha(*p.FechaRecepcionOptica)
	}
	if p.FechaEntregaOptica != nil {
		t.FechaEntregaOptica = parseFecha(*p.FechaEntregaOptica)
	}
	if p.FechaEntregaReal != nil {
		t.FechaEntregaReal = parseFecha(*p.FechaEntregaReal)
	}
	if p.QnaInclusion != nil {
		t.QnaInclusion = *p.QnaInclusion
	}
}

func parseFecha(s string) *time.Time {
	f, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &f
}

func estatusStrings(es []workflow.Estatus) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = string(e)
	}
	return out
}
