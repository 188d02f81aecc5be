package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// TramiteFilter is bound from query string of GET /v1/tramites.
type TramiteFilter struct {
	Estatus  string `form:"estatus,default=all"`
	NSS      string `form:"nss"`
	Folio    string `form:"folio"`
	Contrato string `form:"contrato"`
	Unidad   string `form:"unidad"` // ignorado para roles de unidad; el servicio impone la suya
	Desde    string `form:"desde"`  // YYYY-MM-DD
	Hasta    string `form:"hasta"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type TramiteListResponse struct {
	Data  []TramiteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type BeneficiarioRequest struct {
	Tipo            string  `json:"tipo"              validate:"required,oneof=TRABAJADOR HIJO JUBILADO_PENSIONADO"`
	Nombre          string  `json:"nombre"            validate:"required"`
	ApellidoPaterno string  `json:"apellido_paterno"  validate:"required"`
	ApellidoMaterno string  `json:"apellido_materno"`
	NSSTrabajador   string  `json:"nss_trabajador"    validate:"required,numeric,min=10,max=11"`
	NSSHijo         *string `json:"nss_hijo"          validate:"omitempty,numeric,min=10,max=11"`
	Matricula       string  `json:"matricula"`
	ClaveAdscripcion string `json:"clave_adscripcion"`
	EntidadLaboral  string  `json:"entidad_laboral"`
	TipoContratacion string `json:"tipo_contratacion"`
	FechaNacimiento *string `json:"fecha_nacimiento"  validate:"omitempty,datetime=2006-01-02"`
	TitularNombreCompleto string `json:"titular_nombre_completo"`
	FechaConstanciaEstudios *string `json:"fecha_constancia_estudios" validate:"omitempty,datetime=2006-01-02"`
}

type RecetaRequest struct {
	FolioRecetaIMSS       string `json:"folio_receta_imss"       validate:"required"`
	FechaExpedicionReceta string `json:"fecha_expedicion_receta" validate:"omitempty,datetime=2006-01-02"`
	DescripcionLente      string `json:"descripcion_lente"       validate:"required,min=10"`
	Dioptrias             string `json:"dioptrias"`
	ClavePresupuestal     string `json:"clave_presupuestal"`
}

type CrearTramiteRequest struct {
	Beneficiario               BeneficiarioRequest `json:"beneficiario"       validate:"required"`
	Receta                     RecetaRequest       `json:"receta"             validate:"required"`
	ContratoColectivoAplicable string              `json:"contrato_colectivo" validate:"required"`
	LugarSolicitud             string              `json:"lugar_solicitud"`
	ImporteSolicitado          decimal.Decimal     `json:"importe_solicitado" validate:"required"`
}

// Grupos opcionales del update parcial. Cada grupo que viene en el payload se
// aplica completo; los grupos ausentes no tocan el registro.

type CambioEstatusRequest struct {
	Estatus           string           `json:"estatus"            validate:"required"`
	MotivoRechazo     *string          `json:"motivo_rechazo"     validate:"omitempty,min=5"`
	ImporteAutorizado *decimal.Decimal `json:"importe_autorizado"`
	CostoSolicitud    *decimal.Decimal `json:"costo_solicitud"`
}

type ProcesoOpticaRequest struct {
	FechaRecepcionOptica *string `json:"fecha_recepcion_optica" validate:"omitempty,datetime=2006-01-02"`
	FechaEntregaOptica   *string `json:"fecha_entrega_optica"   validate:"omitempty,datetime=2006-01-02"`
	FechaEntregaReal     *string `json:"fecha_entrega_real"     validate:"omitempty,datetime=2006-01-02"`
	QnaInclusion         *string `json:"qna_inclusion"`
}

type ActualizarTramiteRequest struct {
	Estatus      *CambioEstatusRequest `json:"estatus"       validate:"omitempty"`
	Beneficiario *BeneficiarioRequest  `json:"beneficiario"  validate:"omitempty"`
	Receta       *RecetaRequest        `json:"receta"        validate:"omitempty"`
	Proceso      *ProcesoOpticaRequest `json:"proceso"       validate:"omitempty"`
	ContratoColectivoAplicable *string `json:"contrato_colectivo" validate:"omitempty,min=1"`
	ImporteSolicitado          *decimal.Decimal `json:"importe_solicitado"`
	LugarSolicitud             *string          `json:"lugar_solicitud"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ImpresionesResponse struct {
	Formato             int    `json:"formato"`
	Tarjeta             int    `json:"tarjeta"`
	UltimaFecha         string `json:"ultima_fecha,omitempty"`
	UltimoUsuario       string `json:"ultimo_usuario,omitempty"`
	UltimoMotivoReimpre string `json:"ultimo_motivo_reimpresion,omitempty"`
}

type TramiteResponse struct {
	ID                         string           `json:"id"`
	Folio                      string           `json:"folio"`
	Estatus                    string           `json:"estatus"`
	Beneficiario               BeneficiarioRequest `json:"beneficiario"`
	ContratoColectivoAplicable string           `json:"contrato_colectivo"`
	LugarSolicitud             string           `json:"lugar_solicitud"`
	Unidad                     string           `json:"unidad"`
	DotacionNumero             int              `json:"dotacion_numero"`
	RequiereDictamenMedico     bool             `json:"requiere_dictamen_medico"`
	MotivoRechazo              string           `json:"motivo_rechazo,omitempty"`
	ImporteSolicitado          decimal.Decimal  `json:"importe_solicitado"`
	ImporteAutorizado          *decimal.Decimal `json:"importe_autorizado,omitempty"`
	CostoSolicitud             *decimal.Decimal `json:"costo_solicitud,omitempty"`
	ValidadoPor                string           `json:"validado_por,omitempty"`
	FechaValidacionImporte     string           `json:"fecha_validacion_importe,omitempty"`
	FirmaAutorizacion          string           `json:"firma_autorizacion,omitempty"`
	NombreAutorizador          string           `json:"nombre_autorizador,omitempty"`
	FolioRecetaIMSS            string           `json:"folio_receta_imss"`
	FechaExpedicionReceta      string           `json:"fecha_expedicion_receta,omitempty"`
	DescripcionLente           string           `json:"descripcion_lente"`
	Dioptrias                  string           `json:"dioptrias,omitempty"`
	ClavePresupuestal          string           `json:"clave_presupuestal,omitempty"`
	FechaRecepcionOptica       string           `json:"fecha_recepcion_optica,omitempty"`
	FechaEntregaOptica         string           `json:"fecha_entrega_optica,omitempty"`
	FechaEntregaReal           string           `json:"fecha_entrega_real,omitempty"`
	Impresiones                ImpresionesResponse `json:"impresiones"`
	FechaCreacion              string           `json:"fecha_creacion"`
	EstatusSiguientes          []string         `json:"estatus_siguientes"`
}
