package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbcx07/SISTRA/internal/apierror"
	"github.com/mbcx07/SISTRA/internal/dto"
	"github.com/mbcx07/SISTRA/internal/service"
)

type TramitesHandler struct {
	svc service.TramiteService
}

func NewTramitesHandler(svc service.TramiteService) *TramitesHandler {
	return &TramitesHandler{svc: svc}
}

// Crear godoc
// @Summary      Capturar un trámite de anteojos
// @Description  Valida beneficiario y receta, aplica el tope de 2 dotaciones por contrato y asigna folio.
// @Tags         tramites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearTramiteRequest true "Datos de la solicitud"
// @Success      201  {object} dto.TramiteResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/tramites [post]
func (h *TramitesHandler) Crear(c *gin.Context) {
	var req dto.CrearTramiteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), actorFromClaims(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar godoc
// @Summary      Actualizar un trámite
// @Description  Aplica un update parcial por grupos: estatus, beneficiario, receta, proceso óptico, contrato.
// @Tags         tramites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del trámite"
// @Param        body body dto.ActualizarTramiteRequest true "Grupos a actualizar"
// @Success      200  {object} dto.TramiteResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/tramites/{id} [put]
func (h *TramitesHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarTramiteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), actorFromClaims(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Consultar un trámite
// @Tags         tramites
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del trámite"
// @Success      200 {object} dto.TramiteResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/tramites/{id} [get]
func (h *TramitesHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), actorFromClaims(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary      Listar trámites
// @Description  Lista paginada; los roles de unidad sólo ven su propia unidad.
// @Tags         tramites
// @Produce      json
// @Security     BearerAuth
// @Param        estatus  query string false "Estatus o all"
// @Param        nss      query string false "NSS del trabajador"
// @Param        folio    query string false "Folio exacto"
// @Param        contrato query string false "Contrato colectivo"
// @Param        page     query int    false "Página (default 1)"
// @Param        limit    query int    false "Registros por página (default 50)"
// @Success      200 {object} dto.TramiteListResponse
// @Router       /v1/tramites [get]
func (h *TramitesHandler) Listar(c *gin.Context) {
	var filter dto.TramiteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.CodeInvalidInput, err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), actorFromClaims(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar un trámite
// @Description  Borrado definitivo, exclusivo de ADMIN_SISTEMA; deja rastro en bitácora.
// @Tags         tramites
// @Security     BearerAuth
// @Param        id path string true "UUID del trámite"
// @Success      204
// @Failure      403 {object} apierror.APIError
// @Router       /v1/tramites/{id} [delete]
func (h *TramitesHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), actorFromClaims(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
