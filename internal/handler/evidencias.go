package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbcx07/SISTRA/internal/apierror"
	"github.com/mbcx07/SISTRA/internal/service"
)

type EvidenciasHandler struct {
	svc service.EvidenciaService
}

func NewEvidenciasHandler(svc service.EvidenciaService) *EvidenciasHandler {
	return &EvidenciasHandler{svc: svc}
}

// Subir godoc
// @Summary      Cargar evidencia documental de un trámite
// @Description  Recibe un archivo multipart (máx. 10 MB) y lo asocia al expediente del trámite.
// @Tags         evidencias
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id      path     string true "UUID del trámite"
// @Param        tipo    formData string true "Tipo de documento (receta, identificacion, constancia_estudios, dictamen_medico, otro)"
// @Param        archivo formData file   true "Archivo"
// @Success      201 {object} dto.EvidenciaResponse
// @Failure      409 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/tramites/{id}/evidencias [post]
func (h *EvidenciasHandler) Subir(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tipo := c.PostForm("tipo")
	fh, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New(apierror.CodeInvalidInput, "El campo 'archivo' es obligatorio."))
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, 10<<20+1))
	if err != nil {
		writeError(c, err)
		return
	}

	resp, err := h.svc.Subir(c.Request.Context(), actorFromClaims(c), id, tipo, fh.Filename, data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar evidencias de un trámite
// @Description  Incluye el checklist de documentos requeridos según el tipo de beneficiario y los que aún faltan por cargar.
// @Tags         evidencias
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del trámite"
// @Success      200 {object} dto.EvidenciaListResponse
// @Router       /v1/tramites/{id}/evidencias [get]
func (h *EvidenciasHandler) Listar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), actorFromClaims(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Descargar godoc
// @Summary      Obtener URL de descarga de una evidencia
// @Description  Devuelve una URL prefirmada con vigencia de 15 minutos.
// @Tags         evidencias
// @Produce      json
// @Security     BearerAuth
// @Param        id  path string true "UUID del trámite"
// @Param        eid path string true "UUID de la evidencia"
// @Success      200 {object} dto.EvidenciaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/tramites/{id}/evidencias/{eid} [get]
func (h *EvidenciasHandler) Descargar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	eid, ok := parseID(c, "eid")
	if !ok {
		return
	}
	resp, err := h.svc.Descargar(c.Request.Context(), actorFromClaims(c), id, eid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
