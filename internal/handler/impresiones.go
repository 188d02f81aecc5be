package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbcx07/SISTRA/internal/dto"
	"github.com/mbcx07/SISTRA/internal/infra"
	"github.com/mbcx07/SISTRA/internal/repository"
	"github.com/mbcx07/SISTRA/internal/service"
)

type ImpresionesHandler struct {
	svc  service.ImpresionService
	repo repository.TramiteRepository
}

func NewImpresionesHandler(svc service.ImpresionService, repo repository.TramiteRepository) *ImpresionesHandler {
	return &ImpresionesHandler{svc: svc, repo: repo}
}

// Imprimir godoc
// @Summary      Emitir Formato 027 o Tarjeta 028
// @Description  Registra la emisión (original o reimpresión con motivo), actualiza contadores y bitácora, y regresa el PDF.
// @Tags         impresiones
// @Accept       json
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path string true "UUID del trámite"
// @Param        body body dto.ImprimirRequest true "Documento y motivo si reimprime"
// @Success      200  {file} binary
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/tramites/{id}/impresiones [post]
func (h *ImpresionesHandler) Imprimir(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ImprimirRequest
	if !bindAndValidate(c, &req) {
		return
	}

	meta, err := h.svc.Imprimir(c.Request.Context(), actorFromClaims(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}

	// Render después de contabilizar: los metadatos del PDF reflejan la
	// emisión recién registrada.
	t, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	var pdf []byte
	if req.TipoDocumento == service.DocumentoFormato027 {
		pdf, err = infra.GenerateFormatoPDF(t, meta)
	} else {
		pdf, err = infra.GenerateTarjetaPDF(t, meta)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_%s.pdf", req.TipoDocumento, t.Folio))
	c.Header("X-Emision", meta.Emision)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
