package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbcx07/SISTRA/internal/repository"
	"github.com/mbcx07/SISTRA/internal/service"
)

const bitacoraPageLimit = 500

// BitacoraHandler serves the audit trail of a trámite. Access control rides
// on the trámite itself: whoever may read the trámite may read its history.
type BitacoraHandler struct {
	tramites service.TramiteService
	repo     repository.BitacoraRepository
}

func NewBitacoraHandler(tramites service.TramiteService, repo repository.BitacoraRepository) *BitacoraHandler {
	return &BitacoraHandler{tramites: tramites, repo: repo}
}

// Listar godoc
// @Summary      Bitácora de un trámite
// @Description  Entradas de auditoría en orden cronológico, acciones concedidas y denegadas.
// @Tags         tramites
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del trámite"
// @Success      200 {array} model.Bitacora
// @Failure      404 {object} apierror.APIError
// @Router       /v1/tramites/{id}/bitacora [get]
func (h *BitacoraHandler) Listar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.tramites.Obtener(c.Request.Context(), actorFromClaims(c), id); err != nil {
		writeError(c, err)
		return
	}
	entradas, err := h.repo.ListByTramite(c.Request.Context(), id, bitacoraPageLimit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entradas)
}
