package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbcx07/SISTRA/internal/apierror"
	"github.com/mbcx07/SISTRA/internal/dto"
	"github.com/mbcx07/SISTRA/internal/service"
)

type ReportesHandler struct {
	svc service.ReporteService
}

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// Dashboard godoc
// @Summary      Tablero de gasto y avance de trámites
// @Description  Totales por estatus y gasto autorizado por unidad, filtrables por periodo, OOAD y unidad.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        desde  query string false "Fecha inicial (YYYY-MM-DD)"
// @Param        hasta  query string false "Fecha final (YYYY-MM-DD)"
// @Param        ooad   query string false "OOAD"
// @Param        unidad query string false "Unidad"
// @Success      200 {object} dto.ReporteGastoResponse
// @Router       /v1/reportes/dashboard [get]
func (h *ReportesHandler) Dashboard(c *gin.Context) {
	var filter dto.ReporteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New(apierror.CodeInvalidInput, err.Error()))
		return
	}
	resp, err := h.svc.Dashboard(c.Request.Context(), actorFromClaims(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
