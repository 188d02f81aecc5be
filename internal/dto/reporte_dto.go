package dto

import "github.com/shopspring/decimal"

// ReporteFilter is bound from the query string of GET /v1/reportes/dashboard.
type ReporteFilter struct {
	Desde  string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta  string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
	OOAD   string `form:"ooad"`
	Unidad string `form:"unidad"`
}

type GastoPorUnidad struct {
	Unidad          string          `json:"unidad"`
	Tramites        int64           `json:"tramites"`
	GastoAutorizado decimal.Decimal `json:"gasto_autorizado"`
}

type ReporteGastoResponse struct {
	Desde            string           `json:"desde,omitempty"`
	Hasta            string           `json:"hasta,omitempty"`
	TotalTramites    int64            `json:"total_tramites"`
	TotalAutorizados int64            `json:"total_autorizados"`
	TotalRechazados  int64            `json:"total_rechazados"`
	GastoAutorizado  decimal.Decimal  `json:"gasto_autorizado"`
	PorUnidad        []GastoPorUnidad `json:"por_unidad"`
	PorEstatus       map[string]int64 `json:"por_estatus"`
}
