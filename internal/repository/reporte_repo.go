package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mbcx07/SISTRA/internal/dto"
	"github.com/mbcx07/SISTRA/internal/model"
)

// GastoUnidadRow is one aggregation bucket for the dashboard.
type GastoUnidadRow struct {
	Unidad   string
	Tramites int64
	Gasto    decimal.Decimal
}

type EstatusRow struct {
	Estatus string
	Total   int64
}

type ReporteRepository interface {
	CountByEstatus(ctx context.Context, filter dto.ReporteFilter) ([]EstatusRow, error)
	GastoPorUnidad(ctx context.Context, filter dto.ReporteFilter) ([]GastoUnidadRow, error)
}

type reporteRepo struct{ db *gorm.DB }

func NewReporteRepository(db *gorm.DB) ReporteRepository { return &reporteRepo{db: db} }

func (r *reporteRepo) base(ctx context.Context, filter dto.ReporteFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Tramite{})
	if filter.Desde != "" {
		q = q.Where("DATE(fecha_creacion) >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("DATE(fecha_creacion) <= ?", filter.Hasta)
	}
	if filter.OOAD != "" {
		q = q.Where("beneficiario_ooad = ?", filter.OOAD)
	}
	if filter.Unidad != "" {
		q = q.Where("unidad = ?", filter.Unidad)
	}
	return q
}

func (r *reporteRepo) CountByEstatus(ctx context.Context, filter dto.ReporteFilter) ([]EstatusRow, error) {
	var rows []EstatusRow
	err := r.base(ctx, filter).
		Select("estatus, COUNT(*) AS total").
		Group("estatus").
		Scan(&rows).Error
	return rows, err
}

// GastoPorUnidad sums authorized spend per unit. Only trámites at or past
// AUTORIZADO represent committed spend; the authorized amount wins over the
// requested one when present.
func (r *reporteRepo) GastoPorUnidad(ctx context.Context, filter dto.ReporteFilter) ([]GastoUnidadRow, error) {
	var rows []GastoUnidadRow
	err := r.base(ctx, filter).
		Select("unidad, COUNT(*) AS tramites, COALESCE(SUM(COALESCE(importe_autorizado, importe_solicitado)), 0) AS gasto").
		Where("estatus IN ?", []string{
			"AUTORIZADO", "ENVIADO_A_OPTICA", "EN_PROCESO_OPTICA",
			"LISTO_PARA_ENTREGA", "ENTREGADO", "CERRADO",
		}).
		Group("unidad").
		Order("gasto DESC").
		Scan(&rows).Error
	return rows, err
}
