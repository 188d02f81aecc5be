package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/mbcx07/SISTRA/internal/dto"
	"github.com/mbcx07/SISTRA/internal/rbac"
	"github.com/mbcx07/SISTRA/internal/repository"
	"github.com/mbcx07/SISTRA/internal/workflow"
)

const dashboardCacheTTL = 60 * time.Second

type ReporteService interface {
	Dashboard(ctx context.Context, actor *Actor, filter dto.ReporteFilter) (*dto.ReporteGastoResponse, error)
}

type reporteService struct {
	repo repository.ReporteRepository
	rdb  *redis.Client
}

func NewReporteService(repo repository.ReporteRepository, rdb *redis.Client) ReporteService {
	return &reporteService{repo: repo, rdb: rdb}
}

func (s *reporteService) Dashboard(ctx context.Context, actor *Actor, filter dto.ReporteFilter) (*dto.ReporteGastoResponse, error) {
	if actor == nil {
		return nil, Errf(CodeInvalidSession, "Sesión no válida. Inicie sesión nuevamente.")
	}
	// Roles de unidad ven únicamente las cifras de su unidad.
	if actor.Role == rbac.CapturistaUnidad {
		filter.Unidad = actor.Unidad
	}

	cacheKey := fmt.Sprintf("cache:dashboard:%s:%s:%s:%s", filter.Desde, filter.Hasta, filter.OOAD, filter.Unidad)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.ReporteGastoResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	porEstatus, err := s.repo.CountByEstatus(ctx, filter)
	if err != nil {
		return nil, err
	}
	porUnidad, err := s.repo.GastoPorUnidad(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReporteGastoResponse{
		Desde:           filter.Desde,
		Hasta:           filter.Hasta,
		GastoAutorizado: decimal.Zero,
		PorEstatus:      make(map[string]int64, len(porEstatus)),
		PorUnidad:       make([]dto.GastoPorUnidad, 0, len(porUnidad)),
	}
	for _, row := range porEstatus {
		resp.PorEstatus[row.Estatus] = row.Total
		resp.TotalTramites += row.Total
		switch workflow.Estatus(row.Estatus) {
		case workflow.Autorizado, workflow.EnviadoAOptica, workflow.EnProcesoOptica,
			workflow.ListoParaEntrega, workflow.Entregado, workflow.Cerrado:
			resp.TotalAutorizados += row.Total
		case workflow.Rechazado:
			resp.TotalRechazados += row.Total
		}
	}
	for _, row := range porUnidad {
		resp.PorUnidad = append(resp.PorUnidad, dto.GastoPorUnidad{
			Unidad:          row.Unidad,
			Tramites:        row.Tramites,
			GastoAutorizado: row.Gasto,
		})
		resp.GastoAutorizado = resp.GastoAutorizado.Add(row.Gasto)
	}

	// Cache de mejor esfuerzo, los errores no afectan la respuesta.
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(context.Background(), cacheKey, b, dashboardCacheTTL).Err()
		}
	}
	return resp, nil
}
