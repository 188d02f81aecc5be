package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mbcx07/SISTRA/internal/dto"
	"github.com/mbcx07/SISTRA/internal/model"
)

// FindByNSSLimit bounds the history query used by the dotación cap check.
// A beneficiary slot never accumulates anywhere near this many records; the
// bound only protects against pathological NSS reuse.
const FindByNSSLimit = 200

type TramiteRepository interface {
	Create(ctx context.Context, tx *gorm.DB, t *model.Tramite) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Tramite, error)
	FindByFolio(ctx context.Context, folio string) (*model.Tramite, error)
	// FindByNSS returns the most recent trámites whose titular NSS matches,
	// for the cap check. nss must already be digits-only.
	FindByNSS(ctx context.Context, tx *gorm.DB, nss string) ([]model.Tramite, error)
	Update(ctx context.Context, tx *gorm.DB, t *model.Tramite) error
	Delete(ctx context.Context, id uuid.UUID) error
	NextFolioConsecutivo(ctx context.Context, tx *gorm.DB) (int, error)
	List(ctx context.Context, filter dto.TramiteFilter) ([]model.Tramite, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type tramiteRepo struct{ db *gorm.DB }

func NewTramiteRepository(db *gorm.DB) TramiteRepository { return &tramiteRepo{db: db} }

func (r *tramiteRepo) DB() *gorm.DB { return r.db }

func (r *tramiteRepo) Create(ctx context.Context, tx *gorm.DB, t *model.Tramite) error {
	return tx.WithContext(ctx).Create(t).Error
}

func (r *tramiteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Tramite, error) {
	var t model.Tramite
	err := r.db.WithContext(ctx).Preload("Evidencias").First(&t, id).Error
	return &t, err
}

func (r *tramiteRepo) FindByFolio(ctx context.Context, folio string) (*model.Tramite, error) {
	var t model.Tramite
	err := r.db.WithContext(ctx).Preload("Evidencias").Where("folio = ?", folio).First(&t).Error
	return &t, err
}

func (r *tramiteRepo) FindByNSS(ctx context.Context, tx *gorm.DB, nss string) ([]model.Tramite, error) {
	var ts []model.Tramite
	err := tx.WithContext(ctx).
		Where("beneficiario_nss_trabajador = ?", nss).
		Order("fecha_creacion DESC").
		Limit(FindByNSSLimit).
		Find(&ts).Error
	return ts, err
}

func (r *tramiteRepo) Update(ctx context.Context, tx *gorm.DB, t *model.Tramite) error {
	return tx.WithContext(ctx).Save(t).Error
}

func (r *tramiteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Tramite{}, id).Error
}

func (r *tramiteRepo) NextFolioConsecutivo(ctx context.Context, tx *gorm.DB) (int, error) {
	// Uses a PostgreSQL sequence for atomic folio generation
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('tramites_folio_consecutivo_seq')").Scan(&num).Error
	return num, err
}

func (r *tramiteRepo) List(ctx context.Context, filter dto.TramiteFilter) ([]model.Tramite, int64, error) {
	var ts []model.Tramite
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Tramite{})

	if filter.Estatus != "" && filter.Estatus != "all" {
		q = q.Where("estatus = ?", filter.Estatus)
	}
	if filter.NSS != "" {
		q = q.Where("beneficiario_nss_trabajador = ?", filter.NSS)
	}
	if filter.Folio != "" {
		q = q.Where("folio = ?", filter.Folio)
	}
	if filter.Contrato != "" {
		q = q.Where("LOWER(contrato_colectivo_aplicable) = LOWER(?)", filter.Contrato)
	}
	if filter.Unidad != "" {
		q = q.Where("unidad = ?", filter.Unidad)
	}
	if filter.Desde != "" {
		q = q.Where("DATE(fecha_creacion) >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("DATE(fecha_creacion) <= ?", filter.Hasta)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("fecha_creacion DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ts).Error

	return ts, total, err
}
