package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mbcx07/SISTRA/internal/model"
)

type BitacoraRepository interface {
	Append(ctx context.Context, e *model.Bitacora) error
	ListByTramite(ctx context.Context, tramiteID uuid.UUID, limit int) ([]model.Bitacora, error)
	ListByUsuario(ctx context.Context, usuario string, limit int) ([]model.Bitacora, error)
}

type bitacoraRepo struct{ db *gorm.DB }

func NewBitacoraRepository(db *gorm.DB) BitacoraRepository { return &bitacoraRepo{db: db} }

func (r *bitacoraRepo) Append(ctx context.Context, e *model.Bitacora) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *bitacoraRepo) ListByTramite(ctx context.Context, tramiteID uuid.UUID, limit int) ([]model.Bitacora, error) {
	var es []model.Bitacora
	// Orden cronológico: la bitácora se lee como historia del trámite.
	err := r.db.WithContext(ctx).
		Where("tramite_id = ?", tramiteID).
		Order("fecha ASC").
		Limit(limit).
		Find(&es).Error
	return es, err
}

func (r *bitacoraRepo) ListByUsuario(ctx context.Context, usuario string, limit int) ([]model.Bitacora, error) {
	var es []model.Bitacora
	err := r.db.WithContext(ctx).
		Where("usuario = ?", usuario).
		Order("fecha DESC").
		Limit(limit).
		Find(&es).Error
	return es, err
}
