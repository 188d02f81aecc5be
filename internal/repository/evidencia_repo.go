package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mbcx07/SISTRA/internal/model"
)

type EvidenciaRepository interface {
	Create(ctx context.Context, e *model.Evidencia) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Evidencia, error)
	ListByTramite(ctx context.Context, tramiteID uuid.UUID) ([]model.Evidencia, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type evidenciaRepo struct{ db *gorm.DB }

func NewEvidenciaRepository(db *gorm.DB) EvidenciaRepository { return &evidenciaRepo{db: db} }

func (r *evidenciaRepo) Create(ctx context.Context, e *model.Evidencia) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *evidenciaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Evidencia, error) {
	var e model.Evidencia
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *evidenciaRepo) ListByTramite(ctx context.Context, tramiteID uuid.UUID) ([]model.Evidencia, error) {
	var es []model.Evidencia
	err := r.db.WithContext(ctx).
		Where("tramite_id = ?", tramiteID).
		Order("fecha_carga DESC").
		Find(&es).Error
	return es, err
}

func (r *evidenciaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Evidencia{}, id).Error
}
