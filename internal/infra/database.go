package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mbcx07/SISTRA/internal/model"
)

// NewDatabase establishes a GORM connection, runs AutoMigrate and applies the
// DDL GORM cannot express (the folio sequence).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates all tables and the folio sequence. Every
// statement is idempotent so startup on an already-migrated DB is a no-op.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Tramite{},
		&model.Evidencia{},
		&model.Bitacora{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	// Folio consecutivo: una secuencia por instalación, nunca se reinicia.
	if err := db.Exec(`CREATE SEQUENCE IF NOT EXISTS tramites_folio_consecutivo_seq START 1`).Error; err != nil {
		return fmt.Errorf("folio sequence: %w", err)
	}
	return nil
}
