// Package gorm provides a database-backed credential store for deployments
// that keep the record in SQL instead of a file. The caller supplies the
// *gorm.DB; this package never opens its own connection.
package gorm

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/driveway/driveway/credentials"
)

// recordID is the fixed primary key. Single tenant means the table holds at
// most one row.
const recordID = 1

// CredentialModel is the GORM model for the credential record.
type CredentialModel struct {
	ID           uint   `gorm:"primaryKey"`
	AccessToken  string `gorm:"size:4096"`
	RefreshToken string `gorm:"size:4096"`
	ExpiresIn    int64
	SavedTime    int64
	UpdatedAt    time.Time
}

// TableName overrides the GORM table name.
func (CredentialModel) TableName() string {
	return "credential_records"
}

// AutoMigrate runs database migrations for the credential table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&CredentialModel{})
}

// Store implements credentials.Store on a GORM database.
type Store struct {
	db *gorm.DB
}

// New creates a store over the given database handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Read returns the stored record, or (nil, nil) when the row is absent.
func (s *Store) Read() (*credentials.Record, error) {
	var model CredentialModel
	if err := s.db.First(&model, "id = ?", recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &credentials.Record{
		AccessToken:  model.AccessToken,
		RefreshToken: model.RefreshToken,
		ExpiresIn:    model.ExpiresIn,
		SavedTime:    model.SavedTime,
	}, nil
}

// Write upserts the single row. The database's row-level atomicity stands in
// for the file store's rename.
func (s *Store) Write(rec *credentials.Record) error {
	model := CredentialModel{
		ID:           recordID,
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		ExpiresIn:    rec.ExpiresIn,
		SavedTime:    rec.SavedTime,
	}
	return s.db.Save(&model).Error
}
