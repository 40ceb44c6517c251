package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel carries the uuid primary key and bookkeeping timestamps shared by
// every table. IDs are generated client-side so the same model works on
// Postgres and on the SQLite fallback.
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID != uuid.Nil {
		return nil
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return err
	}
	base.ID = id
	return nil
}
