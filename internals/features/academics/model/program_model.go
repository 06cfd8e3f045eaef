// file: internals/features/academics/model/program_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — status program studi
// =========================================================

type ProgramStatus string

const (
	ProgramStatusActive   ProgramStatus = "active"
	ProgramStatusInactive ProgramStatus = "inactive"
)

// =========================================================
// MODEL
// =========================================================

type Program struct {
	// PK
	ProgramID uuid.UUID `gorm:"column:program_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"program_id"`

	// Kode unik (mis. "TI", "SI", "MI")
	ProgramCode string `gorm:"column:program_code;type:varchar(20);not null;uniqueIndex" json:"program_code"`
	ProgramName string `gorm:"column:program_name;type:varchar(120);not null;index" json:"program_name"`

	// Jenjang (D3/S1/S2) — informasional
	ProgramDegree string `gorm:"column:program_degree;type:varchar(10)" json:"program_degree,omitempty"`

	ProgramStatus ProgramStatus `gorm:"column:program_status;type:varchar(20);not null;default:'active'" json:"program_status"`

	ProgramCreatedAt time.Time `gorm:"column:program_created_at;not null;default:now()" json:"program_created_at"`
	ProgramUpdatedAt time.Time `gorm:"column:program_updated_at;not null;default:now()" json:"program_updated_at"`
}

func (Program) TableName() string {
	return "programs"
}

func (m *Program) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now()
	if m.ProgramCreatedAt.IsZero() {
		m.ProgramCreatedAt = now
	}
	m.ProgramUpdatedAt = now
	return nil
}

func (m *Program) BeforeUpdate(tx *gorm.DB) (err error) {
	m.ProgramUpdatedAt = time.Now()
	return nil
}
