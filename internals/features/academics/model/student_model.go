// file: internals/features/academics/model/student_model.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — status mahasiswa
// =========================================================

type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusInactive  StudentStatus = "inactive"
	StudentStatusGraduated StudentStatus = "graduated"
)

// =========================================================
// MODEL
// =========================================================

type Student struct {
	// PK
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`

	// NIM unik per institusi
	StudentNIM  string `gorm:"column:student_nim;type:varchar(30);not null;uniqueIndex" json:"student_nim"`
	StudentName string `gorm:"column:student_name;type:varchar(120);not null;index" json:"student_name"`

	StudentEmail string `gorm:"column:student_email;type:varchar(120)" json:"student_email,omitempty"`
	StudentPhone string `gorm:"column:student_phone;type:varchar(30)" json:"student_phone,omitempty"`

	// FK → programs(program_id), nullable. Data lama hanya punya teks prodi.
	StudentProgramID   *uuid.UUID `gorm:"column:student_program_id;type:uuid;index" json:"student_program_id,omitempty"`
	StudentProgramText string     `gorm:"column:student_program_text;type:varchar(120)" json:"student_program_text,omitempty"`

	StudentStatus StudentStatus `gorm:"column:student_status;type:varchar(20);not null;default:'active';index" json:"student_status"`

	StudentCreatedAt time.Time      `gorm:"column:student_created_at;not null;default:now();index" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"column:student_updated_at;not null;default:now()" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"-"`
}

func (Student) TableName() string {
	return "students"
}

func (m *Student) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now()
	if m.StudentCreatedAt.IsZero() {
		m.StudentCreatedAt = now
	}
	m.StudentUpdatedAt = now
	return nil
}

func (m *Student) BeforeUpdate(tx *gorm.DB) (err error) {
	m.StudentUpdatedAt = time.Now()
	return nil
}

// NIMSuffix returns the last 4 digits of the NIM, dipakai nomor kwitansi.
func (m *Student) NIMSuffix() string {
	nim := strings.TrimSpace(m.StudentNIM)
	if len(nim) <= 4 {
		return nim
	}
	return nim[len(nim)-4:]
}
