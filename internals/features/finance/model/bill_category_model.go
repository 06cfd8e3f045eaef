// file: internals/features/finance/model/bill_category_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// =========================================================
// MODEL — kategori tagihan (SPP, praktikum, wisuda, dst.)
// =========================================================
//
// Hanya dipakai untuk pre-populate pembuatan Bill; tidak ada coupling runtime
// ke Bill yang sudah ada selain FK opsional.

type BillCategory struct {
	// PK
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"category_id"`

	CategoryName string `gorm:"column:category_name;type:varchar(120);not null;index" json:"category_name"`

	// Default pembuatan bill
	CategoryDefaultAmountIDR int64 `gorm:"column:category_default_amount_idr;not null;default:0;check:category_default_amount_idr>=0" json:"category_default_amount_idr"`
	CategoryDefaultDueDays   int   `gorm:"column:category_default_due_days;not null;default:30" json:"category_default_due_days"`

	// Default cicilan (informasional)
	CategoryDefaultInstallmentCount     int   `gorm:"column:category_default_installment_count;not null;default:1" json:"category_default_installment_count"`
	CategoryDefaultInstallmentAmountIDR int64 `gorm:"column:category_default_installment_amount_idr;not null;default:0" json:"category_default_installment_amount_idr"`

	// Kode prodi yang lazim memakai kategori ini (informasional)
	CategoryAppliesTo pq.StringArray `gorm:"column:category_applies_to;type:text[]" json:"category_applies_to,omitempty"`

	CategoryCreatedAt time.Time `gorm:"column:category_created_at;not null;default:now()" json:"category_created_at"`
	CategoryUpdatedAt time.Time `gorm:"column:category_updated_at;not null;default:now()" json:"category_updated_at"`
}

func (BillCategory) TableName() string {
	return "bill_categories"
}

func (m *BillCategory) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now()
	if m.CategoryCreatedAt.IsZero() {
		m.CategoryCreatedAt = now
	}
	m.CategoryUpdatedAt = now
	return nil
}

func (m *BillCategory) BeforeUpdate(tx *gorm.DB) (err error) {
	m.CategoryUpdatedAt = time.Now()
	return nil
}
