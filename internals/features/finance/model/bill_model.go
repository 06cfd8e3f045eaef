// file: internals/features/finance/model/bill_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — status tagihan
// =========================================================

type BillStatus string

const (
	BillStatusUnpaid  BillStatus = "unpaid"
	BillStatusPartial BillStatus = "partial"
	BillStatusPaid    BillStatus = "paid"
)

// BillStatusFor is the single source of truth untuk status tagihan.
// Status TIDAK boleh diset lepas dari fungsi ini di jalur pembayaran;
// satu-satunya pengecualian adalah edit administratif (escape hatch).
func BillStatusFor(paidAmount, amount int64) BillStatus {
	switch {
	case paidAmount >= amount:
		return BillStatusPaid
	case paidAmount > 0:
		return BillStatusPartial
	default:
		return BillStatusUnpaid
	}
}

// =========================================================
// MODEL
// =========================================================

type Bill struct {
	// PK
	BillID uuid.UUID `gorm:"column:bill_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"bill_id"`

	// FK → students(student_id)
	BillStudentID uuid.UUID `gorm:"column:bill_student_id;type:uuid;not null;index" json:"bill_student_id"`

	// FK → bill_categories(category_id), nullable
	BillCategoryID *uuid.UUID `gorm:"column:bill_category_id;type:uuid;index" json:"bill_category_id,omitempty"`

	BillTitle string `gorm:"column:bill_title;type:varchar(160);not null;index" json:"bill_title"`

	// Nominal: amount tetap sejak dibuat; paid_amount hanya naik lewat
	// reconciliation. Invariant: 0 <= paid_amount <= amount.
	BillAmountIDR     int64 `gorm:"column:bill_amount_idr;not null;check:bill_amount_idr>0" json:"bill_amount_idr"`
	BillPaidAmountIDR int64 `gorm:"column:bill_paid_amount_idr;not null;default:0;check:bill_paid_amount_idr>=0" json:"bill_paid_amount_idr"`

	BillStatus BillStatus `gorm:"column:bill_status;type:varchar(20);not null;default:'unpaid';index" json:"bill_status"`

	BillDueDate time.Time `gorm:"column:bill_due_date;not null;index" json:"bill_due_date"`

	// Metadata cicilan — informasional, tidak di-enforce reconciliation
	BillInstallmentCount     *int   `gorm:"column:bill_installment_count" json:"bill_installment_count,omitempty"`
	BillInstallmentAmountIDR *int64 `gorm:"column:bill_installment_amount_idr" json:"bill_installment_amount_idr,omitempty"`

	BillNote string `gorm:"column:bill_note;type:text" json:"bill_note,omitempty"`

	BillCreatedAt time.Time      `gorm:"column:bill_created_at;not null;default:now();index" json:"bill_created_at"`
	BillUpdatedAt time.Time      `gorm:"column:bill_updated_at;not null;default:now()" json:"bill_updated_at"`
	BillDeletedAt gorm.DeletedAt `gorm:"column:bill_deleted_at;index" json:"-"`
}

func (Bill) TableName() string {
	return "bills"
}

func (m *Bill) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now()
	if m.BillCreatedAt.IsZero() {
		m.BillCreatedAt = now
	}
	m.BillUpdatedAt = now
	return nil
}

func (m *Bill) BeforeUpdate(tx *gorm.DB) (err error) {
	m.BillUpdatedAt = time.Now()
	return nil
}

// RemainingIDR is the unpaid remainder (bisa 0, tidak pernah negatif
// selama invariant terjaga).
func (m *Bill) RemainingIDR() int64 {
	return m.BillAmountIDR - m.BillPaidAmountIDR
}
