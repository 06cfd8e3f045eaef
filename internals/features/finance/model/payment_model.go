// file: internals/features/finance/model/payment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// =========================================================
// ENUM — status & metode pembayaran
// =========================================================

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
)

const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
	PaymentMethodQRIS     = "qris"
	PaymentMethodVA       = "virtual_account"
)

// =========================================================
// MODEL
// =========================================================
//
// Payment immutable setelah dibuat; koreksi administratif hanya boleh
// menyentuh method/note/meta dan TIDAK memicu reconciliation ulang.

type Payment struct {
	// PK
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"payment_id"`

	// FK → bills(bill_id); student redundan tapi wajib sama dengan bill-nya
	PaymentBillID    uuid.UUID `gorm:"column:payment_bill_id;type:uuid;not null;index" json:"payment_bill_id"`
	PaymentStudentID uuid.UUID `gorm:"column:payment_student_id;type:uuid;not null;index" json:"payment_student_id"`

	// Nominal yang BENAR-BENAR diterapkan (sudah kena capping)
	PaymentAmountIDR int64 `gorm:"column:payment_amount_idr;not null;check:payment_amount_idr>0" json:"payment_amount_idr"`

	PaymentMethod string    `gorm:"column:payment_method;type:varchar(30);not null;index" json:"payment_method"`
	PaymentDate   time.Time `gorm:"column:payment_date;not null;index" json:"payment_date"`

	// KWT-{YYYYMMDD}-{nim4}{rand4}; unik di level store
	PaymentReceiptNumber string `gorm:"column:payment_receipt_number;type:varchar(40);not null;uniqueIndex" json:"payment_receipt_number"`

	PaymentStatus PaymentStatus `gorm:"column:payment_status;type:varchar(20);not null;default:'completed';index" json:"payment_status"`

	PaymentNote string `gorm:"column:payment_note;type:text" json:"payment_note,omitempty"`

	// Detail kanal bebas (nomor referensi bank, nama teller, dsb.)
	PaymentMeta datatypes.JSONMap `gorm:"column:payment_meta;type:jsonb" json:"payment_meta,omitempty"`

	PaymentCreatedAt time.Time      `gorm:"column:payment_created_at;not null;default:now();index" json:"payment_created_at"`
	PaymentUpdatedAt time.Time      `gorm:"column:payment_updated_at;not null;default:now()" json:"payment_updated_at"`
	PaymentDeletedAt gorm.DeletedAt `gorm:"column:payment_deleted_at;index" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}

func (m *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now()
	if m.PaymentCreatedAt.IsZero() {
		m.PaymentCreatedAt = now
	}
	m.PaymentUpdatedAt = now
	return nil
}

func (m *Payment) BeforeUpdate(tx *gorm.DB) (err error) {
	m.PaymentUpdatedAt = time.Now()
	return nil
}
