// file: internals/features/finance/dto/bill_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateBillRequest struct {
	StudentID  uuid.UUID  `json:"student_id" validate:"required"`
	CategoryID *uuid.UUID `json:"category_id"`
	Title      string     `json:"title" validate:"omitempty,max=160"`

	// 0 = pakai default kategori
	AmountIDR int64 `json:"amount_idr" validate:"gte=0"`

	DueDate *time.Time `json:"due_date"`

	InstallmentCount     *int   `json:"installment_count" validate:"omitempty,gte=1"`
	InstallmentAmountIDR *int64 `json:"installment_amount_idr" validate:"omitempty,gte=0"`

	Note string `json:"note"`
}

// UpdateBillRequest adalah jalur edit administratif — escape hatch yang boleh
// menyentuh status/paid_amount langsung, terpisah total dari jalur pembayaran.
type UpdateBillRequest struct {
	Title         *string    `json:"title" validate:"omitempty,max=160"`
	DueDate       *time.Time `json:"due_date"`
	Note          *string    `json:"note"`
	Status        *string    `json:"status" validate:"omitempty,oneof=unpaid partial paid"`
	PaidAmountIDR *int64     `json:"paid_amount_idr" validate:"omitempty,gte=0"`
}
