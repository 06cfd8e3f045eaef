// file: internals/features/finance/dto/payment_dto.go
package dto

import "time"

type CreatePaymentRequest struct {
	AmountIDR int64          `json:"amount_idr" validate:"required,gt=0"`
	Method    string         `json:"method" validate:"required,max=30"`
	Date      *time.Time     `json:"date"`
	Note      string         `json:"note"`
	Meta      map[string]any `json:"meta"`
}

// CorrectPaymentRequest: koreksi administratif. Amount sengaja tidak ada —
// koreksi tidak pernah memicu reconciliation ulang.
type CorrectPaymentRequest struct {
	Method *string        `json:"method" validate:"omitempty,max=30"`
	Note   *string        `json:"note"`
	Meta   map[string]any `json:"meta"`
}
