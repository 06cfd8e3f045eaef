// file: internals/features/finance/dto/bill_category_dto.go
package dto

type CreateBillCategoryRequest struct {
	Name                        string   `json:"name" validate:"required,max=120"`
	DefaultAmountIDR            int64    `json:"default_amount_idr" validate:"gte=0"`
	DefaultDueDays              int      `json:"default_due_days" validate:"omitempty,gte=1"`
	DefaultInstallmentCount     int      `json:"default_installment_count" validate:"omitempty,gte=1"`
	DefaultInstallmentAmountIDR int64    `json:"default_installment_amount_idr" validate:"gte=0"`
	AppliesTo                   []string `json:"applies_to"`
}

type UpdateBillCategoryRequest struct {
	Name                        *string  `json:"name" validate:"omitempty,max=120"`
	DefaultAmountIDR            *int64   `json:"default_amount_idr" validate:"omitempty,gte=0"`
	DefaultDueDays              *int     `json:"default_due_days" validate:"omitempty,gte=1"`
	DefaultInstallmentCount     *int     `json:"default_installment_count" validate:"omitempty,gte=1"`
	DefaultInstallmentAmountIDR *int64   `json:"default_installment_amount_idr" validate:"omitempty,gte=0"`
	AppliesTo                   []string `json:"applies_to"`
}
