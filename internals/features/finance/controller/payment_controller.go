// file: internals/features/finance/controller/payment_controller.go
package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	dto "kampusku_backend/internals/features/finance/dto"
	"kampusku_backend/internals/features/finance/service"
	helper "kampusku_backend/internals/helpers"
)

type PaymentController struct {
	Repos     service.Repos
	Reconcile *service.ReconcileService
	Search    *service.SearchService
}

/* =========================
   Apply (POST /api/bills/:id/payments)
========================= */

// Apply mencatat pembayaran lewat reconciliation engine. Respons memuat
// requested vs applied: kelebihan di atas sisa tagihan TIDAK tercatat.
func (h *PaymentController) Apply(c *fiber.Ctx) error {
	billID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tagihan tidak valid")
	}
	var req dto.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	apply := service.ApplyPaymentRequest{
		AmountIDR: req.AmountIDR,
		Method:    req.Method,
		Note:      req.Note,
		Meta:      req.Meta,
	}
	if req.Date != nil {
		apply.Date = *req.Date
	}

	result, err := h.Reconcile.ApplyPayment(c.UserContext(), billID, apply)
	if err != nil {
		return jsonServiceError(c, err)
	}
	msg := "Pembayaran tercatat"
	if result.DiscardedIDR > 0 {
		msg = "Pembayaran tercatat (nominal dipotong ke sisa tagihan)"
	}
	return helper.JsonOKWithCode(c, fiber.StatusCreated, msg, result)
}

/* =========================
   List (GET /api/payments) — search federation
========================= */

func (h *PaymentController) List(c *fiber.Ctx) error {
	pg := helper.ParsePaging(c, 20)

	filters := service.PaymentFilters{
		Status: strings.TrimSpace(c.Query("status")),
		Method: strings.TrimSpace(c.Query("method")),
	}
	if v := strings.TrimSpace(c.Query("student_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id tidak valid")
		}
		filters.StudentID = &id
	}
	if v := strings.TrimSpace(c.Query("bill_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "bill_id tidak valid")
		}
		filters.BillID = &id
	}
	if t, ok := parseDateQuery(c.Query("date_from")); ok {
		filters.DateFrom = &t
	}
	if t, ok := parseDateQuery(c.Query("date_to")); ok {
		t = t.AddDate(0, 0, 1)
		filters.DateTo = &t
	}

	page, err := h.Search.SearchPayments(c.UserContext(), c.Query("q"), filters, pg.Page, pg.PageSize)
	if err != nil {
		return jsonServiceError(c, err)
	}
	return helper.JsonOK(c, "OK", page)
}

func (h *PaymentController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}
	payment, err := h.Repos.Payments.Get(c.UserContext(), id)
	if err != nil {
		return jsonServiceError(c, err)
	}
	return helper.JsonOK(c, "OK", payment)
}

/* =========================
   Correct (PUT /api/payments/:id)
========================= */

func (h *PaymentController) Correct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}
	var req dto.CorrectPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	payment, err := h.Reconcile.CorrectPayment(c.UserContext(), id, service.CorrectPaymentRequest{
		Method: req.Method,
		Note:   req.Note,
		Meta:   req.Meta,
	})
	if err != nil {
		return jsonServiceError(c, err)
	}
	return helper.JsonOK(c, "Pembayaran dikoreksi", payment)
}

/* =========================
   Delete (DELETE /api/payments/:id) — inverse reconciliation
========================= */

func (h *PaymentController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}
	bill, err := h.Reconcile.DeletePayment(c.UserContext(), id)
	if err != nil {
		return jsonServiceError(c, err)
	}
	return helper.JsonOK(c, "Pembayaran dihapus, tagihan dihitung ulang", fiber.Map{
		"bill": bill,
	})
}
