// file: internals/features/finance/controller/bill_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	dto "kampusku_backend/internals/features/finance/dto"
	fmodel "kampusku_backend/internals/features/finance/model"
	"kampusku_backend/internals/features/finance/service"
	helper "kampusku_backend/internals/helpers"
	"kampusku_backend/internals/store"
)

type BillController struct {
	Repos  service.Repos
	Search *service.SearchService
}

/* =========================
   Create (POST /api/bills)
========================= */

// Create mem-pre-populate default dari kategori: amount, due date, dan
// parameter cicilan. Setelah dibuat, amount tetap; tidak ada coupling runtime
// ke kategori.
func (h *BillController) Create(c *fiber.Ctx) error {
	var req dto.CreateBillRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	ctx := c.UserContext()
	if _, err := h.Repos.Students.Get(ctx, req.StudentID); err != nil {
		if errors.Is(err, store.ErrRowNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Mahasiswa tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	bill := &fmodel.Bill{
		BillStudentID:            req.StudentID,
		BillCategoryID:           req.CategoryID,
		BillTitle:                strings.TrimSpace(req.Title),
		BillAmountIDR:            req.AmountIDR,
		BillStatus:               fmodel.BillStatusUnpaid,
		BillInstallmentCount:     req.InstallmentCount,
		BillInstallmentAmountIDR: req.InstallmentAmountIDR,
		BillNote:                 req.Note,
	}
	if req.DueDate != nil {
		bill.BillDueDate = *req.DueDate
	}

	if req.CategoryID != nil {
		category, err := h.Repos.Categories.Get(ctx, *req.CategoryID)
		if errors.Is(err, store.ErrRowNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Kategori tidak ditemukan")
		}
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		if bill.BillAmountIDR == 0 {
			bill.BillAmountIDR = category.CategoryDefaultAmountIDR
		}
		if bill.BillTitle == "" {
			bill.BillTitle = category.CategoryName
		}
		if bill.BillDueDate.IsZero() {
			bill.BillDueDate = time.Now().AddDate(0, 0, category.CategoryDefaultDueDays)
		}
		if bill.BillInstallmentCount == nil && category.CategoryDefaultInstallmentCount > 1 {
			n := category.CategoryDefaultInstallmentCount
			amt := category.CategoryDefaultInstallmentAmountIDR
			bill.BillInstallmentCount = &n
			bill.BillInstallmentAmountIDR = &amt
		}
	}

	if bill.BillAmountIDR <= 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nominal tagihan harus positif")
	}
	if bill.BillTitle == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Judul tagihan wajib diisi")
	}
	if bill.BillDueDate.IsZero() {
		bill.BillDueDate = time.Now().AddDate(0, 0, 30)
	}

	if err := h.Repos.Bills.Insert(ctx, bill); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOKWithCode(c, fiber.StatusCreated, "Tagihan dibuat", bill)
}

/* =========================
   List (GET /api/bills) — search federation
========================= */

func (h *BillController) List(c *fiber.Ctx) error {
	pg := helper.ParsePaging(c, 20)

	filters := service.BillFilters{
		Status: strings.TrimSpace(c.Query("status")),
	}
	if v := strings.TrimSpace(c.Query("student_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id tidak valid")
		}
		filters.StudentID = &id
	}
	if v := strings.TrimSpace(c.Query("category_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "category_id tidak valid")
		}
		filters.CategoryID = &id
	}
	if t, ok := parseDateQuery(c.Query("due_from")); ok {
		filters.DueFrom = &t
	}
	if t, ok := parseDateQuery(c.Query("due_to")); ok {
		// eksklusif: < hari berikutnya
		t = t.AddDate(0, 0, 1)
		filters.DueTo = &t
	}

	page, err := h.Search.SearchBills(c.UserContext(), c.Query("q"), filters, pg.Page, pg.PageSize)
	if err != nil {
		return jsonServiceError(c, err)
	}
	return helper.JsonOK(c, "OK", page)
}

func (h *BillController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}
	bill, err := h.Repos.Bills.Get(c.UserContext(), id)
	if err != nil {
		return jsonServiceError(c, err)
	}
	return helper.JsonOK(c, "OK", bill)
}

/* =========================
   Update (PUT /api/bills/:id) — edit administratif
========================= */

// Update adalah escape hatch administratif: boleh menyetel paid_amount/status
// langsung. Jalur pembayaran TIDAK lewat sini; reconciliation engine punya
// jalurnya sendiri dan selalu menghitung status dari fungsi murni.
func (h *BillController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}
	var req dto.UpdateBillRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	values := map[string]any{}
	if req.Title != nil {
		values["bill_title"] = strings.TrimSpace(*req.Title)
	}
	if req.DueDate != nil {
		values["bill_due_date"] = *req.DueDate
	}
	if req.Note != nil {
		values["bill_note"] = *req.Note
	}
	if req.Status != nil {
		values["bill_status"] = *req.Status
	}
	if req.PaidAmountIDR != nil {
		values["bill_paid_amount_idr"] = *req.PaidAmountIDR
	}
	if len(values) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	bill, err := h.Repos.Bills.Update(c.UserContext(), id, values)
	if err != nil {
		return jsonServiceError(c, err)
	}
	return helper.JsonOK(c, "Tagihan diperbarui", bill)
}

// parseDateQuery menerima RFC3339 atau YYYY-MM-DD.
func parseDateQuery(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, true
	}
	return time.Time{}, false
}
