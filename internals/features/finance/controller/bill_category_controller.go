// file: internals/features/finance/controller/bill_category_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"

	dto "kampusku_backend/internals/features/finance/dto"
	fmodel "kampusku_backend/internals/features/finance/model"
	"kampusku_backend/internals/features/finance/service"
	helper "kampusku_backend/internals/helpers"
	"kampusku_backend/internals/store"
)

type BillCategoryController struct {
	Repos service.Repos
}

func (h *BillCategoryController) Create(c *fiber.Ctx) error {
	var req dto.CreateBillCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	dueDays := req.DefaultDueDays
	if dueDays == 0 {
		dueDays = 30
	}
	installments := req.DefaultInstallmentCount
	if installments == 0 {
		installments = 1
	}
	category := &fmodel.BillCategory{
		CategoryName:                        strings.TrimSpace(req.Name),
		CategoryDefaultAmountIDR:            req.DefaultAmountIDR,
		CategoryDefaultDueDays:              dueDays,
		CategoryDefaultInstallmentCount:     installments,
		CategoryDefaultInstallmentAmountIDR: req.DefaultInstallmentAmountIDR,
		CategoryAppliesTo:                   pq.StringArray(req.AppliesTo),
	}
	if err := h.Repos.Categories.Insert(c.UserContext(), category); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOKWithCode(c, fiber.StatusCreated, "Kategori dibuat", category)
}

func (h *BillCategoryController) List(c *fiber.Ctx) error {
	pg := helper.ParsePaging(c, 50)

	var pred store.Predicate
	if q := service.SanitizeQuery(c.Query("q")); q != "" {
		pred = store.ILike{Column: "category_name", Value: q}
	}

	page, err := service.Paginate(c.UserContext(), h.Repos.Categories, pred,
		store.Sort{Column: "category_name"}, pg.Page, pg.PageSize, nil)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "OK", page)
}

func (h *BillCategoryController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}
	category, err := h.Repos.Categories.Get(c.UserContext(), id)
	if errors.Is(err, store.ErrRowNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Kategori tidak ditemukan")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "OK", category)
}

func (h *BillCategoryController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}
	var req dto.UpdateBillCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	values := map[string]any{}
	if req.Name != nil {
		values["category_name"] = strings.TrimSpace(*req.Name)
	}
	if req.DefaultAmountIDR != nil {
		values["category_default_amount_idr"] = *req.DefaultAmountIDR
	}
	if req.DefaultDueDays != nil {
		values["category_default_due_days"] = *req.DefaultDueDays
	}
	if req.DefaultInstallmentCount != nil {
		values["category_default_installment_count"] = *req.DefaultInstallmentCount
	}
	if req.DefaultInstallmentAmountIDR != nil {
		values["category_default_installment_amount_idr"] = *req.DefaultInstallmentAmountIDR
	}
	if req.AppliesTo != nil {
		values["category_applies_to"] = pq.StringArray(req.AppliesTo)
	}
	if len(values) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	category, err := h.Repos.Categories.Update(c.UserContext(), id, values)
	if errors.Is(err, store.ErrRowNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Kategori tidak ditemukan")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Kategori diperbarui", category)
}
