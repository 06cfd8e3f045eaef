// file: internals/features/academics/controller/program_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	dto "kampusku_backend/internals/features/academics/dto"
	amodel "kampusku_backend/internals/features/academics/model"
	"kampusku_backend/internals/features/finance/service"
	helper "kampusku_backend/internals/helpers"
	"kampusku_backend/internals/store"
)

type ProgramController struct {
	Repos service.Repos
}

func (h *ProgramController) Create(c *fiber.Ctx) error {
	var req dto.CreateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	status := amodel.ProgramStatus(req.Status)
	if req.Status == "" {
		status = amodel.ProgramStatusActive
	}
	program := &amodel.Program{
		ProgramCode:   strings.ToUpper(strings.TrimSpace(req.Code)),
		ProgramName:   strings.TrimSpace(req.Name),
		ProgramDegree: strings.TrimSpace(req.Degree),
		ProgramStatus: status,
	}
	if err := h.Repos.Programs.Insert(c.UserContext(), program); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return helper.JsonError(c, fiber.StatusConflict, "Kode program sudah dipakai")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOKWithCode(c, fiber.StatusCreated, "Program dibuat", program)
}

// List program: tabel kecil, filter lokal saja (tanpa federation).
func (h *ProgramController) List(c *fiber.Ctx) error {
	pg := helper.ParsePaging(c, 50)

	var pred store.Predicate
	if q := service.SanitizeQuery(c.Query("q")); q != "" {
		pred = store.Or{
			store.ILike{Column: "program_name", Value: q},
			store.ILike{Column: "program_code", Value: q},
		}
	}

	page, err := service.Paginate(c.UserContext(), h.Repos.Programs, pred,
		store.Sort{Column: "program_code"}, pg.Page, pg.PageSize, nil)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "OK", page)
}

func (h *ProgramController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}
	program, err := h.Repos.Programs.Get(c.UserContext(), id)
	if errors.Is(err, store.ErrRowNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Program tidak ditemukan")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "OK", program)
}

func (h *ProgramController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}
	var req dto.UpdateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	values := map[string]any{}
	if req.Name != nil {
		values["program_name"] = strings.TrimSpace(*req.Name)
	}
	if req.Degree != nil {
		values["program_degree"] = strings.TrimSpace(*req.Degree)
	}
	if req.Status != nil {
		values["program_status"] = *req.Status
	}
	if len(values) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	program, err := h.Repos.Programs.Update(c.UserContext(), id, values)
	if errors.Is(err, store.ErrRowNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Program tidak ditemukan")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Program diperbarui", program)
}
