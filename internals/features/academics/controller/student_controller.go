// file: internals/features/academics/controller/student_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	dto "kampusku_backend/internals/features/academics/dto"
	amodel "kampusku_backend/internals/features/academics/model"
	"kampusku_backend/internals/features/finance/service"
	helper "kampusku_backend/internals/helpers"
	"kampusku_backend/internals/store"
)

var validate = validator.New()

type StudentController struct {
	Repos  service.Repos
	Search *service.SearchService
}

/* =========================
   Create (POST /api/students)
========================= */

func (h *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	status := amodel.StudentStatus(req.Status)
	if req.Status == "" {
		status = amodel.StudentStatusActive
	}
	student := &amodel.Student{
		StudentNIM:         strings.TrimSpace(req.NIM),
		StudentName:        strings.TrimSpace(req.Name),
		StudentEmail:       strings.TrimSpace(req.Email),
		StudentPhone:       strings.TrimSpace(req.Phone),
		StudentProgramID:   req.ProgramID,
		StudentProgramText: strings.TrimSpace(req.ProgramText),
		StudentStatus:      status,
	}
	if err := h.Repos.Students.Insert(c.UserContext(), student); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return helper.JsonError(c, fiber.StatusConflict, "NIM sudah terdaftar")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOKWithCode(c, fiber.StatusCreated, "Mahasiswa dibuat", student)
}

/* =========================
   List (GET /api/students) — lewat search federation
========================= */

func (h *StudentController) List(c *fiber.Ctx) error {
	pg := helper.ParsePaging(c, 20)

	filters := service.StudentFilters{
		Status: strings.TrimSpace(c.Query("status")),
	}
	if v := strings.TrimSpace(c.Query("program_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "program_id tidak valid")
		}
		filters.ProgramID = &id
	}

	page, err := h.Search.SearchStudents(c.UserContext(), c.Query("q"), filters, pg.Page, pg.PageSize)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "OK", page)
}

/* =========================
   Detail / Update / Delete
========================= */

func (h *StudentController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}
	student, err := h.Repos.Students.Get(c.UserContext(), id)
	if errors.Is(err, store.ErrRowNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Mahasiswa tidak ditemukan")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "OK", student)
}

func (h *StudentController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}
	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	values := map[string]any{}
	if req.Name != nil {
		values["student_name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		values["student_email"] = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		values["student_phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.ProgramID != nil {
		values["student_program_id"] = *req.ProgramID
	}
	if req.ProgramText != nil {
		values["student_program_text"] = strings.TrimSpace(*req.ProgramText)
	}
	if req.Status != nil {
		values["student_status"] = *req.Status
	}
	if len(values) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	student, err := h.Repos.Students.Update(c.UserContext(), id, values)
	if errors.Is(err, store.ErrRowNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Mahasiswa tidak ditemukan")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Mahasiswa diperbarui", student)
}

// Delete menolak hapus selama masih ada Bill/Payment yang mereferensikan
// (jaga integritas referensial; tidak ada cascade).
func (h *StudentController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}

	billCount, err := h.Repos.Bills.Count(c.UserContext(), store.Eq{Column: "bill_student_id", Value: id})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	payCount, err := h.Repos.Payments.Count(c.UserContext(), store.Eq{Column: "payment_student_id", Value: id})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if billCount > 0 || payCount > 0 {
		return helper.JsonError(c, fiber.StatusConflict,
			"Mahasiswa masih punya tagihan/pembayaran, tidak bisa dihapus")
	}

	if err := h.Repos.Students.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, store.ErrRowNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Mahasiswa tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Mahasiswa dihapus", nil)
}
