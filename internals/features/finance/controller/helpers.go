// file: internals/features/finance/controller/helpers.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"kampusku_backend/internals/features/finance/service"
	helper "kampusku_backend/internals/helpers"
	"kampusku_backend/internals/store"
)

var validate = validator.New()

// jsonServiceError memetakan taksonomi error core ke status HTTP.
// ErrLedgerInconsistent dilaporkan beda dari kegagalan biasa supaya pemanggil
// tahu payment SUDAH tercatat.
func jsonServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound), errors.Is(err, store.ErrRowNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadySettled):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrLedgerInconsistent):
		return helper.JsonError(c, fiber.StatusInternalServerError,
			"Pembayaran tercatat tetapi tagihan belum terupdate — hubungi operator: "+err.Error())
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
}
