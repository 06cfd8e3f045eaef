// file: internals/features/finance/controller/stats_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"kampusku_backend/internals/features/finance/service"
	helper "kampusku_backend/internals/helpers"
)

type StatsController struct {
	Stats *service.StatsService
}

func (h *StatsController) Students(c *fiber.Ctx) error {
	out, err := h.Stats.GetStudentStats(c.UserContext())
	if err != nil {
		return jsonServiceError(c, err)
	}
	return helper.JsonOK(c, "OK", out)
}

func (h *StatsController) Bills(c *fiber.Ctx) error {
	out, err := h.Stats.GetBillStats(c.UserContext())
	if err != nil {
		return jsonServiceError(c, err)
	}
	return helper.JsonOK(c, "OK", out)
}

func (h *StatsController) Payments(c *fiber.Ctx) error {
	out, err := h.Stats.GetPaymentStats(c.UserContext())
	if err != nil {
		return jsonServiceError(c, err)
	}
	return helper.JsonOK(c, "OK", out)
}

// MonthlyIncome (GET /api/stats/monthly-income?months=6)
func (h *StatsController) MonthlyIncome(c *fiber.Ctx) error {
	months := c.QueryInt("months", 6)
	out, err := h.Stats.GetMonthlyIncome(c.UserContext(), months)
	if err != nil {
		return jsonServiceError(c, err)
	}
	return helper.JsonOK(c, "OK", out)
}

// MethodDistribution (GET /api/stats/payment-methods?days=30)
func (h *StatsController) MethodDistribution(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	out, err := h.Stats.GetPaymentMethodDistribution(c.UserContext(), days)
	if err != nil {
		return jsonServiceError(c, err)
	}
	return helper.JsonOK(c, "OK", out)
}

// TopPrograms (GET /api/stats/top-programs?limit=5&days=30)
func (h *StatsController) TopPrograms(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 5)
	days := c.QueryInt("days", 30)
	out, err := h.Stats.GetTopPrograms(c.UserContext(), limit, days)
	if err != nil {
		return jsonServiceError(c, err)
	}
	return helper.JsonOK(c, "OK", out)
}
