package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"license-tracker/internal/model"
)

// HandleCostSummary aggregates spend across the caller's Active licenses:
// total monthly cost, total annual cost, and the renewal cost falling due
// in the next 30 days.
func (h *Handler) HandleCostSummary(c *fiber.Ctx) error {
	var licenses []model.License
	err := h.DB.
		Joins("JOIN products ON products.id = licenses.product_id").
		Where("products.user_id = ? AND licenses.status = ?", currentUserID(c), model.StatusActive).
		Find(&licenses).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to compute cost summary",
		})
	}

	var monthly, annual, upcoming float64
	now := time.Now()
	in30Days := now.AddDate(0, 0, 30)

	for _, lic := range licenses {
		monthly += lic.MonthlyCost
		annual += lic.AnnualCost

		// Already-lapsed licenses are not upcoming renewals
		if lic.ExpiryDate.After(now) && !lic.ExpiryDate.After(in30Days) {
			if lic.AnnualCost > 0 {
				upcoming += lic.AnnualCost
			} else {
				upcoming += lic.MonthlyCost * 12
			}
		}
	}

	return c.JSON(fiber.Map{
		"monthly_spend":       monthly,
		"annual_spend":        annual,
		"next_30_day_renewal": upcoming,
	})
}
