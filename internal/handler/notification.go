package handler

import (
	"github.com/gofiber/fiber/v2"

	"license-tracker/internal/model"
)

func (h *Handler) HandleNotificationList(c *fiber.Ctx) error {
	var notifications []model.Notification
	err := h.DB.Where("user_id = ?", currentUserID(c)).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list notifications",
		})
	}
	return c.JSON(notifications)
}

func (h *Handler) HandleNotificationRead(c *fiber.Ctx) error {
	var notification model.Notification
	err := h.DB.Where("id = ? AND user_id = ?", c.Params("id"), currentUserID(c)).
		First(&notification).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "notification not found",
		})
	}

	notification.Read = true
	if err := h.DB.Save(&notification).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update notification",
		})
	}
	return c.JSON(notification)
}
