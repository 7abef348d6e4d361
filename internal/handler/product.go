package handler

import (
	"github.com/gofiber/fiber/v2"

	"license-tracker/internal/model"
)

type ProductInput struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

func (h *Handler) HandleProductCreate(c *fiber.Ctx) error {
	input := new(ProductInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input data",
		})
	}
	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "product name is required",
		})
	}

	product := &model.Product{
		UserID: currentUserID(c),
		Name:   input.Name,
		Tags:   model.TagList(input.Tags),
	}
	if err := h.DB.Create(product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create product",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *Handler) HandleProductList(c *fiber.Ctx) error {
	var products []model.Product
	if err := h.DB.Where("user_id = ?", currentUserID(c)).Order("created_at DESC").Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list products",
		})
	}
	return c.JSON(products)
}

func (h *Handler) HandleProductUpdate(c *fiber.Ctx) error {
	input := new(ProductInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input data",
		})
	}

	var product model.Product
	err := h.DB.Where("id = ? AND user_id = ?", c.Params("id"), currentUserID(c)).First(&product).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "product not found",
		})
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Tags != nil {
		product.Tags = model.TagList(input.Tags)
	}

	if err := h.DB.Save(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update product",
		})
	}
	return c.JSON(product)
}

func (h *Handler) HandleProductDelete(c *fiber.Ctx) error {
	var product model.Product
	err := h.DB.Where("id = ? AND user_id = ?", c.Params("id"), currentUserID(c)).First(&product).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "product not found",
		})
	}

	if err := h.DB.Delete(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete product",
		})
	}
	return c.JSON(fiber.Map{
		"message": "product deleted",
	})
}
