// Package handler contains the fiber HTTP handlers for the API surface.
package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"license-tracker/internal/crypto"
	"license-tracker/internal/service"
)

// Handler bundles the dependencies shared by all routes. Sheets may be nil
// when the inventory export is not configured.
type Handler struct {
	DB        *gorm.DB
	Cipher    *crypto.KeyCipher
	JWTSecret string
	Sheets    *service.SheetExportService
}

func New(db *gorm.DB, cipher *crypto.KeyCipher, jwtSecret string, sheets *service.SheetExportService) *Handler {
	return &Handler{
		DB:        db,
		Cipher:    cipher,
		JWTSecret: jwtSecret,
		Sheets:    sheets,
	}
}

// currentUserID reads the user ID stored by the auth middleware.
func currentUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("userID").(string); ok {
		return id
	}
	return ""
}
