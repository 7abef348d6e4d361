package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"license-tracker/internal/model"
)

type LicenseCreateInput struct {
	ProductID     string    `json:"product_id"`
	LicenseKey    string    `json:"license_key"`
	ExpiryDate    time.Time `json:"expiry_date"`
	AutoRenew     bool      `json:"auto_renew"`
	UsageLimits   string    `json:"usage_limits"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes"`
	ClientProject string    `json:"client_project"`
	MonthlyCost   float64   `json:"monthly_cost"`
	AnnualCost    float64   `json:"annual_cost"`
}

type LicenseUpdateInput struct {
	LicenseKey    string     `json:"license_key"`
	ExpiryDate    *time.Time `json:"expiry_date"`
	AutoRenew     *bool      `json:"auto_renew"`
	UsageLimits   string     `json:"usage_limits"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes"`
	ClientProject string     `json:"client_project"`
	MonthlyCost   *float64   `json:"monthly_cost"`
	AnnualCost    *float64   `json:"annual_cost"`
}

func validStatus(s string) bool {
	return s == model.StatusActive || s == model.StatusExpired || s == model.StatusRenewed
}

func (h *Handler) HandleLicenseCreate(c *fiber.Ctx) error {
	input := new(LicenseCreateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input data",
		})
	}
	if input.LicenseKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "license key is required",
		})
	}
	if input.ExpiryDate.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "expiry date is required",
		})
	}
	if input.Status != "" && !validStatus(input.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid status",
		})
	}
	if input.MonthlyCost < 0 || input.AnnualCost < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "costs must be non-negative",
		})
	}

	// The product must belong to the caller
	var product model.Product
	err := h.DB.Where("id = ? AND user_id = ?", input.ProductID, currentUserID(c)).First(&product).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "product not found",
		})
	}

	encryptedKey, err := h.Cipher.Encrypt(input.LicenseKey)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to encrypt license key",
		})
	}

	license := &model.License{
		ProductID:     product.ID,
		LicenseKey:    encryptedKey,
		ExpiryDate:    input.ExpiryDate,
		Status:        input.Status,
		AutoRenew:     input.AutoRenew,
		UsageLimits:   input.UsageLimits,
		Notes:         input.Notes,
		ClientProject: input.ClientProject,
		MonthlyCost:   input.MonthlyCost,
		AnnualCost:    input.AnnualCost,
	}
	if err := h.DB.Create(license).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create license",
		})
	}
	license.Product = &product

	h.exportToSheet(license)

	// Responses carry the plaintext key
	license.LicenseKey = input.LicenseKey
	return c.Status(fiber.StatusCreated).JSON(license)
}

func (h *Handler) HandleLicenseList(c *fiber.Ctx) error {
	status := c.Query("status")
	clientProject := c.Query("client_project")
	tag := c.Query("tag")
	search := c.Query("search")

	db := h.DB.
		Joins("JOIN products ON products.id = licenses.product_id").
		Where("products.user_id = ?", currentUserID(c)).
		Preload("Product")

	if status != "" {
		db = db.Where("licenses.status = ?", status)
	}
	if clientProject != "" {
		db = db.Where("licenses.client_project = ?", clientProject)
	}
	if search != "" {
		db = db.Where("licenses.notes LIKE ?", "%"+search+"%")
	}

	var licenses []model.License
	if err := db.Order("licenses.expiry_date ASC").Find(&licenses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list licenses",
		})
	}

	result := make([]model.License, 0, len(licenses))
	for _, lic := range licenses {
		if tag != "" && (lic.Product == nil || !lic.Product.Tags.Has(tag)) {
			continue
		}
		plaintext, err := h.Cipher.Decrypt(lic.LicenseKey)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to decrypt license key",
			})
		}
		lic.LicenseKey = plaintext
		result = append(result, lic)
	}

	return c.JSON(result)
}

func (h *Handler) HandleLicenseUpdate(c *fiber.Ctx) error {
	input := new(LicenseUpdateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input data",
		})
	}
	if input.Status != "" && !validStatus(input.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid status",
		})
	}
	if (input.MonthlyCost != nil && *input.MonthlyCost < 0) || (input.AnnualCost != nil && *input.AnnualCost < 0) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "costs must be non-negative",
		})
	}

	license, status, errMsg := h.findOwnedLicense(c.Params("id"), currentUserID(c))
	if license == nil {
		return c.Status(status).JSON(fiber.Map{"error": errMsg})
	}

	// Re-encrypt only when a new key is supplied
	if input.LicenseKey != "" {
		encryptedKey, err := h.Cipher.Encrypt(input.LicenseKey)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to encrypt license key",
			})
		}
		license.LicenseKey = encryptedKey
	}
	if input.ExpiryDate != nil && !input.ExpiryDate.IsZero() {
		license.ExpiryDate = *input.ExpiryDate
	}
	if input.AutoRenew != nil {
		license.AutoRenew = *input.AutoRenew
	}
	if input.UsageLimits != "" {
		license.UsageLimits = input.UsageLimits
	}
	if input.Status != "" {
		license.Status = input.Status
	}
	if input.Notes != "" {
		license.Notes = input.Notes
	}
	if input.ClientProject != "" {
		license.ClientProject = input.ClientProject
	}
	if input.MonthlyCost != nil {
		license.MonthlyCost = *input.MonthlyCost
	}
	if input.AnnualCost != nil {
		license.AnnualCost = *input.AnnualCost
	}

	if err := h.DB.Save(license).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update license",
		})
	}

	h.exportToSheet(license)

	plaintext, err := h.Cipher.Decrypt(license.LicenseKey)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to decrypt license key",
		})
	}
	license.LicenseKey = plaintext
	return c.JSON(license)
}

func (h *Handler) HandleLicenseDelete(c *fiber.Ctx) error {
	license, status, errMsg := h.findOwnedLicense(c.Params("id"), currentUserID(c))
	if license == nil {
		return c.Status(status).JSON(fiber.Map{"error": errMsg})
	}

	// Notifications created for this license persist independently
	if err := h.DB.Delete(license).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete license",
		})
	}

	return c.JSON(fiber.Map{
		"message":    "license deleted",
		"deleted_id": license.ID,
	})
}

// findOwnedLicense loads a license with its product and checks the
// license→product→user ownership chain.
func (h *Handler) findOwnedLicense(id, userID string) (*model.License, int, string) {
	var license model.License
	if err := h.DB.Preload("Product").First(&license, "id = ?", id).Error; err != nil {
		return nil, fiber.StatusNotFound, "license not found"
	}
	if license.Product == nil || license.Product.UserID != userID {
		return nil, fiber.StatusForbidden, "not authorized for this license"
	}
	return &license, 0, ""
}

// exportToSheet pushes an inventory row asynchronously when the export is
// configured. The license is copied so the handler can keep mutating its
// response value.
func (h *Handler) exportToSheet(license *model.License) {
	if h.Sheets == nil || license.Product == nil {
		return
	}
	snapshot := *license
	go h.Sheets.ExportLicense(&snapshot)
}
