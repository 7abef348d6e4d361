package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// License statuses. Only Active licenses are considered by expiry alerting.
const (
	StatusActive  = "Active"
	StatusExpired = "Expired"
	StatusRenewed = "Renewed"
)

// License belongs to exactly one Product. LicenseKey holds the encrypted key
// material ("ivhex:cipherhex"); plaintext never touches storage.
type License struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	ProductID     string    `json:"product_id" gorm:"index;not null"`
	LicenseKey    string    `json:"license_key" gorm:"not null"`
	ExpiryDate    time.Time `json:"expiry_date" gorm:"index;not null"`
	Status        string    `json:"status" gorm:"not null;default:'Active'"`
	AutoRenew     bool      `json:"auto_renew" gorm:"default:false"`
	MonthlyCost   float64   `json:"monthly_cost" gorm:"default:0"`
	AnnualCost    float64   `json:"annual_cost" gorm:"default:0"`
	Notes         string    `json:"notes"`
	UsageLimits   string    `json:"usage_limits"`
	ClientProject string    `json:"client_project"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (l *License) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = StatusActive
	}
	return nil
}
