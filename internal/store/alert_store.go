// Package store implements the alert pipeline's persistence contracts on
// top of gorm. The underlying database is shared with the API layer, so
// nothing here takes locks beyond row-level atomicity.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"license-tracker/internal/alert"
	"license-tracker/internal/model"
)

// LicenseStore reads expiring licenses joined with their ownership chain.
type LicenseStore struct {
	db *gorm.DB
}

func NewLicenseStore(db *gorm.DB) *LicenseStore {
	return &LicenseStore{db: db}
}

// FindActiveExpiringBetween returns Active licenses with expiry in
// [start, end), joined license→product→user in a single query so a product
// deleted mid-scan cannot produce a partial result.
func (s *LicenseStore) FindActiveExpiringBetween(ctx context.Context, start, end time.Time) ([]alert.ExpiringLicense, error) {
	var rows []alert.ExpiringLicense
	err := s.db.WithContext(ctx).
		Table("licenses").
		Select("licenses.id AS license_id, licenses.expiry_date, products.name AS product_name, users.id AS user_id, users.email AS user_email").
		Joins("JOIN products ON products.id = licenses.product_id").
		Joins("JOIN users ON users.id = products.user_id").
		Where("licenses.status = ? AND licenses.expiry_date >= ? AND licenses.expiry_date < ?",
			model.StatusActive, start, end).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query expiring licenses: %w", err)
	}
	return rows, nil
}

// NotificationStore appends in-app notifications.
type NotificationStore struct {
	db *gorm.DB
}

func NewNotificationStore(db *gorm.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) CreateNotification(ctx context.Context, userID, message string) error {
	n := &model.Notification{
		UserID:  userID,
		Message: message,
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// MarkerStore is the durable dedup guard. Atomicity comes from the
// composite unique index on (license_id, lead_days, match_date): under
// concurrent check-and-set for the same key exactly one insert wins.
type MarkerStore struct {
	db *gorm.DB
}

func NewMarkerStore(db *gorm.DB) *MarkerStore {
	return &MarkerStore{db: db}
}

func (s *MarkerStore) CheckAndSet(ctx context.Context, licenseID string, leadDays int, matchDate string) (bool, error) {
	marker := &model.AlertMarker{
		LicenseID: licenseID,
		LeadDays:  leadDays,
		MatchDate: matchDate,
	}
	err := s.db.WithContext(ctx).Create(marker).Error
	if err == nil {
		return true, nil
	}
	if isDuplicateKey(err) {
		return false, nil
	}
	return false, fmt.Errorf("record alert marker: %w", err)
}

// isDuplicateKey matches unique-constraint violations. Error translation
// varies across gorm sqlite drivers, so the raw message is checked as well.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint failed")
}
