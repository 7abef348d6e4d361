package alert

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ExpiringLicense is one scan result: a license joined with its owning
// product and that product's owning user.
type ExpiringLicense struct {
	LicenseID   string
	ProductName string
	ExpiryDate  time.Time
	UserID      string
	UserEmail   string
}

// LicenseStore is the read side of the license database as the pipeline
// sees it.
type LicenseStore interface {
	// FindActiveExpiringBetween returns every Active license whose expiry
	// date falls in [start, end), joined with its product and user. An
	// empty result is not an error.
	FindActiveExpiringBetween(ctx context.Context, start, end time.Time) ([]ExpiringLicense, error)
}

// Scanner queries the license store for one lead-time window at a time.
type Scanner struct {
	store   LicenseStore
	timeout time.Duration
	log     *zap.Logger
}

func NewScanner(store LicenseStore, timeout time.Duration, log *zap.Logger) *Scanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scanner{store: store, timeout: timeout, log: log}
}

// Scan returns all Active licenses expiring in exactly leadDays whole days
// from now. The store call carries a bounded timeout so a hung query cannot
// stall the cycle. Store failures are returned to the caller; the cycle
// decides whether to continue with other lead times.
func (s *Scanner) Scan(ctx context.Context, now time.Time, leadDays int) ([]ExpiringLicense, error) {
	start, end := WindowRange(now, leadDays)

	sctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	licenses, err := s.store.FindActiveExpiringBetween(sctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("scan lead time %dd: %w", leadDays, err)
	}

	s.log.Info("expiry scan complete",
		zap.Int("lead_days", leadDays),
		zap.Int("matched", len(licenses)),
	)
	return licenses, nil
}
