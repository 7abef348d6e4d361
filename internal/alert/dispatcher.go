package alert

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// NotificationStore persists in-app notifications. Append-only from the
// pipeline's perspective.
type NotificationStore interface {
	CreateNotification(ctx context.Context, userID, message string) error
}

// MarkerStore is the durable dedup guard. CheckAndSet must be atomic: for a
// given key exactly one caller observes fired=true.
type MarkerStore interface {
	// CheckAndSet records that an alert fired for (licenseID, leadDays,
	// matchDate). It returns false when a marker already existed.
	CheckAndSet(ctx context.Context, licenseID string, leadDays int, matchDate string) (fired bool, err error)
}

// EmailSender delivers reminder emails. Delivery is best-effort; failures
// never block the in-app notification.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Dispatcher produces the two side effects for one matched license: a
// best-effort email and a durable in-app notification, guarded by the
// dedup marker.
type Dispatcher struct {
	notifications NotificationStore
	markers       MarkerStore
	email         EmailSender // nil disables email delivery
	timeout       time.Duration
	log           *zap.Logger
}

func NewDispatcher(notifications NotificationStore, markers MarkerStore, email EmailSender, timeout time.Duration, log *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		notifications: notifications,
		markers:       markers,
		email:         email,
		timeout:       timeout,
		log:           log,
	}
}

// Dispatch handles one (license, lead time) match. The dedup marker is
// claimed first: a marker-store failure skips the dispatch entirely so a
// broken guard under-notifies instead of spamming.
func (d *Dispatcher) Dispatch(ctx context.Context, lic ExpiringLicense, leadDays int, matchDate string) error {
	fired, err := d.checkAndSet(ctx, lic.LicenseID, leadDays, matchDate)
	if err != nil {
		d.log.Error("dedup marker store failed, skipping dispatch",
			zap.String("license_id", lic.LicenseID),
			zap.Int("lead_days", leadDays),
			zap.Error(err),
		)
		return fmt.Errorf("dedup check for license %s: %w", lic.LicenseID, err)
	}
	if !fired {
		d.log.Debug("alert already fired, skipping",
			zap.String("license_id", lic.LicenseID),
			zap.Int("lead_days", leadDays),
			zap.String("match_date", matchDate),
		)
		return nil
	}

	d.sendEmail(ctx, lic, leadDays)

	message := Message(lic.ProductName, leadDays)
	nctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	if err := d.notifications.CreateNotification(nctx, lic.UserID, message); err != nil {
		return fmt.Errorf("create notification for license %s: %w", lic.LicenseID, err)
	}

	d.log.Info("expiry alert dispatched",
		zap.String("license_id", lic.LicenseID),
		zap.String("product", lic.ProductName),
		zap.Int("lead_days", leadDays),
	)
	return nil
}

func (d *Dispatcher) checkAndSet(ctx context.Context, licenseID string, leadDays int, matchDate string) (bool, error) {
	mctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.markers.CheckAndSet(mctx, licenseID, leadDays, matchDate)
}

// sendEmail delivers the reminder email. Failures are logged and swallowed;
// the in-app notification is the durable source of truth.
func (d *Dispatcher) sendEmail(ctx context.Context, lic ExpiringLicense, leadDays int) {
	if d.email == nil {
		return
	}

	ectx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	subject := fmt.Sprintf("License Expiry Reminder: %s", lic.ProductName)
	body := emailBody(lic, leadDays)
	if err := d.email.Send(ectx, lic.UserEmail, subject, body); err != nil {
		d.log.Warn("reminder email failed",
			zap.String("license_id", lic.LicenseID),
			zap.String("to", lic.UserEmail),
			zap.Error(err),
		)
	}
}

// Message renders the in-app notification text, singular at one day.
func Message(productName string, leadDays int) string {
	if leadDays == 1 {
		return fmt.Sprintf("License for %s expires in 1 day.", productName)
	}
	return fmt.Sprintf("License for %s expires in %d days.", productName, leadDays)
}

func emailBody(lic ExpiringLicense, leadDays int) string {
	return fmt.Sprintf(`Hello,

This is a reminder that your license for the product %q is expiring in %d day(s) on %s.

Please renew it to avoid any interruption.

Thank you,
License Tracker App
`, lic.ProductName, leadDays, lic.ExpiryDate.Format("Mon Jan 2 2006"))
}
