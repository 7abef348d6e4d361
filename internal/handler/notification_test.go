package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"license-tracker/internal/model"
)

func TestHandleNotificationListAndRead(t *testing.T) {
	app, db := newTestApp(t)
	token, userID := registerUser(t, app, "owner@example.com")
	_, otherID := registerUser(t, app, "other@example.com")

	mine := &model.Notification{UserID: userID, Message: "License for Acme CRM expires in 7 days."}
	require.NoError(t, db.Create(mine).Error)
	theirs := &model.Notification{UserID: otherID, Message: "License for Design Suite expires in 1 day."}
	require.NoError(t, db.Create(theirs).Error)

	var notifications []model.Notification
	resp := doJSON(t, app, http.MethodGet, "/api/v1/notifications", token, nil, &notifications)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, notifications, 1)
	assert.Equal(t, mine.ID, notifications[0].ID)
	assert.False(t, notifications[0].Read)

	var updated model.Notification
	resp = doJSON(t, app, http.MethodPut, "/api/v1/notifications/"+mine.ID+"/read", token, nil, &updated)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, updated.Read)

	// Cannot mark someone else's notification
	resp = doJSON(t, app, http.MethodPut, "/api/v1/notifications/"+theirs.ID+"/read", token, nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleCostSummary(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := registerUser(t, app, "owner@example.com")
	productID := createProduct(t, app, token, "Acme CRM", nil)

	// Active license renewing within 30 days
	soon := licenseInput(productID)
	soon.ExpiryDate = soon.ExpiryDate.AddDate(-1, 0, 0).AddDate(0, 0, 10)
	soon.MonthlyCost = 10
	soon.AnnualCost = 120
	resp := doJSON(t, app, http.MethodPost, "/api/v1/licenses", token, soon, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Active license expiring far in the future
	far := licenseInput(productID)
	far.MonthlyCost = 5
	far.AnnualCost = 0
	resp = doJSON(t, app, http.MethodPost, "/api/v1/licenses", token, far, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Expired licenses are excluded from the aggregate
	expired := licenseInput(productID)
	expired.Status = model.StatusExpired
	expired.MonthlyCost = 100
	resp = doJSON(t, app, http.MethodPost, "/api/v1/licenses", token, expired, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Still marked Active but already lapsed: counts toward spend, never
	// toward the upcoming renewal total
	lapsed := licenseInput(productID)
	lapsed.ExpiryDate = time.Now().AddDate(0, 0, -1).UTC()
	lapsed.MonthlyCost = 0
	lapsed.AnnualCost = 500
	resp = doJSON(t, app, http.MethodPost, "/api/v1/licenses", token, lapsed, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var summary struct {
		MonthlySpend     float64 `json:"monthly_spend"`
		AnnualSpend      float64 `json:"annual_spend"`
		Next30DayRenewal float64 `json:"next_30_day_renewal"`
	}
	resp = doJSON(t, app, http.MethodGet, "/api/v1/cost/summary", token, nil, &summary)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.InDelta(t, 15, summary.MonthlySpend, 0.001)
	assert.InDelta(t, 620, summary.AnnualSpend, 0.001)
	assert.InDelta(t, 120, summary.Next30DayRenewal, 0.001)
}
