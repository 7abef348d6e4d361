package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("LICENSE_ENC_KEY", "0123456789abcdef0123456789abcdef")
}

func TestLoadDefaults(t *testing.T) {
	setValidEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []int{7, 3, 1}, cfg.Alert.LeadDays)
	assert.Equal(t, "0 9 * * *", cfg.Alert.Schedule)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("LICENSE_ENC_KEY", "0123456789abcdef0123456789abcdef")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadBadEncryptionKeyLength(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("LICENSE_ENC_KEY", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LICENSE_ENC_KEY")
}

func TestLoadBadSchedule(t *testing.T) {
	setValidEnv(t)
	t.Setenv("ALERT_SCHEDULE", "not a cron spec")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMalformedNumericEnv(t *testing.T) {
	setValidEnv(t)
	t.Setenv("SMTP_PORT", "abc")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_PORT")
}

func TestLoadMalformedBoolEnv(t *testing.T) {
	setValidEnv(t)
	t.Setenv("SHEETS_ENABLED", "maybe")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHEETS_ENABLED")
}

func TestLoadCustomAlertDays(t *testing.T) {
	setValidEnv(t)
	t.Setenv("ALERT_DAYS", "1,30,14")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []int{30, 14, 1}, cfg.Alert.LeadDays)
}

func TestLoadSheetsRequiresCredentials(t *testing.T) {
	setValidEnv(t)
	t.Setenv("SHEETS_ENABLED", "true")

	_, err := Load()
	assert.Error(t, err)
}

func TestParseLeadDays(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{"default_order", "7,3,1", []int{7, 3, 1}, false},
		{"sorted_descending", "1,7,3", []int{7, 3, 1}, false},
		{"whitespace", " 7, 3 ,1 ", []int{7, 3, 1}, false},
		{"single", "14", []int{14}, false},
		{"duplicate", "7,7", nil, true},
		{"zero", "0", nil, true},
		{"negative", "-3", nil, true},
		{"not_a_number", "7,three", nil, true},
		{"empty", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLeadDays(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
