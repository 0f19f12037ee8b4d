package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/life-in-weeks/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"DefaultPastColor", config.DefaultPastColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestCalendarRules_Sanity pins the grid dimensions and input bounds.
func TestCalendarRules_Sanity(t *testing.T) {
	assert.Equal(t, 52, config.WeeksPerYear)
	assert.Equal(t, 1, config.MinLifespanYears)
	assert.Equal(t, 150, config.MaxLifespanYears)
	assert.GreaterOrEqual(t, config.DefaultLifespanYears, config.MinLifespanYears)
	assert.LessOrEqual(t, config.DefaultLifespanYears, config.MaxLifespanYears)
	assert.Equal(t, 5, config.LabelPeriod)
	assert.Equal(t, 604800, config.DaysPerWeek*config.SecondsPerDay)
}

// TestUserAgent_Format ensures the UA string follows the standard format.
func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Life-In-Weeks/"), "UserAgent must start with AppName/")
}

func TestExportLayout_Sanity(t *testing.T) {
	assert.Equal(t, 2, config.ExportPixelRatio)
	assert.Equal(t, 24, config.ExportPaddingTop)
	assert.Equal(t, 24, config.ExportPaddingRight)
	assert.Less(t, config.ExportRingWidth*2, config.ExportCellSize, "a future ring must leave a hollow center")
}

func TestSupportedLanguages_IncludesDefault(t *testing.T) {
	assert.Contains(t, config.SupportedLanguages, config.DefaultLanguage)
}

// TestTimeoutsAndLimits ensures that operational constraints are reasonable.
func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second, "HTTPTimeout must be positive")
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute, "HTTPTimeout should not be excessively long")
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second, "ShutdownTimeout must be positive")
	assert.Less(t, config.HandlerTimeout, config.ServerWriteTimeout, "handlers must finish before the write deadline")

	// A vCard is a few kilobytes; the cap only guards against endless streams.
	assert.Greater(t, config.MaxHTTPResponseSize, 0, "MaxHTTPResponseSize must be positive")
	assert.LessOrEqual(t, int64(config.MaxHTTPResponseSize), int64(16*1024*1024))
}
