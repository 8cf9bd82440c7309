package pills

import (
	"testing"
	"time"

	"github.com/cuttestkittensrule/carepartner/internal/domain"
	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time { return &t }

func floatPtr(v float64) *float64 { return &v }

func TestRenderSingleFollowee(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	output := Render(domain.SummaryMap{
		"user-a": {
			Name:          "Alice",
			Reading:       floatPtr(142),
			Delta:         floatPtr(6),
			Trend:         domain.TrendSlowRise,
			Warning:       domain.WarningLevelNone,
			BasalRate:     floatPtr(0.85),
			ActiveInsulin: floatPtr(1.5),
			ActiveCarbs:   floatPtr(12),
			LastActivity:  timePtr(now.Add(-7 * time.Minute)),
		},
	}, RenderOptions{Now: now})

	assert.Contains(t, output, "followees: 1")
	assert.Contains(t, output, "Alice (user-a)")
	assert.Contains(t, output, "142 mg/dL")
	assert.Contains(t, output, "(+6)")
	assert.Contains(t, output, "basal: 0.85 U/h")
	assert.Contains(t, output, "IOB 1.50 U / COB 12 g")
	assert.Contains(t, output, "last activity 7m ago")
	assert.NotContains(t, output, "CRITICAL")
}

func TestRenderWarningLevels(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	output := Render(domain.SummaryMap{
		"user-a": {
			Name:    "Alice",
			Reading: floatPtr(40),
			Warning: domain.WarningLevelCritical,
		},
		"user-b": {
			Name:    "Bob",
			Reading: floatPtr(280),
			Warning: domain.WarningLevelWarning,
		},
	}, RenderOptions{Now: now})

	assert.Contains(t, output, "followees: 2")
	assert.Contains(t, output, "40 mg/dL")
	assert.Contains(t, output, "CRITICAL")
	assert.Contains(t, output, "280 mg/dL")
	assert.Contains(t, output, "warning")
}

func TestRenderFolloweeWithoutData(t *testing.T) {
	output := Render(domain.SummaryMap{
		"user-a": {Name: "Alice"},
	}, RenderOptions{Now: time.Now()})

	assert.Contains(t, output, "no recent glucose data")
	assert.NotContains(t, output, "basal:")
	assert.NotContains(t, output, "IOB")
}

func TestRenderEmptySnapshot(t *testing.T) {
	output := Render(domain.SummaryMap{}, RenderOptions{Now: time.Now()})

	assert.Contains(t, output, "followees: 0")
	assert.Contains(t, output, "No followee data yet.")
}

func TestRelativeAge(t *testing.T) {
	assert.Equal(t, "just now", relativeAge(20*time.Second))
	assert.Equal(t, "7m ago", relativeAge(7*time.Minute+10*time.Second))
	assert.Equal(t, "3h ago", relativeAge(3*time.Hour+20*time.Minute))
	assert.Equal(t, "2d ago", relativeAge(50*time.Hour))
}
