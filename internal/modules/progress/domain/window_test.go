package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencycheck/internal/modules/progress/domain"
	apperrors "agencycheck/internal/platform/errors"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTrainingYearWindow(t *testing.T) {
	t.Parallel()
	cases := []struct {
		now        time.Time
		start, end time.Time
		label      string
	}{
		{day(2025, time.March, 15), day(2024, time.August, 1), day(2025, time.July, 31), "2024/2025"},
		{day(2025, time.September, 10), day(2025, time.August, 1), day(2026, time.July, 31), "2025/2026"},
		{day(2025, time.July, 31).Add(20 * time.Hour), day(2024, time.August, 1), day(2025, time.July, 31), "2024/2025"},
		{day(2025, time.August, 1), day(2025, time.August, 1), day(2026, time.July, 31), "2025/2026"},
	}
	for _, tc := range cases {
		w := domain.ResolveWindow(domain.WindowSpec{Mode: domain.ModeTrainingYear}, tc.now)
		require.True(t, w.Bounded(), "now=%s", tc.now)
		assert.Equal(t, tc.start, *w.Start)
		assert.Equal(t, tc.end.Format(time.DateOnly), w.End.Format(time.DateOnly))
		assert.Equal(t, 23, w.End.Hour())
		assert.Equal(t, tc.label, w.Label)
		assert.False(t, w.Fallback)
	}
}

func TestRollingWindowsEndWithToday(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)
	for mode, days := range map[domain.WindowMode]int{
		domain.ModeLast7Days:  7,
		domain.ModeLast30Days: 30,
		domain.ModeLastYear:   365,
	} {
		w := domain.ResolveWindow(domain.WindowSpec{Mode: mode}, now)
		require.True(t, w.Bounded())
		assert.Equal(t, now.AddDate(0, 0, -days), *w.Start, "mode %s", mode)
		assert.True(t, w.Contains(time.Date(2025, time.March, 15, 23, 59, 0, 0, time.UTC)))
		assert.False(t, w.Contains(time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC)))
	}
}

func TestCustomWindowFallsBackWhenInvalid(t *testing.T) {
	t.Parallel()
	now := day(2025, time.March, 15)
	from, to := day(2025, time.February, 1), day(2025, time.January, 1)

	inverted := domain.ResolveWindow(domain.WindowSpec{Mode: domain.ModeCustom, Start: &from, End: &to}, now)
	assert.True(t, inverted.Fallback)
	assert.False(t, inverted.Bounded())

	missing := domain.ResolveWindow(domain.WindowSpec{Mode: domain.ModeCustom, Start: &from}, now)
	assert.True(t, missing.Fallback)

	valid := domain.ResolveWindow(domain.WindowSpec{Mode: domain.ModeCustom, Start: &to, End: &from}, now)
	assert.False(t, valid.Fallback)
	assert.True(t, valid.Contains(to))
	assert.True(t, valid.Contains(from))
	assert.Equal(t, "2025-01-01..2025-02-01", valid.Label)
}

func TestAllWindowIsUnbounded(t *testing.T) {
	t.Parallel()
	w := domain.ResolveWindow(domain.WindowSpec{Mode: domain.ModeAll}, day(2025, time.March, 15))
	assert.False(t, w.Bounded())
	assert.False(t, w.Fallback)
	assert.True(t, w.Contains(day(1999, time.January, 1)))
}

func TestParseWindowMode(t *testing.T) {
	t.Parallel()
	mode, err := domain.ParseWindowMode("TrainingYear")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeTrainingYear, mode)

	_, err = domain.ParseWindowMode("fortnight")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidWindow))
}
