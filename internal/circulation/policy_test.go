package circulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Test_PenaltyFor(t *testing.T) {
	due := day(2026, time.March, 10)

	tests := []struct {
		name     string
		returned time.Time
		want     int
	}{
		{"early_return", day(2026, time.March, 5), 0},
		{"on_due_date", due, 0},
		{"on_due_date_late_evening", time.Date(2026, time.March, 10, 23, 50, 0, 0, time.UTC), 0},
		{"one_day_late", day(2026, time.March, 11), 1 * penaltyPerDay},
		{"two_days_late", day(2026, time.March, 12), 2 * penaltyPerDay},
		{"midnight_boundary", time.Date(2026, time.March, 11, 0, 0, 1, 0, time.UTC), 1 * penaltyPerDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, penaltyFor(due, tt.returned))
		})
	}
}

func Test_DateOnly_NormalizesToUTCMidnight(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	// JSTの 2026-03-11 08:00 は UTC では 2026-03-10 23:00
	in := time.Date(2026, time.March, 11, 8, 0, 0, 0, jst)
	assert.Equal(t, day(2026, time.March, 10), dateOnly(in))
}
