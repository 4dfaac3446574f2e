package seasons

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentYear(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{name: "wild card weekend", now: time.Date(2026, time.January, 10, 18, 0, 0, 0, time.UTC), want: 2025},
		{name: "super bowl", now: time.Date(2026, time.February, 8, 23, 0, 0, 0, time.UTC), want: 2025},
		{name: "last day of august", now: time.Date(2026, time.August, 31, 23, 59, 59, 0, time.UTC), want: 2025},
		{name: "first day of september", now: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC), want: 2026},
		{name: "december", now: time.Date(2026, time.December, 28, 12, 0, 0, 0, time.UTC), want: 2026},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentYear(tt.now))
		})
	}
}
