// internal/timeutil/date_test.go
package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		endOfDay bool
		want     time.Time
		wantErr  bool
	}{
		{"empty", "", false, time.Time{}, false},
		{"bare start date", "2024-03-01", false, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"bare end date covers the day", "2024-03-01", true, time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC), false},
		{"rfc3339 kept as is", "2024-03-01T10:00:00Z", true, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), false},
		{"garbage", "last week", false, time.Time{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.input, tc.endOfDay)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
		})
	}
}
