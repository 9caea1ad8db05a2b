// internal/timeutil/date.go
package timeutil

import "time"

// ParseDate accepts RFC 3339 or a bare YYYY-MM-DD date. An empty string yields the zero time.
// With endOfDay set, a bare date covers the whole day.
func ParseDate(v string, endOfDay bool) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t, nil
}
