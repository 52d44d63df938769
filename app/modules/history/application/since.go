package historyservice

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ParseSince turns a window start such as "2 weeks ago", "last monday",
// "72h" or "2026-01-31" into a time relative to now. Durations count back
// from now.
func ParseSince(expr string, now time.Time) (time.Time, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return time.Time{}, nil
	}

	if d, err := time.ParseDuration(expr); err == nil {
		return now.Add(-d), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", expr, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, expr); err == nil {
		return t, nil
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	r, err := w.Parse(strings.ToLower(expr), now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrBadSince, expr, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrBadSince, expr)
	}
	return r.Time, nil
}
