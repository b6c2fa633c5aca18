// package countdown computes the time left until the release deadline
package countdown

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Parts is a remaining duration split into display units.
type Parts struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Remaining splits target-now into whole days, hours, minutes and seconds.
// A target in the past yields all zeros.
func Remaining(now, target time.Time) Parts {
	d := target.Sub(now)
	if d <= 0 {
		return Parts{}
	}

	total := int64(d / time.Second)
	return Parts{
		Days:    int(total / 86400),
		Hours:   int(total % 86400 / 3600),
		Minutes: int(total % 3600 / 60),
		Seconds: int(total % 60),
	}
}

// String renders parts as "12d 03:04:05".
func (p Parts) String() string {
	return fmt.Sprintf("%dd %02d:%02d:%02d", p.Days, p.Hours, p.Minutes, p.Seconds)
}

// Zero reports whether the deadline has been reached.
func (p Parts) Zero() bool {
	return p == Parts{}
}

// Relative describes target relative to now, e.g. "3 weeks from now" or "2 days ago".
func Relative(now, target time.Time) string {
	return humanize.RelTime(target, now, "ago", "from now")
}

// Watch calls fn with the current time every interval until ctx is done.
// fn is also called once immediately.
func Watch(ctx context.Context, interval time.Duration, fn func(now time.Time)) error {
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fn(time.Now())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			fn(now)
		}
	}
}
