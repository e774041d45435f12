// Package datetime implements the wire format for timestamps: seconds precision,
// no offset, no fractional part. Values are interpreted and rendered in UTC.
package datetime

import (
	"bytes"
	"fmt"
	"time"
)

// Layout is the wire layout, yyyy-MM-ddTHH:mm:ss.
const Layout = "2006-01-02T15:04:05"

// DateTime is a time.Time that marshals to and from Layout.
type DateTime struct {
	time.Time
}

// New normalizes t to UTC whole seconds.
func New(t time.Time) DateTime {
	return DateTime{Time: Normalize(t)}
}

// Normalize drops sub-second precision and the zone so that Format and Parse round-trip exactly.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// Format renders t in Layout.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Parse reads s in Layout as a UTC timestamp.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q must match %s: %w", s, Layout, err)
	}
	return t, nil
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + Format(d.Time) + `"`), nil
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("timestamp must be a JSON string")
	}
	t, err := Parse(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Ptr returns nil for a nil time, otherwise a DateTime.
func Ptr(t *time.Time) *DateTime {
	if t == nil {
		return nil
	}
	d := New(*t)
	return &d
}
