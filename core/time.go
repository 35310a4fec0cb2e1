package core

import (
	"errors"
	"time"
)

var errNotTimeString = errors.New("core: expected RFC 3339 string")

// registerTime installs the RFC 3339 codec for time.Time.
func registerTime(c *Codec) {
	Register(c, "date-time", func(c *Codec, data Value) (time.Time, error) {
		var s string
		if err := c.driver.Unmarshal(data, &s); err != nil {
			return time.Time{}, errNotTimeString
		}
		return parseRFC3339(s)
	})
	RegisterEncoder(c, func(c *Codec, t time.Time) (Value, error) {
		b, err := c.driver.Marshal(FormatTime(t))
		return Value(b), err
	})
}

// parseRFC3339 accepts an optional fractional second.
func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// FormatTime renders t the way the API expects date-time values: UTC,
// RFC 3339 with trailing fractional zeros trimmed.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
