// Package timex extends time.Duration parsing with a day unit and JSON
// support, so lifetimes such as "7d" or "30d" can be written in config files
// and environment variables.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Day is the length of the "d" unit. Calendar effects (DST) are ignored.
const Day = 24 * time.Hour

// ErrInvalidDuration is returned for strings that are neither a Go duration,
// a day-prefixed duration, nor a plain number of seconds.
var ErrInvalidDuration = errors.New("invalid duration")

// ParseDuration accepts:
//
//	"90s", "15m", "1h30m"   Go duration syntax
//	"7d", "1d12h"           whole days, optionally followed by Go syntax
//	"3600"                  plain integer, interpreted as seconds
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidDuration
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}

	days, rest, found := strings.Cut(s, "d")
	if !found {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
		}
		return d, nil
	}

	n, err := strconv.ParseInt(days, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	d := time.Duration(n) * Day
	if rest != "" {
		extra, err := time.ParseDuration(rest)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
		}
		d += extra
	}
	return d, nil
}

// Duration wraps time.Duration for JSON decoding. It accepts a string in any
// form ParseDuration understands, or a number of nanoseconds.
type Duration struct {
	time.Duration
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("%w: unsupported json type %T", ErrInvalidDuration, v)
	}
}

// MarshalJSON implements json.Marshaler using Go duration syntax.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
