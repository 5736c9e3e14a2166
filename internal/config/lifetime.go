package config

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

var lifetimePattern = regexp.MustCompile(`^(\d+)([smhd])$`)

var lifetimeUnits = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
}

// Lifetime is a token lifetime written as <integer><unit>, unit one of s, m, h, d.
type Lifetime time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Lifetime) UnmarshalText(text []byte) error {
	d, err := ParseLifetime(string(text))
	if err != nil {
		return err
	}
	*l = Lifetime(d)
	return nil
}

// Duration returns the lifetime as a time.Duration.
func (l Lifetime) Duration() time.Duration {
	return time.Duration(l)
}

// ParseLifetime parses strings such as "15m" or "7d".
func ParseLifetime(s string) (time.Duration, error) {
	match := lifetimePattern.FindStringSubmatch(s)
	if match == nil {
		return 0, fmt.Errorf("invalid expiry format: %q", s)
	}

	value, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid expiry value %q: %w", s, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("expiry must be positive: %q", s)
	}

	unit := lifetimeUnits[match[2]]
	if value > math.MaxInt64/int64(unit) {
		return 0, fmt.Errorf("expiry out of range: %q", s)
	}

	return time.Duration(value) * unit, nil
}
