package config

import (
	"fmt"
	"os"
	"strconv"
)

// parseIntInRange reads key as an integer in [lo, hi].
func parseIntInRange(key string, fallback, lo, hi int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s: must be an integer between %d and %d", key, lo, hi)
	}
	return n, nil
}

// parseFloatInRange accepts values in (lo, hi].
func parseFloatInRange(key string, fallback, lo, hi float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !(f > lo && f <= hi) {
		return 0, fmt.Errorf("invalid %s: must be a number in (%g, %g]", key, lo, hi)
	}
	return f, nil
}
