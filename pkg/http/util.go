package http

import (
	"time"

	xutil "StockHub/pkg/util"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int { return xutil.ParseIntDefault(s, def) }

// ParseDate parses a YYYY-MM-DD query value as a UTC day.
func ParseDate(s string) (time.Time, error) { return xutil.ParseDate(s) }
