package formatting

import (
	"fmt"
	"strconv"
	"strings"
)

var byteUnits = map[string]int64{
	"B":  1,
	"KB": 1 << 10,
	"MB": 1 << 20,
	"GB": 1 << 30,
	"TB": 1 << 40,
}

// ParseBytes parses a human-readable byte size string (e.g. "50MB") into a
// byte count. Unit matching is case-insensitive; an optional space between
// number and unit is allowed; a bare number is treated as bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	cut := len(s)
	for cut > 0 && !isDigit(s[cut-1]) {
		cut--
	}

	number := strings.TrimSpace(s[:cut])
	unit := strings.ToUpper(strings.TrimSpace(s[cut:]))

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	if unit == "" {
		return int64(value), nil
	}

	scale, ok := byteUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unknown byte size unit: %q", unit)
	}

	return int64(value * float64(scale)), nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9' || b == '.'
}
