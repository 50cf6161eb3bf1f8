package ranks

import (
	"math"
	"strconv"
	"strings"
)

// ParseRank coerces a rank cell. It accepts "12", "12.0", "#12", "T12" and
// "T-12"; fractional values truncate. Values below 1 are rejected.
func ParseRank(value string) (int, bool) {
	v := strings.TrimSpace(value)
	v = strings.TrimPrefix(v, "#")
	if strings.HasPrefix(v, "T") || strings.HasPrefix(v, "t") {
		v = strings.TrimPrefix(v[1:], "-")
	}
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	n := int(f)
	if n < 1 {
		return 0, false
	}
	return n, true
}

func isRank(value string) bool {
	_, ok := ParseRank(value)
	return ok
}
