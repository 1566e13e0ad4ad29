package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultMaxSize is used when a configured maximum size string cannot be
// parsed.
const DefaultMaxSize = 10 << 30 // 10 GiB

var sizeRegex = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*([kKmMgGtT]?[bB]?)$`)

var sizeUnits = map[string]int64{
	"B":  1,
	"KB": 1 << 10,
	"MB": 1 << 20,
	"GB": 1 << 30,
	"TB": 1 << 40,
}

// ParseSize converts a human-readable size string ("700MB", "1.5 GB", "512B")
// into bytes. Comma decimal separators are accepted.
func ParseSize(s string) (int64, error) {
	match := sizeRegex.FindStringSubmatch(strings.TrimSpace(s))
	if match == nil {
		return 0, fmt.Errorf("invalid size %q, supported formats: B/KB/MB/GB/TB", s)
	}

	num, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}

	unit := strings.ToUpper(match[2])
	if unit == "" {
		unit = "B"
	} else if !strings.HasSuffix(unit, "B") {
		unit += "B"
	}

	mult, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("invalid size unit %q", unit)
	}

	return int64(math.Round(num * float64(mult))), nil
}

// FormatSize renders a byte count for display ("1.4 gb").
func FormatSize(size int64) string {
	if size < 1024 && size > -1024 {
		return fmt.Sprintf("%d B", size)
	}

	units := []string{"kb", "mb", "gb", "tb"}
	v := float64(size)
	i := -1
	for {
		v /= 1024
		i++
		if math.Abs(v) < 1024 || i == len(units)-1 {
			break
		}
	}
	return fmt.Sprintf("%.1f %s", v, units[i])
}
