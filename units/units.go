// Package units parses the two human-readable string encodings the GML
// topology format uses for numeric edge and vertex attributes: bandwidth
// ("10 Mbit", "512 KiB") and duration ("25 ms", "1.5s"). Both parsers mirror
// the source's parse_bandwidth()/parse_time_nanosec() helpers: accept a
// number followed by an optional unit suffix, and report failure rather
// than silently defaulting, so the attribute validator can surface a precise
// Attribute error.
//
// No third-party unit-parsing library appears anywhere in the retrieved
// reference corpus, so this package is a small regex-based implementation
// against the standard library only; see DESIGN.md for the accounting of
// why no ecosystem dependency was substituted here.
package units

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var valueUnitPattern = regexp.MustCompile(`^\s*([0-9]*\.?[0-9]+)\s*([a-zA-Zµ]*)\s*$`)

// bandwidth unit multipliers, in bits/second per unit.
var bandwidthUnits = map[string]float64{
	"b":     1,
	"bit":   1,
	"bits":  1,
	"kbit":  1000,
	"kbits": 1000,
	"kb":    1000,
	"mbit":  1000 * 1000,
	"mbits": 1000 * 1000,
	"mb":    1000 * 1000,
	"gbit":  1000 * 1000 * 1000,
	"gbits": 1000 * 1000 * 1000,
	"gb":    1000 * 1000 * 1000,
	"kibit": 1024,
	"kib":   1024,
	"mibit": 1024 * 1024,
	"mib":   1024 * 1024,
	"gibit": 1024 * 1024 * 1024,
	"gib":   1024 * 1024 * 1024,
}

// ParseBandwidthBitsPerSecond parses a string like "10 Mbit" or "512KiB"
// into bits/second. The caller (validate's bandwidth check) divides by 8*1024 to
// get the KiB/s the rest of the engine works in.
func ParseBandwidthBitsPerSecond(s string) (float64, error) {
	m := valueUnitPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("units: %q is not a valid bandwidth string", s)
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("units: %q has an unparsable number: %w", s, err)
	}
	unit := strings.ToLower(strings.TrimSpace(m[2]))
	if unit == "" {
		// bare number means bits/second, matching the source's fallback.
		return value, nil
	}
	// "KiB"/"MiB"/"GiB" (bytes) vs "Kbit"/"Mbit"/"Gbit" (bits): a trailing
	// "byte"/"bytes"/plain "B" suffix (no "bit") means bytes, not bits.
	if strings.HasSuffix(unit, "byte") || strings.HasSuffix(unit, "bytes") {
		unit = strings.TrimSuffix(strings.TrimSuffix(unit, "s"), "byte") + "b"
	}
	mult, ok := bandwidthUnits[unit]
	if !ok {
		return 0, fmt.Errorf("units: %q has unknown bandwidth unit %q", s, unit)
	}
	isByteUnit := strings.HasSuffix(unit, "b") && !strings.Contains(unit, "bit")
	result := value * mult
	if isByteUnit {
		result *= 8
	}
	return result, nil
}

// duration unit multipliers, in nanoseconds per unit.
var durationUnits = map[string]float64{
	"ns":  1,
	"us":  1000,
	"µs":  1000,
	"ms":  1000 * 1000,
	"s":   1000 * 1000 * 1000,
	"sec": 1000 * 1000 * 1000,
}

// ParseDurationNanoseconds parses a string like "25 ms" or "1.5s" into
// nanoseconds. Callers divide by 1e6 to get the fractional milliseconds the
// engine stores latencies and jitter in.
func ParseDurationNanoseconds(s string) (float64, error) {
	m := valueUnitPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("units: %q is not a valid duration string", s)
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("units: %q has an unparsable number: %w", s, err)
	}
	unit := strings.ToLower(strings.TrimSpace(m[2]))
	if unit == "" {
		unit = "ns"
	}
	mult, ok := durationUnits[unit]
	if !ok {
		return 0, fmt.Errorf("units: %q has unknown duration unit %q", s, unit)
	}
	return value * mult, nil
}
