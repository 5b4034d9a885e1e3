package candidate

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"ipo-hype-tracker/internal/digest/dto"
)

var (
	leadingDecimal = regexp.MustCompile(`[+-]?(\d+\.?\d*|\.\d+)`)

	placeholders = map[string]struct{}{
		"n/a": {}, "na": {}, "nan": {}, "-": {}, "--": {}, "null": {}, "none": {}, "tbd": {}, "tba": {},
	}
)

// ResolveField returns the first value under keys that coerces to T, or fallback.
func ResolveField[T string | float64](record dto.RawCandidate, keys []string, fallback T) T {
	var (
		out any
		ok  bool
	)
	switch any(fallback).(type) {
	case string:
		out, ok = LookupString(record, keys)
	case float64:
		out, ok = LookupNumber(record, keys)
	}
	if !ok {
		return fallback
	}
	return out.(T)
}

// LookupString returns the first trimmed, non-empty, non-placeholder value under keys.
func LookupString(record dto.RawCandidate, keys []string) (string, bool) {
	return lookup(record, keys, coerceString)
}

// LookupNumber returns the first value under keys that parses as a finite number.
func LookupNumber(record dto.RawCandidate, keys []string) (float64, bool) {
	return lookup(record, keys, coerceNumber)
}

// lookup scans keys by exact spelling first; only if nothing matches does it retry with
// case-insensitive key equality, still in alias order.
func lookup[T any](record dto.RawCandidate, keys []string, coerce func(interface{}) (T, bool)) (T, bool) {
	var zero T
	if len(record) == 0 {
		return zero, false
	}

	for _, k := range keys {
		if v, ok := record[k]; ok {
			if out, ok := coerce(v); ok {
				return out, true
			}
		}
	}

	recordKeys := make([]string, 0, len(record))
	for k := range record {
		recordKeys = append(recordKeys, k)
	}
	sort.Strings(recordKeys)

	for _, k := range keys {
		for _, rk := range recordKeys {
			if rk == k || !strings.EqualFold(strings.TrimSpace(rk), k) {
				continue
			}
			if out, ok := coerce(record[rk]); ok {
				return out, true
			}
		}
	}
	return zero, false
}

func coerceString(v interface{}) (string, bool) {
	var s string
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		s = fmt.Sprintf("%d", t)
	case fmt.Stringer:
		s = t.String()
	default:
		return "", false
	}

	s = strings.TrimSpace(s)
	if s == "" || isPlaceholder(s) {
		return "", false
	}
	return s, true
}

func coerceNumber(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		return ParseNumber(t.String())
	case string:
		return ParseNumber(t)
	default:
		return 0, false
	}
}

// ParseNumber strips everything except digits, sign and decimal point, then parses.
// When the stripped text is still not a number ("10.00-12.00") the leading decimal is used.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || isPlaceholder(s) {
		return 0, false
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '+' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return 0, false
	}

	if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return finite(f)
	}

	m := leadingDecimal.FindString(cleaned)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isPlaceholder(s string) bool {
	_, ok := placeholders[strings.ToLower(s)]
	return ok
}
