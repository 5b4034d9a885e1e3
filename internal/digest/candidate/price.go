package candidate

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"ipo-hype-tracker/internal/digest/dto"
)

// bandSpread is the half-width of the band synthesized around a lone mid-point.
const bandSpread = 0.10

var rangeNumber = regexp.MustCompile(`\d+(?:\.\d+)?|\.\d+`)

// ResolvePriceRange reconstructs the proposed low/high price of record. Missing bounds are
// filled, in order, from a combined range string, the first matching auxiliary row, a
// reflection of the mid-point against the known bound, and a band around the mid-point.
// The result is {0, 0} when nothing resolves; it is never negative and never inverted.
func ResolvePriceRange(record dto.RawCandidate, datasets ...[]dto.RawCandidate) dto.PriceRange {
	low, hasLow := lookupPrice(record, FieldPriceLow)
	high, hasHigh := lookupPrice(record, FieldPriceHigh)
	low, hasLow, high, hasHigh = fillFromRangeString(record, low, hasLow, high, hasHigh)
	mid, hasMid := lookupPrice(record, FieldPriceMid)

	if !hasLow || !hasHigh {
		if row := MatchAuxiliary(record, datasets...); row != nil {
			if !hasLow {
				low, hasLow = lookupPrice(row, FieldPriceLow)
			}
			if !hasHigh {
				high, hasHigh = lookupPrice(row, FieldPriceHigh)
			}
			low, hasLow, high, hasHigh = fillFromRangeString(row, low, hasLow, high, hasHigh)
			if !hasMid {
				mid, hasMid = lookupPrice(row, FieldPriceMid)
			}
		}
	}

	switch {
	case hasLow && hasHigh:
	case hasMid && hasLow:
		high = mid + (mid - low)
	case hasMid && hasHigh:
		low = math.Max(0, mid-(high-mid))
	case hasMid:
		low = mid * (1 - bandSpread)
		high = mid * (1 + bandSpread)
	case hasLow:
		high = low
	case hasHigh:
		low = high
	default:
		return dto.PriceRange{}
	}

	return clampRange(low, high)
}

// MatchAuxiliary returns the first auxiliary row whose ticker equals the record's ticker,
// case-insensitively, across all datasets in order. Only when no ticker matches anywhere
// does it fall back to company-name equality. It returns nil when nothing matches.
func MatchAuxiliary(record dto.RawCandidate, datasets ...[]dto.RawCandidate) dto.RawCandidate {
	if len(datasets) == 0 {
		return nil
	}

	if ticker, ok := LookupString(record, Keys(FieldTicker)); ok {
		if row := findRow(datasets, FieldTicker, ticker); row != nil {
			return row
		}
	}
	if name, ok := LookupString(record, Keys(FieldName)); ok {
		if row := findRow(datasets, FieldName, name); row != nil {
			return row
		}
	}
	return nil
}

func findRow(datasets [][]dto.RawCandidate, field Field, want string) dto.RawCandidate {
	for _, rows := range datasets {
		for _, row := range rows {
			got, ok := LookupString(row, Keys(field))
			if ok && strings.EqualFold(got, want) {
				return row
			}
		}
	}
	return nil
}

// lookupPrice treats zero and negative prices as unknown.
func lookupPrice(record dto.RawCandidate, field Field) (float64, bool) {
	v, ok := LookupNumber(record, Keys(field))
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// fillFromRangeString fills missing bounds from a range string under the range aliases,
// then under the mid aliases, where calendars often put "14.00-16.00" in a "Price" column.
func fillFromRangeString(record dto.RawCandidate, low float64, hasLow bool, high float64, hasHigh bool) (float64, bool, float64, bool) {
	for _, field := range []Field{FieldPriceRange, FieldPriceMid} {
		if hasLow && hasHigh {
			break
		}
		rl, rh, ok := parseRangeString(record, field)
		if !ok {
			continue
		}
		if !hasLow {
			low, hasLow = rl, true
		}
		if !hasHigh {
			high, hasHigh = rh, true
		}
	}
	return low, hasLow, high, hasHigh
}

// parseRangeString reads values like "$10.00 - $12.00". A single number is not a range.
func parseRangeString(record dto.RawCandidate, field Field) (float64, float64, bool) {
	raw, ok := LookupString(record, Keys(field))
	if !ok {
		return 0, 0, false
	}
	matches := rangeNumber.FindAllString(strings.ReplaceAll(raw, ",", ""), -1)
	if len(matches) < 2 {
		return 0, 0, false
	}
	low, errLow := strconv.ParseFloat(matches[0], 64)
	high, errHigh := strconv.ParseFloat(matches[1], 64)
	if errLow != nil || errHigh != nil || low <= 0 || high <= 0 {
		return 0, 0, false
	}
	return low, high, true
}

func clampRange(low, high float64) dto.PriceRange {
	low = math.Max(0, low)
	high = math.Max(0, high)
	if low > high {
		low, high = high, low
	}
	return dto.PriceRange{Low: low, High: high}
}
