package candidate

import (
	"errors"
	"strings"

	"ipo-hype-tracker/internal/digest/dto"
)

// ErrMissingIdentity is returned for records without a usable company name or ticker.
var ErrMissingIdentity = errors.New("candidate is missing a name or ticker")

// Normalize resolves record onto the canonical candidate schema, including its price range.
func Normalize(record dto.RawCandidate, datasets ...[]dto.RawCandidate) (dto.Candidate, error) {
	name, hasName := LookupString(record, Keys(FieldName))
	ticker, hasTicker := LookupString(record, Keys(FieldTicker))
	if !hasName || !hasTicker {
		return dto.Candidate{Raw: record}, ErrMissingIdentity
	}

	return dto.Candidate{
		Name:             name,
		Ticker:           strings.ToUpper(ticker),
		ExpectedDate:     ResolveField(record, Keys(FieldExpectedDate), ""),
		Exchange:         ResolveField(record, Keys(FieldExchange), ""),
		Sector:           ResolveField(record, Keys(FieldSector), ""),
		Industry:         ResolveField(record, Keys(FieldIndustry), ""),
		SharesOffered:    ResolveField(record, Keys(FieldShares), 0.0),
		DealSize:         ResolveField(record, Keys(FieldDealSize), 0.0),
		ImpliedMarketCap: ResolveField(record, Keys(FieldImpliedMarketCap), 0.0),
		PriceRange:       ResolvePriceRange(record, datasets...),
		Raw:              record,
	}, nil
}
