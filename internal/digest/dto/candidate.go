package dto

// RawCandidate is one IPO row as received from an upstream source. Keys are not normalized.
type RawCandidate map[string]interface{}

// Keys returns the record's keys, for logging dropped rows.
func (r RawCandidate) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	return keys
}

// PriceRange is the proposed offer price band. {0, 0} means unknown.
type PriceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Known reports whether any bound resolved.
func (p PriceRange) Known() bool {
	return p.Low > 0 || p.High > 0
}

// Mid returns the centre of the band.
func (p PriceRange) Mid() float64 {
	return (p.Low + p.High) / 2
}

// Candidate is a RawCandidate resolved onto the canonical schema.
type Candidate struct {
	Name             string       `json:"name"`
	Ticker           string       `json:"ticker"`
	ExpectedDate     string       `json:"expected_date,omitempty"`
	Exchange         string       `json:"exchange,omitempty"`
	Sector           string       `json:"sector,omitempty"`
	Industry         string       `json:"industry,omitempty"`
	SharesOffered    float64      `json:"shares_offered,omitempty"`
	DealSize         float64      `json:"deal_size,omitempty"`
	ImpliedMarketCap float64      `json:"implied_market_cap,omitempty"`
	PriceRange       PriceRange   `json:"price_range"`
	Raw              RawCandidate `json:"-"`
}
