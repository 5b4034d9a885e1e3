package candidate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"ipo-hype-tracker/internal/digest/dto"
)

func TestResolveField_Precedence(t *testing.T) {
	record := dto.RawCandidate{"Price Low": "10", "price_low": "99"}

	got := ResolveField(record, []string{"Price Low", "price_low"}, -1.0)

	assert.Equal(t, 10.0, got)
}

func TestResolveField_SkipsAbsentAndUnparseable(t *testing.T) {
	record := dto.RawCandidate{"Price Low": "N/A", "price_low": "", "priceLow": "12.5"}

	got := ResolveField(record, []string{"Price Low", "price_low", "priceLow"}, -1.0)

	assert.Equal(t, 12.5, got)
}

func TestResolveField_Fallback(t *testing.T) {
	assert.Equal(t, 7.0, ResolveField(dto.RawCandidate{"x": "N/A"}, []string{"x", "y"}, 7.0))
	assert.Equal(t, "unknown", ResolveField(dto.RawCandidate{"x": "   "}, []string{"x"}, "unknown"))
	assert.Equal(t, "unknown", ResolveField(nil, []string{"x"}, "unknown"))
}

func TestLookupNumber_Coercion(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  float64
		ok    bool
	}{
		{name: "units stripped", value: "$ 250.0 mil", want: 250.0, ok: true},
		{name: "thousands separator", value: "1,250,000", want: 1250000, ok: true},
		{name: "negative", value: "-3.5%", want: -3.5, ok: true},
		{name: "range takes leading decimal", value: "$10.00 - $12.00", want: 10, ok: true},
		{name: "not available", value: "N/A", ok: false},
		{name: "empty", value: "", ok: false},
		{name: "letters only", value: "pending", ok: false},
		{name: "float", value: 12.25, want: 12.25, ok: true},
		{name: "int", value: 42, want: 42, ok: true},
		{name: "json number", value: json.Number("3.14"), want: 3.14, ok: true},
		{name: "nil", value: nil, ok: false},
		{name: "bool", value: true, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LookupNumber(dto.RawCandidate{"v": tt.value}, []string{"v"})
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			} else {
				assert.Zero(t, got)
			}
		})
	}
}

func TestLookupString_Coercion(t *testing.T) {
	got, ok := LookupString(dto.RawCandidate{"Symbol": "  ACME  "}, []string{"Symbol"})
	assert.True(t, ok)
	assert.Equal(t, "ACME", got)

	got, ok = LookupString(dto.RawCandidate{"Shares": 1500000.0}, []string{"Shares"})
	assert.True(t, ok)
	assert.Equal(t, "1500000", got)

	_, ok = LookupString(dto.RawCandidate{"Symbol": "TBD"}, []string{"Symbol"})
	assert.False(t, ok)
}

func TestLookup_CaseInsensitiveFallback(t *testing.T) {
	record := dto.RawCandidate{"COMPANY NAME": "Acme Robotics"}

	got, ok := LookupString(record, Keys(FieldName))

	assert.True(t, ok)
	assert.Equal(t, "Acme Robotics", got)
}

func TestLookup_ExactKeyBeatsCaseInsensitive(t *testing.T) {
	record := dto.RawCandidate{"PRICE LOW": "5", "price_low": "8"}

	got := ResolveField(record, []string{"Price Low", "price_low"}, 0.0)

	assert.Equal(t, 8.0, got)
}
