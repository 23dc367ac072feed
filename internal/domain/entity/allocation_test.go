package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocationValueUnmarshalNumber(t *testing.T) {
	var v AllocationValue
	require.NoError(t, json.Unmarshal([]byte(`150`), &v))

	amount, ok := v.PositiveAmount()
	assert.True(t, ok)
	assert.Equal(t, 150.0, amount)
}

func TestAllocationValueUnmarshalStructured(t *testing.T) {
	var v AllocationValue
	require.NoError(t, json.Unmarshal([]byte(`{"subtotal":"120.5","amount":"80","item_name":"Hotel"}`), &v))

	amount, ok := v.PositiveAmount()
	assert.True(t, ok)
	assert.Equal(t, 120.5, amount, "subtotal takes priority over amount")
}

func TestAllocationValueStructuredPriority(t *testing.T) {
	tests := []struct {
		name string
		in   StructuredAllocation
		want float64
		ok   bool
	}{
		{"subtotal first", StructuredAllocation{Subtotal: "100", Amount: "50", Total: "25"}, 100, true},
		{"amount when subtotal absent", StructuredAllocation{Amount: "50", Total: "25"}, 50, true},
		{"total as last resort", StructuredAllocation{Total: "25"}, 25, true},
		{"skips unparseable subtotal", StructuredAllocation{Subtotal: "n/a", Amount: "50"}, 50, true},
		{"skips non-positive values", StructuredAllocation{Subtotal: "0", Amount: "-3"}, 0, false},
		{"all empty", StructuredAllocation{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, ok := StructuredAllocationValue(tt.in).PositiveAmount()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, amount)
		})
	}
}

func TestAllocationValueUnmarshalMalformed(t *testing.T) {
	// Malformed entries decode to an empty value, never an error.
	var v AllocationValue
	require.NoError(t, json.Unmarshal([]byte(`"not a number"`), &v))

	_, ok := v.PositiveAmount()
	assert.False(t, ok)
}

func TestAllocationValueRoundTrip(t *testing.T) {
	data, err := json.Marshal(NumberAllocation(42))
	require.NoError(t, err)
	assert.Equal(t, `42`, string(data))

	data, err = json.Marshal(StructuredAllocationValue(StructuredAllocation{Subtotal: "99.9"}))
	require.NoError(t, err)

	var back AllocationValue
	require.NoError(t, json.Unmarshal(data, &back))
	amount, ok := back.PositiveAmount()
	assert.True(t, ok)
	assert.Equal(t, 99.9, amount)
}

func TestNumericPositive(t *testing.T) {
	tests := []struct {
		in   Numeric
		want float64
		ok   bool
	}{
		{"150", 150, true},
		{" 12.5 ", 12.5, true},
		{"0", 0, false},
		{"-8", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := tt.in.Positive()
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
