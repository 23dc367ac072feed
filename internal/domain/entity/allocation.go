package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Numeric is a tolerant numeric field: it accepts JSON numbers and numeric
// strings, and treats anything else as absent rather than failing the whole
// document.
type Numeric string

// UnmarshalJSON accepts a JSON number or string; other shapes decode to the
// empty value.
func (n *Numeric) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = Numeric(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*n = Numeric(num.String())
		return nil
	}
	*n = ""
	return nil
}

// MarshalJSON emits a JSON number when the value parses, the raw string
// otherwise.
func (n Numeric) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(n), 64); err == nil {
		return []byte(n), nil
	}
	return json.Marshal(string(n))
}

// Positive returns the parsed value when it is a number greater than zero.
func (n Numeric) Positive() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}

// StructuredAllocation is the object shape of a budget entry as produced by
// the trip planning flow.
type StructuredAllocation struct {
	Subtotal Numeric `json:"subtotal,omitempty"`
	Amount   Numeric `json:"amount,omitempty"`
	Total    Numeric `json:"total,omitempty"`
	ItemName string  `json:"item_name,omitempty"`
}

// AllocationValue is the dual-shape budget entry: either a plain number or
// a structured value exposing subtotal/amount/total. The shape is an
// explicit tagged union so that amount extraction happens in exactly one
// place.
type AllocationValue struct {
	number     *float64
	structured *StructuredAllocation
}

// NumberAllocation wraps a plain numeric allocation.
func NumberAllocation(v float64) AllocationValue {
	return AllocationValue{number: &v}
}

// StructuredAllocationValue wraps a structured allocation.
func StructuredAllocationValue(s StructuredAllocation) AllocationValue {
	return AllocationValue{structured: &s}
}

// UnmarshalJSON decodes either shape of the union.
func (v *AllocationValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*v = AllocationValue{}
		return nil
	}
	if data[0] == '{' {
		var s StructuredAllocation
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode structured allocation: %w", err)
		}
		*v = AllocationValue{structured: &s}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		// Unparseable entries are dropped during extraction, not surfaced
		// as decode errors.
		*v = AllocationValue{}
		return nil
	}
	*v = AllocationValue{number: &n}
	return nil
}

// MarshalJSON encodes the shape the value was created with.
func (v AllocationValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.number != nil:
		return json.Marshal(*v.number)
	case v.structured != nil:
		return json.Marshal(v.structured)
	default:
		return []byte("null"), nil
	}
}

// PositiveAmount extracts the allocation amount. Plain numbers are used
// directly; structured values take the first parseable positive number
// among subtotal, amount and total, in that priority order. The second
// return value is false when no positive amount exists.
func (v AllocationValue) PositiveAmount() (float64, bool) {
	if v.number != nil {
		if *v.number > 0 {
			return *v.number, true
		}
		return 0, false
	}
	if v.structured != nil {
		for _, n := range []Numeric{v.structured.Subtotal, v.structured.Amount, v.structured.Total} {
			if f, ok := n.Positive(); ok {
				return f, true
			}
		}
	}
	return 0, false
}
