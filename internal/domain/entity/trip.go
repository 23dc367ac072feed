package entity

import (
	"strings"
	"time"
)

// Location identifies a route endpoint. Upstream systems hand these over
// either as bare strings or as structured objects with an identifier; both
// shapes are normalized into this one type at the boundary.
type Location struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// IsZero reports whether the location carries no information.
func (l Location) IsZero() bool {
	return l.ID == "" && l.Name == ""
}

// Key returns the canonical string identity: the identifier when present,
// the name otherwise.
func (l Location) Key() string {
	if l.ID != "" {
		return l.ID
	}
	return l.Name
}

// Matches reports whether two locations refer to the same place. Canonical
// keys match on equality; names additionally match on substring containment
// in either direction.
func (l Location) Matches(other Location) bool {
	if l.IsZero() || other.IsZero() {
		return false
	}
	if l.Key() == other.Key() {
		return true
	}
	if l.Name != "" && other.Name != "" {
		return l.Name == other.Name ||
			strings.Contains(l.Name, other.Name) ||
			strings.Contains(other.Name, l.Name)
	}
	return false
}

// RouteLeg is one directional leg of a trip.
type RouteLeg struct {
	Departure   Location `json:"departure"`
	Destination Location `json:"destination"`
}

// BudgetMap maps a line item id to its allocation for one route.
type BudgetMap map[string]AllocationValue

// TripRecord is a completed trip as delivered by the trip record provider,
// including the per-route budget maps the claim workflow draws from.
type TripRecord struct {
	ID           string    `json:"id"`
	TripNumber   string    `json:"trip_number"`
	Title        string    `json:"title"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	Currency     string    `json:"currency"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Status       string    `json:"status"`

	Outbound      *RouteLeg  `json:"outbound,omitempty"`
	Inbound       *RouteLeg  `json:"inbound,omitempty"`
	MultiCityLegs []RouteLeg `json:"multi_city_legs,omitempty"`

	OutboundBudget   BudgetMap   `json:"outbound_budget,omitempty"`
	InboundBudget    BudgetMap   `json:"inbound_budget,omitempty"`
	MultiCityBudgets []BudgetMap `json:"multi_city_budgets,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Legs returns every route leg of the trip in outbound, inbound,
// multi-city order, skipping legs that are not set.
func (t *TripRecord) Legs() []RouteLeg {
	legs := make([]RouteLeg, 0, 2+len(t.MultiCityLegs))
	if t.Outbound != nil {
		legs = append(legs, *t.Outbound)
	}
	if t.Inbound != nil {
		legs = append(legs, *t.Inbound)
	}
	legs = append(legs, t.MultiCityLegs...)
	return legs
}

// WithinDates reports whether d falls inside the trip window, inclusive on
// both ends.
func (t *TripRecord) WithinDates(d time.Time) bool {
	return !d.Before(t.StartDate) && !d.After(t.EndDate)
}
