// Package matching scores candidate receipts against budget line items and
// produces the initial receipt assignment for a claim editing session.
package matching

import (
	"strings"

	"github.com/garyjia/trip-expense/internal/domain/entity"
)

// Score weights. A non-transportation match tops out at 100; a
// transportation match with a confirmed traveler reaches 110, so a
// perfectly matched transportation receipt clears the threshold even
// before the bonus.
const (
	categoryWeight = 40
	dateWeight     = 30
	locationWeight = 30
	travelerBonus  = 10
)

// Score rates one candidate receipt against one line item in the context
// of a trip. It is a pure function: no side effects, deterministic for
// identical inputs.
func Score(receipt *entity.Receipt, item *entity.LineItem, trip *entity.TripRecord) int {
	score := 0
	receiptCategory := entity.NormalizeCategory(receipt.Category)

	if receiptCategory == item.Category {
		score += categoryWeight
	}

	if trip.WithinDates(receipt.Date) {
		score += dateWeight
	}

	if item.Category == entity.CategoryTransportation {
		if locationMatches(receipt, trip) {
			score += locationWeight
		}
		// The bonus needs a transportation receipt too: a category
		// mismatch disqualifies it.
		if receiptCategory == entity.CategoryTransportation && travelerMatches(receipt, trip) {
			score += travelerBonus
		}
	} else {
		// Location is not applicable to non-transportation spend; the
		// credit is granted unconditionally and the bonus is omitted.
		score += locationWeight
	}

	return score
}

// locationMatches reports whether the receipt's departure and destination
// both match the endpoints of the outbound leg, the inbound leg or any
// multi-city leg. Receipts without endpoint information keep the credit:
// sparse capture must not disqualify an otherwise good match.
func locationMatches(receipt *entity.Receipt, trip *entity.TripRecord) bool {
	if receipt.Traveler == nil {
		return true
	}
	departure := receipt.Traveler.Departure
	destination := receipt.Traveler.Destination
	if departure.IsZero() || destination.IsZero() {
		return true
	}

	for _, leg := range trip.Legs() {
		if departure.Matches(leg.Departure) && destination.Matches(leg.Destination) {
			return true
		}
	}
	return false
}

// travelerMatches reports whether the receipt's recorded traveler name and
// the trip employee's full name contain one another.
func travelerMatches(receipt *entity.Receipt, trip *entity.TripRecord) bool {
	if receipt.Traveler == nil {
		return false
	}
	travelerName := strings.TrimSpace(receipt.Traveler.Name)
	employeeName := strings.TrimSpace(trip.EmployeeName)
	if travelerName == "" || employeeName == "" {
		return false
	}
	return travelerName == employeeName ||
		strings.Contains(travelerName, employeeName) ||
		strings.Contains(employeeName, travelerName)
}
