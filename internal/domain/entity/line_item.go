package entity

import "time"

// LineItem is a categorized budget bucket defined by the travel spend
// policy (e.g. "Meals", "Ground Transportation").
type LineItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// IndexLineItems builds an id lookup from a catalog listing.
func IndexLineItems(items []*LineItem) map[string]*LineItem {
	index := make(map[string]*LineItem, len(items))
	for _, item := range items {
		index[item.ID] = item
	}
	return index
}
