package models

import "time"

// Event is a catalog entry a user can book a seat for.
type Event struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Date     string  `json:"date"` // 2006-01-02
	Time     string  `json:"time"` // 15:04, optional
	Location string  `json:"location"`
	Price    float64 `json:"price"`
}

// ConciergeService is a bookable service such as personal shopping.
type ConciergeService struct {
	Type     string  `json:"type"`
	Title    string  `json:"title"`
	Duration string  `json:"duration"`
	Location string  `json:"location"`
	Price    float64 `json:"price"`
}

// Store is a directory listing that can be favorited.
type Store struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Slug       string  `json:"slug"`
	Area       string  `json:"area"`
	Category   string  `json:"category"`
	PriceRange string  `json:"priceRange"`
	Rating     float64 `json:"rating"`
}

// Offer is a promotional offer. A zero ValidUntil means the catalog sets
// no expiry of its own.
type Offer struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Value      string    `json:"value"`
	StoreName  string    `json:"storeName"`
	StoreSlug  string    `json:"storeSlug"`
	ValidUntil time.Time `json:"validUntil"`
	Terms      []string  `json:"terms,omitempty"`
}
