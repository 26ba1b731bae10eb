package models

import "time"

type FavoriteStore struct {
	ID             string    `json:"id"`
	StoreID        string    `json:"storeId"`
	StoreName      string    `json:"storeName"`
	StoreSlug      string    `json:"storeSlug"`
	Area           string    `json:"area"`
	Category       string    `json:"category"`
	PriceRange     string    `json:"priceRange"`
	Rating         float64   `json:"rating"`
	AddedAt        time.Time `json:"addedAt"`
	Notes          string    `json:"notes,omitempty"`
	NotifyOfOffers bool      `json:"notifyOfOffers"`
	NotifyOfEvents bool      `json:"notifyOfEvents"`
}

func (f FavoriteStore) Validate() error {
	if f.ID == "" || f.StoreID == "" {
		return ErrMissingID
	}
	return nil
}

// FavoriteSettings updates a favorite in place. A nil Notes keeps the
// current notes; the flags are always applied.
type FavoriteSettings struct {
	Notes          *string
	NotifyOfOffers bool
	NotifyOfEvents bool
}
