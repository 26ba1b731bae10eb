package services

import (
	"context"
	"errors"
	"slices"

	"github.com/dmitrijs2005/gophconcierge/internal/client/codes"
	"github.com/dmitrijs2005/gophconcierge/internal/client/collection"
	"github.com/dmitrijs2005/gophconcierge/internal/client/models"
	"github.com/dmitrijs2005/gophconcierge/internal/client/storage"
)

// errUnchanged aborts an Update that has nothing to write.
var errUnchanged = errors.New("unchanged")

// FavoritesStore keeps at most one favorite per store. Removing a favorite
// deletes the record.
type FavoritesStore struct {
	base
	items *collection.Store[models.FavoriteStore]
}

// NewFavoritesStore returns the favorite stores of userID.
func NewFavoritesStore(deps Deps, userID string) *FavoritesStore {
	b := newBase("favorites", userID, deps)
	return &FavoritesStore{
		base: b,
		items: collection.New[models.FavoriteStore](
			b.deps.Adapter,
			storage.Key(b.deps.KeyPrefix, storage.DomainFavorites, userID),
			collection.WithValidator(validateAll[models.FavoriteStore]),
		),
	}
}

func (s *FavoritesStore) Load(ctx context.Context) { s.items.Load(ctx) }
func (s *FavoritesStore) IsLoading() bool { return s.items.IsLoading() }
func (s *FavoritesStore) Err() string { return s.items.Err() }
func (s *FavoritesStore) ClearError() { s.items.ClearError() }

// AddFavorite adds store with both notifications on. It returns
// ErrAlreadyFavorite when the store is already a favorite.
func (s *FavoritesStore) AddFavorite(ctx context.Context, store models.Store) (*models.FavoriteStore, error) {
	s.wait()

	if store.ID == "" {
		return nil, s.finish(ctx, "add", invalid("store id is empty"))
	}

	fav := models.FavoriteStore{
		ID:             codes.NewID(),
		StoreID:        store.ID,
		StoreName:      store.Name,
		StoreSlug:      store.Slug,
		Area:           store.Area,
		Category:       store.Category,
		PriceRange:     store.PriceRange,
		Rating:         store.Rating,
		AddedAt:        s.now(),
		NotifyOfOffers: true,
		NotifyOfEvents: true,
	}

	err := s.items.Update(ctx, func(prev []models.FavoriteStore) ([]models.FavoriteStore, error) {
		if slices.ContainsFunc(prev, func(f models.FavoriteStore) bool { return f.StoreID == store.ID }) {
			return nil, ErrAlreadyFavorite
		}
		return append(prev, fav), nil
	})
	if err != nil {
		return nil, s.finish(ctx, "add", err)
	}
	return &fav, s.finish(ctx, "add", nil)
}

// RemoveFavorite deletes the favorite for storeID. Removing a store that is
// not a favorite succeeds without writing.
func (s *FavoritesStore) RemoveFavorite(ctx context.Context, storeID string) error {
	s.wait()

	err := s.items.Update(ctx, func(prev []models.FavoriteStore) ([]models.FavoriteStore, error) {
		next := slices.DeleteFunc(prev, func(f models.FavoriteStore) bool { return f.StoreID == storeID })
		if len(next) == len(prev) {
			return nil, errUnchanged
		}
		return next, nil
	})
	if errors.Is(err, errUnchanged) {
		err = nil
	}
	return s.finish(ctx, "remove", err)
}

// UpdateSettings changes the notes and notification flags of a favorite.
func (s *FavoritesStore) UpdateSettings(ctx context.Context, favoriteID string, settings models.FavoriteSettings) error {
	err := s.items.Update(ctx, func(prev []models.FavoriteStore) ([]models.FavoriteStore, error) {
		i := slices.IndexFunc(prev, func(f models.FavoriteStore) bool { return f.ID == favoriteID })
		if i < 0 {
			return nil, ErrNotFound
		}
		if settings.Notes != nil {
			prev[i].Notes = *settings.Notes
		}
		prev[i].NotifyOfOffers = settings.NotifyOfOffers
		prev[i].NotifyOfEvents = settings.NotifyOfEvents
		return prev, nil
	})
	return s.finish(ctx, "update", err)
}

func (s *FavoritesStore) IsFavorite(storeID string) bool {
	_, ok := s.Get(storeID)
	return ok
}

// Get returns the favorite for storeID.
func (s *FavoritesStore) Get(storeID string) (*models.FavoriteStore, bool) {
	f, ok := s.items.Find(func(f models.FavoriteStore) bool { return f.StoreID == storeID })
	if !ok {
		return nil, false
	}
	return &f, true
}

func (s *FavoritesStore) ByCategory(category string) []models.FavoriteStore {
	return s.items.Filter(func(f models.FavoriteStore) bool { return f.Category == category })
}

func (s *FavoritesStore) ByArea(area string) []models.FavoriteStore {
	return s.items.Filter(func(f models.FavoriteStore) bool { return f.Area == area })
}

// Categories returns the distinct categories, sorted.
func (s *FavoritesStore) Categories() []string {
	return distinct(s.items.Items(), func(f models.FavoriteStore) string { return f.Category })
}

// Areas returns the distinct areas, sorted.
func (s *FavoritesStore) Areas() []string {
	return distinct(s.items.Items(), func(f models.FavoriteStore) string { return f.Area })
}

func (s *FavoritesStore) All() []models.FavoriteStore {
	return s.items.Items()
}

func (s *FavoritesStore) reset() { s.items.Reset() }

func distinct[T any](items []T, key func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if k := key(it); k != "" {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
