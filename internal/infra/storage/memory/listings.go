package memory

import (
	"context"
	"sync"

	domainlisting "gearshare/internal/domain/listing"
)

// ListingCatalog is an in-memory read model of listings. The engine treats
// listings as externally owned; Put exists for wiring and tests.
type ListingCatalog struct {
	mu    sync.RWMutex
	items map[domainlisting.ListingID]domainlisting.Listing
}

func NewListingCatalog() *ListingCatalog {
	return &ListingCatalog{items: make(map[domainlisting.ListingID]domainlisting.Listing)}
}

// ByID returns an immutable snapshot or listing.ErrNotFound.
func (c *ListingCatalog) ByID(ctx context.Context, id domainlisting.ListingID) (*domainlisting.Listing, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.items[id]
	if !ok {
		return nil, domainlisting.ErrNotFound
	}
	snapshot := l
	return &snapshot, nil
}

func (c *ListingCatalog) Put(l domainlisting.Listing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[l.ID] = l
}

var _ domainlisting.Reader = (*ListingCatalog)(nil)
