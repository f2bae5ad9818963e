package listings

import (
	"context"
	"errors"
	"strings"

	"gearshare/internal/app/dto"
	"gearshare/internal/app/uow"
	domainlisting "gearshare/internal/domain/listing"
)

const getListingKey = "listings.get"

var ErrUnitOfWorkRequired = errors.New("listings: unit of work factory required")

// GetListingQuery resolves a catalog entry for display and quoting.
type GetListingQuery struct {
	ListingID string
}

func (q GetListingQuery) Key() string { return getListingKey }

type GetListingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetListingHandler) Handle(ctx context.Context, q GetListingQuery) (dto.Listing, error) {
	listingID := strings.TrimSpace(q.ListingID)
	if listingID == "" {
		return dto.Listing{}, errors.New("listing id is required")
	}
	unit, cleanup, err := h.beginRead(ctx)
	if err != nil {
		return dto.Listing{}, err
	}
	defer cleanup()

	l, err := unit.Listings().ByID(ctx, domainlisting.ListingID(listingID))
	if err != nil {
		return dto.Listing{}, err
	}
	return dto.MapListing(l), nil
}

func (h *GetListingHandler) beginRead(ctx context.Context) (uow.UnitOfWork, func(), error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, func() {}, nil
	}
	if h.UoWFactory == nil {
		return nil, nil, ErrUnitOfWorkRequired
	}
	unit, err := h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, nil, err
	}
	return unit, func() { _ = unit.Rollback(ctx) }, nil
}
