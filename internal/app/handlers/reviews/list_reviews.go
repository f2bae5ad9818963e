package reviews

import (
	"context"
	"errors"
	"strings"

	"gearshare/internal/app/dto"
	"gearshare/internal/app/queries"
	"gearshare/internal/app/uow"
	domainlisting "gearshare/internal/domain/listing"
)

const listListingReviewsKey = "reviews.list_by_listing"

const defaultReviewPageSize = 20

type ListListingReviewsQuery struct {
	ListingID string
	Limit     int
	Offset    int
}

func (q ListListingReviewsQuery) Key() string { return listListingReviewsKey }

type ListListingReviewsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListListingReviewsHandler) Handle(ctx context.Context, q ListListingReviewsQuery) (dto.ReviewCollection, error) {
	listingID := strings.TrimSpace(q.ListingID)
	if listingID == "" {
		return dto.ReviewCollection{}, errors.New("listing id is required")
	}
	unit, ok := uow.FromContext(ctx)
	cleanup := func() {}
	if !ok {
		if h.UoWFactory == nil {
			return dto.ReviewCollection{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.ReviewCollection{}, err
		}
		cleanup = func() { _ = unit.Rollback(ctx) }
	}
	defer cleanup()

	limit := q.Limit
	if limit <= 0 {
		limit = defaultReviewPageSize
	}
	reviews, err := unit.Reviews().ListByListing(ctx, domainlisting.ListingID(listingID), limit, q.Offset)
	if err != nil {
		return dto.ReviewCollection{}, err
	}

	items := make([]dto.Review, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, dto.MapReview(r))
	}
	return dto.ReviewCollection{Items: items}, nil
}

var _ queries.Handler[ListListingReviewsQuery, dto.ReviewCollection] = (*ListListingReviewsHandler)(nil)
