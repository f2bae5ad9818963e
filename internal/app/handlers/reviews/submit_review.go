package reviews

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gearshare/internal/app/commands"
	"gearshare/internal/app/dto"
	"gearshare/internal/app/outbox"
	"gearshare/internal/app/uow"
	domainbooking "gearshare/internal/domain/booking"
	domainreview "gearshare/internal/domain/review"
)

const submitReviewKey = "reviews.submit"

// SubmitReviewCommand creates a review for a completed booking. The reviewer
// is an explicit parameter; eligibility is re-derived from the booking row.
type SubmitReviewCommand struct {
	BookingID  string `validate:"required"`
	ReviewerID string `validate:"required"`
	Rating     int
	Comment    string
	Now        time.Time
}

func (c SubmitReviewCommand) Key() string { return submitReviewKey }

type SubmitReviewHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (dto.Review, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return dto.Review{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return dto.Review{}, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return dto.Review{}, err
	}

	existing, err := unit.Reviews().ByBookingAndReviewer(ctx, b.ID, cmd.ReviewerID)
	if err != nil && !errors.Is(err, domainreview.ErrNotFound) {
		return dto.Review{}, err
	}
	if !domainreview.CanReview(cmd.ReviewerID, b, existing != nil) {
		if existing != nil {
			return dto.Review{}, domainreview.ErrDuplicate
		}
		return dto.Review{}, domainreview.ErrNotEligible
	}

	r, err := domainreview.Submit(domainreview.SubmitParams{
		ID:        domainreview.ReviewID(uuid.NewString()),
		Booking:   b,
		Reviewer:  cmd.ReviewerID,
		Rating:    cmd.Rating,
		Comment:   cmd.Comment,
		CreatedAt: now,
	})
	if err != nil {
		return dto.Review{}, err
	}
	// Save maps the uniqueness-constraint violation to ErrDuplicate, closing
	// the race between the read above and a concurrent submit.
	if err := unit.Reviews().Save(ctx, r); err != nil {
		return dto.Review{}, err
	}

	pending := r.PendingEvents()
	r.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
		return dto.Review{}, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return dto.Review{}, err
		}
		committed = true
	}

	if h.Logger != nil {
		h.Logger.Info("review submitted", "booking_id", b.ID, "listing_id", b.ListingID, "reviewer_id", cmd.ReviewerID, "rating", cmd.Rating)
	}

	return dto.MapReview(r), nil
}

func (h *SubmitReviewHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[SubmitReviewCommand, dto.Review] = (*SubmitReviewHandler)(nil)
