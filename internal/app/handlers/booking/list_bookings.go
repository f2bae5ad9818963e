package booking

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"gearshare/internal/app/dto"
	"gearshare/internal/app/uow"
	domainbooking "gearshare/internal/domain/booking"
)

const (
	listRenterBookingsKey = "booking.list_renter"
	listOwnerBookingsKey  = "booking.list_owner"
)

// ListRenterBookingsQuery returns the bookings a user requested as renter.
type ListRenterBookingsQuery struct {
	RenterID string
	Status   string
}

func (q ListRenterBookingsQuery) Key() string { return listRenterBookingsKey }

// ListOwnerBookingsQuery returns incoming bookings across a user's listings.
type ListOwnerBookingsQuery struct {
	OwnerID string
	Status  string
}

func (q ListOwnerBookingsQuery) Key() string { return listOwnerBookingsKey }

type ListBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListBookingsHandler) HandleRenter(ctx context.Context, q ListRenterBookingsQuery) (dto.BookingCollection, error) {
	renterID := strings.TrimSpace(q.RenterID)
	if renterID == "" {
		return dto.BookingCollection{}, errors.New("renter id is required")
	}
	unit, cleanup, err := h.beginRead(ctx)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	defer cleanup()

	bookings, err := unit.Bookings().ListByRenter(ctx, renterID)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	return collect(bookings, q.Status), nil
}

func (h *ListBookingsHandler) HandleOwner(ctx context.Context, q ListOwnerBookingsQuery) (dto.BookingCollection, error) {
	ownerID := strings.TrimSpace(q.OwnerID)
	if ownerID == "" {
		return dto.BookingCollection{}, errors.New("owner id is required")
	}
	unit, cleanup, err := h.beginRead(ctx)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	defer cleanup()

	bookings, err := unit.Bookings().ListByOwner(ctx, ownerID)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	return collect(bookings, q.Status), nil
}

func (h *ListBookingsHandler) beginRead(ctx context.Context) (uow.UnitOfWork, func(), error) {
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

func collect(bookings []*domainbooking.Booking, statusFilter string) dto.BookingCollection {
	filter := strings.ToUpper(strings.TrimSpace(statusFilter))
	items := make([]dto.Booking, 0, len(bookings))
	for _, b := range bookings {
		if filter != "" && string(b.Status) != filter {
			continue
		}
		items = append(items, dto.MapBooking(b))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return dto.BookingCollection{Items: items}
}
