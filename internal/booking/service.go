package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/datetime"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type CreateRequest struct {
	BookerID string
	ItemID   string
	Start    *time.Time
	End      *time.Time
}

// UserDirectory resolves bookers and owners.
type UserDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// ItemDirectory resolves booked items.
type ItemDirectory interface {
	GetByID(ctx context.Context, id string) (*item.Item, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	Approve(ctx context.Context, actorID, bookingID string, approved bool) (*Booking, error)
	GetByID(ctx context.Context, actorID, bookingID string) (*Booking, error)
	ListByBooker(ctx context.Context, bookerID, state string, from, size int) ([]*Booking, error)
	ListByOwner(ctx context.Context, ownerID, state string, from, size int) ([]*Booking, error)

	AdjacentBookings(ctx context.Context, itemID string, now time.Time) (last, next *item.BookingBrief, err error)
	HasFinishedBooking(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error)
}

type service struct {
	repo   Repository
	users  UserDirectory
	items  ItemDirectory
	clock  clock.Clock
	logger *zap.Logger
}

func NewService(repo Repository, users UserDirectory, items ItemDirectory, clk clock.Clock, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		users:  users,
		items:  items,
		clock:  clk,
		logger: logger,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	// 1. Validate time range
	if req.Start == nil || req.End == nil {
		return nil, ErrTimeRequired
	}
	start := datetime.Normalize(*req.Start)
	end := datetime.Normalize(*req.End)
	if !start.Before(end) {
		return nil, ErrInvalidTimeRange
	}

	// 2. Resolve booker and item
	booker, err := s.users.GetByID(ctx, req.BookerID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	it, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	// 3. Owners are never offered their own item
	if it.OwnerID == booker.ID {
		return nil, ErrOwnItem
	}
	if !it.Available {
		return nil, ErrItemUnavailable
	}

	// 4. Create booking
	b := &Booking{
		ItemID:      it.ID,
		ItemName:    it.Name,
		ItemOwnerID: it.OwnerID,
		BookerID:    booker.ID,
		BookerName:  booker.Name,
		Start:       start,
		End:         end,
		Status:      StatusWaiting,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("item_id", b.ItemID),
		zap.String("booker_id", b.BookerID),
	)
	return b, nil
}

func (s *service) Approve(ctx context.Context, actorID, bookingID string, approved bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.ItemOwnerID != actorID {
		return nil, ErrNotItemOwner
	}

	next, err := b.Status.Decide(approved)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, b.ID, b.Status, next); err != nil {
		return nil, err
	}
	b.Status = next

	s.logger.Info("booking decided",
		zap.String("booking_id", b.ID),
		zap.String("owner_id", actorID),
		zap.String("status", string(next)),
	)
	return b, nil
}

func (s *service) GetByID(ctx context.Context, actorID, bookingID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	// Strangers get the same answer as for a missing booking.
	if b.BookerID != actorID && b.ItemOwnerID != actorID {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) ListByBooker(ctx context.Context, bookerID, state string, from, size int) ([]*Booking, error) {
	filter, err := s.listFilter(ctx, bookerID, state, from, size)
	if err != nil {
		return nil, err
	}
	filter.BookerID = bookerID
	return s.list(ctx, filter)
}

func (s *service) ListByOwner(ctx context.Context, ownerID, state string, from, size int) ([]*Booking, error) {
	filter, err := s.listFilter(ctx, ownerID, state, from, size)
	if err != nil {
		return nil, err
	}
	filter.OwnerID = ownerID
	return s.list(ctx, filter)
}

func (s *service) listFilter(ctx context.Context, actorID, state string, from, size int) (Filter, error) {
	ok, err := s.users.Exists(ctx, actorID)
	if err != nil {
		return Filter{}, err
	}
	if !ok {
		return Filter{}, ErrUserNotFound
	}

	st, err := ParseState(state)
	if err != nil {
		return Filter{}, err
	}
	if from < 0 || size < 1 {
		return Filter{}, ErrInvalidPage
	}

	return Filter{State: st, Now: s.clock.Now(), Offset: from, Limit: size}, nil
}

func (s *service) list(ctx context.Context, filter Filter) ([]*Booking, error) {
	bookings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []*Booking{}
	}
	return bookings, nil
}

func (s *service) AdjacentBookings(ctx context.Context, itemID string, now time.Time) (*item.BookingBrief, *item.BookingBrief, error) {
	last, err := s.repo.LastApproved(ctx, itemID, now)
	if err != nil {
		return nil, nil, err
	}
	next, err := s.repo.NextApproved(ctx, itemID, now)
	if err != nil {
		return nil, nil, err
	}
	return brief(last), brief(next), nil
}

func (s *service) HasFinishedBooking(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error) {
	return s.repo.HasFinished(ctx, bookerID, itemID, now)
}

func brief(b *Booking) *item.BookingBrief {
	if b == nil {
		return nil
	}
	return &item.BookingBrief{ID: b.ID, BookerID: b.BookerID, Start: b.Start, End: b.End}
}
