package item

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type CreateRequest struct {
	OwnerID     string
	Name        string
	Description string
	Available   *bool
	RequestID   *string
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

// UserDirectory resolves users referenced by items and comments.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// RequestDirectory checks that an item request exists.
type RequestDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// BookingReader exposes the booking queries items depend on.
type BookingReader interface {
	AdjacentBookings(ctx context.Context, itemID string, now time.Time) (last, next *BookingBrief, err error)
	HasFinishedBooking(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Item, error)
	Get(ctx context.Context, actorID, id string) (*Detail, error)
	ListByOwner(ctx context.Context, ownerID string, from, size int) ([]*Detail, error)
	Search(ctx context.Context, text string, from, size int) ([]*Item, error)
	Update(ctx context.Context, actorID, id string, req UpdateRequest) (*Item, error)
	Delete(ctx context.Context, actorID, id string) error
	AddComment(ctx context.Context, authorID, itemID, text string) (*Comment, error)
}

type service struct {
	repo     Repository
	comments CommentRepository
	users    UserDirectory
	requests RequestDirectory
	bookings BookingReader
	clock    clock.Clock
	logger   *zap.Logger
}

func NewService(
	repo Repository,
	comments CommentRepository,
	users UserDirectory,
	requests RequestDirectory,
	bookings BookingReader,
	clk clock.Clock,
	logger *zap.Logger,
) Service {
	return &service{
		repo:     repo,
		comments: comments,
		users:    users,
		requests: requests,
		bookings: bookings,
		clock:    clk,
		logger:   logger,
	}
}

// requireUser maps a missing user to ErrOwnerNotFound.
func (s *service) requireUser(ctx context.Context, id string) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrEmptyDescription
	}
	if req.Available == nil {
		return nil, ErrAvailableRequired
	}

	if _, err := s.requireUser(ctx, req.OwnerID); err != nil {
		return nil, err
	}

	if req.RequestID != nil {
		ok, err := s.requests.Exists(ctx, *req.RequestID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrRequestNotFound
		}
	}

	it := &Item{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Available:   *req.Available,
		OwnerID:     req.OwnerID,
		RequestID:   req.RequestID,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	s.logger.Info("item created", zap.String("item_id", it.ID), zap.String("owner_id", it.OwnerID))
	return it, nil
}

func (s *service) Get(ctx context.Context, actorID, id string) (*Detail, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &Detail{Item: it}

	// Booking neighbours are visible to the owner only.
	if it.OwnerID == actorID {
		d.LastBooking, d.NextBooking, err = s.bookings.AdjacentBookings(ctx, it.ID, s.clock.Now())
		if err != nil {
			return nil, err
		}
	}

	d.Comments, err = s.comments.ListByItem(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID string, from, size int) ([]*Detail, error) {
	if from < 0 || size < 1 {
		return nil, ErrInvalidPageSettings
	}
	if _, err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, Filter{OwnerID: ownerID, Offset: from, Limit: size})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	details := make([]*Detail, 0, len(items))
	for _, it := range items {
		last, next, err := s.bookings.AdjacentBookings(ctx, it.ID, now)
		if err != nil {
			return nil, err
		}
		comments, err := s.comments.ListByItem(ctx, it.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, &Detail{Item: it, LastBooking: last, NextBooking: next, Comments: comments})
	}
	return details, nil
}

func (s *service) Search(ctx context.Context, text string, from, size int) ([]*Item, error) {
	if from < 0 || size < 1 {
		return nil, ErrInvalidPageSettings
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return []*Item{}, nil
	}
	return s.repo.List(ctx, Filter{Text: text, AvailableOnly: true, Offset: from, Limit: size})
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateRequest) (*Item, error) {
	if _, err := s.requireUser(ctx, actorID); err != nil {
		return nil, err
	}

	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != actorID {
		return nil, ErrNotOwner
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		it.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, ErrEmptyDescription
		}
		it.Description = strings.TrimSpace(*req.Description)
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if it.OwnerID != actorID {
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) AddComment(ctx context.Context, authorID, itemID, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	author, err := s.requireUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	finished, err := s.bookings.HasFinishedBooking(ctx, authorID, itemID, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("check finished booking: %w", err)
	}
	if !finished {
		return nil, ErrNoFinishedBooking
	}

	c := &Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("comment added", zap.String("item_id", itemID), zap.String("author_id", authorID))
	return c, nil
}
