package itemrequest

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/nekogravitycat/shareit-backend/internal/item"
)

// UserDirectory checks that a user exists.
type UserDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ItemLister finds the items that answer a set of requests.
type ItemLister interface {
	ListByRequestIDs(ctx context.Context, requestIDs []string) ([]*item.Item, error)
}

type Service interface {
	Create(ctx context.Context, requestorID, description string) (*ItemRequest, error)
	ListOwn(ctx context.Context, requestorID string) ([]*ItemRequest, error)
	ListOthers(ctx context.Context, userID string, from, size int) ([]*ItemRequest, error)
	Get(ctx context.Context, userID, id string) (*ItemRequest, error)
}

type service struct {
	repo   Repository
	users  UserDirectory
	items  ItemLister
	logger *zap.Logger
}

func NewService(repo Repository, users UserDirectory, items ItemLister, logger *zap.Logger) Service {
	return &service{repo: repo, users: users, items: items, logger: logger}
}

func (s *service) requireUser(ctx context.Context, id string) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

func (s *service) Create(ctx context.Context, requestorID, description string) (*ItemRequest, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}
	if err := s.requireUser(ctx, requestorID); err != nil {
		return nil, err
	}

	req := &ItemRequest{Description: description, RequestorID: requestorID}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	req.Items = []*AnsweringItem{}

	s.logger.Info("item request created", zap.String("request_id", req.ID), zap.String("requestor_id", requestorID))
	return req, nil
}

func (s *service) ListOwn(ctx context.Context, requestorID string) ([]*ItemRequest, error) {
	if err := s.requireUser(ctx, requestorID); err != nil {
		return nil, err
	}
	reqs, err := s.repo.List(ctx, Filter{RequestorID: requestorID})
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, reqs)
}

func (s *service) ListOthers(ctx context.Context, userID string, from, size int) ([]*ItemRequest, error) {
	if from < 0 || size < 1 {
		return nil, ErrInvalidPageSettings
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	reqs, err := s.repo.List(ctx, Filter{ExcludeRequestorID: userID, Offset: from, Limit: size})
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, reqs)
}

func (s *service) Get(ctx context.Context, userID, id string) (*ItemRequest, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.attachItems(ctx, []*ItemRequest{req})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// attachItems loads answering items for all requests in one query.
func (s *service) attachItems(ctx context.Context, reqs []*ItemRequest) ([]*ItemRequest, error) {
	if len(reqs) == 0 {
		return []*ItemRequest{}, nil
	}

	ids := make([]string, len(reqs))
	byID := make(map[string]*ItemRequest, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
		r.Items = []*AnsweringItem{}
		byID[r.ID] = r
	}

	items, err := s.items.ListByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.RequestID == nil {
			continue
		}
		if r, ok := byID[*it.RequestID]; ok {
			r.Items = append(r.Items, &AnsweringItem{ID: it.ID, Name: it.Name, OwnerID: it.OwnerID})
		}
	}
	return reqs, nil
}
