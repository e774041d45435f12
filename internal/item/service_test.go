package item

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type memItems struct {
	mu    sync.Mutex
	seq   int
	items map[string]*Item
}

func newMemItems() *memItems {
	return &memItems{items: map[string]*Item{}}
}

func (r *memItems) Create(_ context.Context, it *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	it.ID = fmt.Sprintf("item-%02d", r.seq)
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *memItems) GetByID(_ context.Context, id string) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *memItems) List(_ context.Context, f Filter) ([]*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Item
	for _, it := range r.items {
		if f.OwnerID != "" && it.OwnerID != f.OwnerID {
			continue
		}
		if f.AvailableOnly && !it.Available {
			continue
		}
		if f.Text != "" {
			t := strings.ToLower(f.Text)
			if !strings.Contains(strings.ToLower(it.Name), t) && !strings.Contains(strings.ToLower(it.Description), t) {
				continue
			}
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if f.Offset >= len(out) {
		return []*Item{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *memItems) ListByRequestIDs(_ context.Context, ids []string) ([]*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Item
	for _, it := range r.items {
		for _, id := range ids {
			if it.RequestID != nil && *it.RequestID == id {
				cp := *it
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (r *memItems) Update(_ context.Context, it *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[it.ID]; !ok {
		return ErrNotFound
	}
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *memItems) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memComments struct {
	mu       sync.Mutex
	comments []*Comment
}

func (r *memComments) Create(_ context.Context, c *Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = fmt.Sprintf("comment-%d", len(r.comments)+1)
	cp := *c
	r.comments = append(r.comments, &cp)
	return nil
}

func (r *memComments) ListByItem(_ context.Context, itemID string) ([]*Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*Comment{}
	for _, c := range r.comments {
		if c.ItemID == itemID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

type stubUsers map[string]*user.User

func (s stubUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type stubRequests map[string]bool

func (s stubRequests) Exists(_ context.Context, id string) (bool, error) {
	return s[id], nil
}

type stubBookings struct {
	last, next *BookingBrief
	finished   map[string]bool // bookerID+"/"+itemID
	seenNow    time.Time
}

func (s *stubBookings) AdjacentBookings(_ context.Context, _ string, now time.Time) (*BookingBrief, *BookingBrief, error) {
	s.seenNow = now
	return s.last, s.next, nil
}

func (s *stubBookings) HasFinishedBooking(_ context.Context, bookerID, itemID string, now time.Time) (bool, error) {
	s.seenNow = now
	return s.finished[bookerID+"/"+itemID], nil
}

type fixture struct {
	svc      Service
	items    *memItems
	bookings *stubBookings
	clock    *clock.Fixed
}

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		items:    newMemItems(),
		bookings: &stubBookings{finished: map[string]bool{}},
		clock:    clock.NewFixed(testNow),
	}
	users := stubUsers{
		"owner":  {ID: "owner", Name: "Owner"},
		"renter": {ID: "renter", Name: "Renter"},
	}
	f.svc = NewService(f.items, &memComments{}, users, stubRequests{"req-1": true}, f.bookings, f.clock, zap.NewNop())
	return f
}

func boolPtr(b bool) *bool     { return &b }
func strPtr(s string) *string { return &s }

func (f *fixture) create(t *testing.T, name string, available bool) *Item {
	t.Helper()
	it, err := f.svc.Create(context.Background(), CreateRequest{
		OwnerID:     "owner",
		Name:        name,
		Description: name + " description",
		Available:   boolPtr(available),
	})
	require.NoError(t, err)
	return it
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateRequest
		want error
	}{
		{"empty name", CreateRequest{OwnerID: "owner", Description: "d", Available: boolPtr(true)}, ErrEmptyName},
		{"blank description", CreateRequest{OwnerID: "owner", Name: "n", Description: "  ", Available: boolPtr(true)}, ErrEmptyDescription},
		{"missing available", CreateRequest{OwnerID: "owner", Name: "n", Description: "d"}, ErrAvailableRequired},
		{"unknown owner", CreateRequest{OwnerID: "ghost", Name: "n", Description: "d", Available: boolPtr(true)}, ErrOwnerNotFound},
		{"unknown request", CreateRequest{OwnerID: "owner", Name: "n", Description: "d", Available: boolPtr(true), RequestID: strPtr("req-x")}, ErrRequestNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateWithRequest(t *testing.T) {
	f := newFixture()
	it, err := f.svc.Create(context.Background(), CreateRequest{
		OwnerID:     "owner",
		Name:        " Drill ",
		Description: "Cordless",
		Available:   boolPtr(false),
		RequestID:   strPtr("req-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Drill", it.Name)
	assert.False(t, it.Available)
	require.NotNil(t, it.RequestID)
	assert.Equal(t, "req-1", *it.RequestID)
}

func TestGetShowsBookingsToOwnerOnly(t *testing.T) {
	f := newFixture()
	it := f.create(t, "Drill", true)
	f.bookings.last = &BookingBrief{ID: "b1", BookerID: "renter"}
	f.bookings.next = &BookingBrief{ID: "b2", BookerID: "renter"}

	d, err := f.svc.Get(context.Background(), "owner", it.ID)
	require.NoError(t, err)
	require.NotNil(t, d.LastBooking)
	require.NotNil(t, d.NextBooking)
	assert.Equal(t, "b1", d.LastBooking.ID)
	assert.Equal(t, "b2", d.NextBooking.ID)
	assert.Equal(t, testNow, f.bookings.seenNow)

	d, err = f.svc.Get(context.Background(), "renter", it.ID)
	require.NoError(t, err)
	assert.Nil(t, d.LastBooking)
	assert.Nil(t, d.NextBooking)
	assert.NotNil(t, d.Comments)
}

func TestGetUnknownItem(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Get(context.Background(), "owner", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	it := f.create(t, "Drill", true)

	t.Run("partial update keeps other fields", func(t *testing.T) {
		got, err := f.svc.Update(ctx, "owner", it.ID, UpdateRequest{Available: boolPtr(false)})
		require.NoError(t, err)
		assert.False(t, got.Available)
		assert.Equal(t, "Drill", got.Name)
		assert.Equal(t, "Drill description", got.Description)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		_, err := f.svc.Update(ctx, "renter", it.ID, UpdateRequest{Name: strPtr("Hammer")})
		assert.ErrorIs(t, err, ErrNotOwner)

		stored, _ := f.items.GetByID(ctx, it.ID)
		assert.Equal(t, "Drill", stored.Name)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		_, err := f.svc.Update(ctx, "owner", it.ID, UpdateRequest{Name: strPtr(" ")})
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("unknown actor", func(t *testing.T) {
		_, err := f.svc.Update(ctx, "ghost", it.ID, UpdateRequest{})
		assert.ErrorIs(t, err, ErrOwnerNotFound)
	})
}

func TestDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	it := f.create(t, "Drill", true)

	assert.ErrorIs(t, f.svc.Delete(ctx, "renter", it.ID), ErrNotOwner)
	require.NoError(t, f.svc.Delete(ctx, "owner", it.ID))
	_, err := f.svc.Get(ctx, "owner", it.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.create(t, "Power Drill", true)
	f.create(t, "Hand drill", false)
	f.create(t, "Hammer", true)

	found, err := f.svc.Search(ctx, "DRILL", 0, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Power Drill", found[0].Name)

	found, err = f.svc.Search(ctx, "   ", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = f.svc.Search(ctx, "drill", 5, 10)
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = f.svc.Search(ctx, "drill", -1, 10)
	assert.ErrorIs(t, err, ErrInvalidPageSettings)
}

func TestListByOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.create(t, "A", true)
	f.create(t, "B", true)
	f.create(t, "C", true)
	f.bookings.next = &BookingBrief{ID: "b-next"}

	details, err := f.svc.ListByOwner(ctx, "owner", 1, 1)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "B", details[0].Item.Name)
	require.NotNil(t, details[0].NextBooking)

	_, err = f.svc.ListByOwner(ctx, "ghost", 0, 10)
	assert.ErrorIs(t, err, ErrOwnerNotFound)

	_, err = f.svc.ListByOwner(ctx, "owner", 0, 0)
	assert.ErrorIs(t, err, ErrInvalidPageSettings)
}

func TestAddComment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	it := f.create(t, "Drill", true)

	_, err := f.svc.AddComment(ctx, "renter", it.ID, "great")
	assert.ErrorIs(t, err, ErrNoFinishedBooking)

	_, err = f.svc.AddComment(ctx, "renter", it.ID, " ")
	assert.ErrorIs(t, err, ErrEmptyComment)

	f.bookings.finished["renter/"+it.ID] = true
	c, err := f.svc.AddComment(ctx, "renter", it.ID, " great ")
	require.NoError(t, err)
	assert.Equal(t, "great", c.Text)
	assert.Equal(t, "Renter", c.AuthorName)

	d, err := f.svc.Get(ctx, "renter", it.ID)
	require.NoError(t, err)
	require.Len(t, d.Comments, 1)
	assert.Equal(t, c.ID, d.Comments[0].ID)

	_, err = f.svc.AddComment(ctx, "renter", "missing", "hi")
	assert.ErrorIs(t, err, ErrNotFound)
}
