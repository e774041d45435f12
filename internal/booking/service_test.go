package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/clock"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type memRepo struct {
	mu       sync.Mutex
	seq      int
	bookings map[string]*Booking
}

func newMemRepo() *memRepo {
	return &memRepo{bookings: map[string]*Booking{}}
}

func (r *memRepo) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	b.ID = fmt.Sprintf("booking-%d", r.seq)
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) List(_ context.Context, f Filter) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Booking
	for _, b := range r.bookings {
		if f.BookerID != "" && b.BookerID != f.BookerID {
			continue
		}
		if f.OwnerID != "" && b.ItemOwnerID != f.OwnerID {
			continue
		}
		if !f.State.Matches(b, f.Now) {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.After(out[j].Start) })
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *memRepo) UpdateStatus(_ context.Context, id string, from, to Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	if b.Status != from {
		return ErrAlreadyProcessed
	}
	b.Status = to
	return nil
}

func (r *memRepo) approved(itemID string) []*Booking {
	var out []*Booking
	for _, b := range r.bookings {
		if b.ItemID == itemID && b.Status == StatusApproved {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out
}

func (r *memRepo) LastApproved(_ context.Context, itemID string, now time.Time) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last *Booking
	for _, b := range r.approved(itemID) {
		if !b.Start.After(now) && (last == nil || b.Start.After(last.Start)) {
			last = b
		}
	}
	return last, nil
}

func (r *memRepo) NextApproved(_ context.Context, itemID string, now time.Time) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var next *Booking
	for _, b := range r.approved(itemID) {
		if b.Start.After(now) && (next == nil || b.Start.Before(next.Start)) {
			next = b
		}
	}
	return next, nil
}

func (r *memRepo) HasFinished(_ context.Context, bookerID, itemID string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.approved(itemID) {
		if b.BookerID == bookerID && b.End.Before(now) {
			return true, nil
		}
	}
	return false, nil
}

type stubUsers map[string]*user.User

func (s stubUsers) Exists(_ context.Context, id string) (bool, error) {
	_, ok := s[id]
	return ok, nil
}

func (s stubUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type stubItems map[string]*item.Item

func (s stubItems) GetByID(_ context.Context, id string) (*item.Item, error) {
	it, ok := s[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	return it, nil
}

var (
	testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	day     = 24 * time.Hour
)

type fixture struct {
	svc   Service
	repo  *memRepo
	clock *clock.Fixed
}

func newFixture() *fixture {
	users := stubUsers{
		"owner":    {ID: "owner", Name: "Olga"},
		"booker":   {ID: "booker", Name: "Boris"},
		"stranger": {ID: "stranger", Name: "Sam"},
	}
	items := stubItems{
		"drill":  {ID: "drill", Name: "Drill", Available: true, OwnerID: "owner"},
		"ladder": {ID: "ladder", Name: "Ladder", Available: false, OwnerID: "owner"},
	}
	f := &fixture{repo: newMemRepo(), clock: clock.NewFixed(testNow)}
	f.svc = NewService(f.repo, users, items, f.clock, zap.NewNop())
	return f
}

func at(d time.Duration) *time.Time {
	t := testNow.Add(d)
	return &t
}

func (f *fixture) book(t *testing.T, start, end time.Duration) *Booking {
	t.Helper()
	b, err := f.svc.Create(context.Background(), CreateRequest{
		BookerID: "booker",
		ItemID:   "drill",
		Start:    at(start),
		End:      at(end),
	})
	require.NoError(t, err)
	return b
}

func TestCreate(t *testing.T) {
	f := newFixture()
	b := f.book(t, day, 2*day)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, StatusWaiting, b.Status)
	assert.Equal(t, "Drill", b.ItemName)
	assert.Equal(t, "Boris", b.BookerName)
	assert.Equal(t, testNow.Add(day), b.Start)
}

func TestCreateNormalizesTimes(t *testing.T) {
	f := newFixture()
	loc := time.FixedZone("UTC+3", 3*60*60)
	start := time.Date(2024, 6, 1, 10, 0, 0, 999, loc)
	end := start.Add(time.Hour)

	b, err := f.svc.Create(context.Background(), CreateRequest{BookerID: "booker", ItemID: "drill", Start: &start, End: &end})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, b.Start.Location())
	assert.Equal(t, time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC), b.Start)
}

func TestCreateValidationOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateRequest
		want error
	}{
		{"missing start", CreateRequest{BookerID: "booker", ItemID: "drill", End: at(day)}, ErrTimeRequired},
		{"missing end wins over unknown booker", CreateRequest{BookerID: "ghost", ItemID: "drill", Start: at(day)}, ErrTimeRequired},
		{"equal bounds", CreateRequest{BookerID: "booker", ItemID: "drill", Start: at(day), End: at(day)}, ErrInvalidTimeRange},
		{"inverted bounds before unknown item", CreateRequest{BookerID: "booker", ItemID: "ghost", Start: at(2 * day), End: at(day)}, ErrInvalidTimeRange},
		{"unknown booker", CreateRequest{BookerID: "ghost", ItemID: "ghost", Start: at(day), End: at(2 * day)}, ErrUserNotFound},
		{"unknown item", CreateRequest{BookerID: "booker", ItemID: "ghost", Start: at(day), End: at(2 * day)}, ErrItemNotFound},
		{"owner books own available item", CreateRequest{BookerID: "owner", ItemID: "drill", Start: at(day), End: at(2 * day)}, ErrOwnItem},
		{"owner books own unavailable item", CreateRequest{BookerID: "owner", ItemID: "ladder", Start: at(day), End: at(2 * day)}, ErrOwnItem},
		{"unavailable item", CreateRequest{BookerID: "booker", ItemID: "ladder", Start: at(day), End: at(2 * day)}, ErrItemUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, f.repo.bookings)
}

func TestApprove(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.book(t, day, 2*day)

	got, err := f.svc.Approve(ctx, "owner", b.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)

	_, err = f.svc.Approve(ctx, "owner", b.ID, true)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	_, err = f.svc.Approve(ctx, "owner", b.ID, false)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	_, err = f.svc.Approve(ctx, "stranger", b.ID, false)
	assert.ErrorIs(t, err, ErrNotItemOwner)

	stored, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, stored.Status)
}

func TestRejectAndBookerCannotDecide(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.book(t, day, 2*day)

	_, err := f.svc.Approve(ctx, "booker", b.ID, true)
	assert.ErrorIs(t, err, ErrNotItemOwner)

	got, err := f.svc.Approve(ctx, "owner", b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got.Status)

	_, err = f.svc.Approve(ctx, "owner", "booking-404", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentApproveSucceedsOnce(t *testing.T) {
	f := newFixture()
	b := f.book(t, day, 2*day)

	const workers = 16
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		conflicts atomic.Int32
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(approved bool) {
			defer wg.Done()
			_, err := f.svc.Approve(context.Background(), "owner", b.ID, approved)
			switch {
			case err == nil:
				succeeded.Add(1)
			case assert.ErrorIs(t, err, ErrAlreadyProcessed):
				conflicts.Add(1)
			}
		}(i%2 == 0)
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(workers-1), conflicts.Load())
}

func TestGetByIDAccess(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.book(t, day, 2*day)

	for _, actor := range []string{"booker", "owner"} {
		got, err := f.svc.GetByID(ctx, actor, b.ID)
		require.NoError(t, err, actor)
		assert.Equal(t, b.ID, got.ID)
	}

	got, err := f.svc.GetByID(ctx, "stranger", b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, got)
}

func ids(bookings []*Booking) []string {
	out := make([]string, len(bookings))
	for i, b := range bookings {
		out[i] = b.ID
	}
	return out
}

func TestListStates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Created in the past so it can be approved and then observed as ended.
	f.clock.Set(testNow.Add(-10 * day))
	ended := f.book(t, -2*day, -day)
	_, err := f.svc.Approve(ctx, "owner", ended.ID, true)
	require.NoError(t, err)
	f.clock.Set(testNow)

	upcoming := f.book(t, day, 2*day)

	rejected := f.book(t, -time.Hour, time.Hour)
	_, err = f.svc.Approve(ctx, "owner", rejected.ID, false)
	require.NoError(t, err)

	tests := []struct {
		state string
		want  []string
	}{
		{"ALL", []string{upcoming.ID, rejected.ID, ended.ID}},
		{"", []string{upcoming.ID, rejected.ID, ended.ID}},
		{"WAITING", []string{upcoming.ID}},
		{"FUTURE", []string{upcoming.ID}},
		{"PAST", []string{ended.ID}},
		{"CURRENT", []string{rejected.ID}},
		{"REJECTED", []string{rejected.ID}},
	}
	for _, tc := range tests {
		t.Run("booker "+tc.state, func(t *testing.T) {
			got, err := f.svc.ListByBooker(ctx, "booker", tc.state, 0, 20)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(got))
		})
		t.Run("owner "+tc.state, func(t *testing.T) {
			got, err := f.svc.ListByOwner(ctx, "owner", tc.state, 0, 20)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(got))
		})
	}

	got, err := f.svc.ListByOwner(ctx, "booker", "ALL", 0, 20)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.book(t, day, 2*day)
	f.book(t, 3*day, 4*day)

	_, err := f.svc.ListByBooker(ctx, "booker", "UNSUPPORTED_STATUS", 0, 20)
	assert.ErrorIs(t, err, ErrUnknownState)

	_, err = f.svc.ListByBooker(ctx, "ghost", "ALL", 0, 20)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.svc.ListByOwner(ctx, "owner", "ALL", -1, 20)
	assert.ErrorIs(t, err, ErrInvalidPage)

	_, err = f.svc.ListByOwner(ctx, "owner", "ALL", 0, 0)
	assert.ErrorIs(t, err, ErrInvalidPage)

	page, err := f.svc.ListByBooker(ctx, "booker", "ALL", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, testNow.Add(day), page[0].Start)

	page, err = f.svc.ListByBooker(ctx, "booker", "ALL", 50, 10)
	require.NoError(t, err)
	assert.NotNil(t, page)
	assert.Empty(t, page)
}

func TestAdjacentBookings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.clock.Set(testNow.Add(-10 * day))
	older := f.book(t, -3*day, -2*day)
	latest := f.book(t, -time.Hour, time.Hour)
	soon := f.book(t, day, 2*day)
	later := f.book(t, 3*day, 4*day)
	pending := f.book(t, 12*time.Hour, 20*time.Hour)
	for _, b := range []*Booking{older, latest, soon, later} {
		_, err := f.svc.Approve(ctx, "owner", b.ID, true)
		require.NoError(t, err)
	}
	f.clock.Set(testNow)

	last, next, err := f.svc.AdjacentBookings(ctx, "drill", testNow)
	require.NoError(t, err)
	require.NotNil(t, last)
	require.NotNil(t, next)
	assert.Equal(t, latest.ID, last.ID)
	assert.Equal(t, soon.ID, next.ID, "waiting %s must be ignored", pending.ID)
	assert.Equal(t, "booker", next.BookerID)

	last, next, err = f.svc.AdjacentBookings(ctx, "ladder", testNow)
	require.NoError(t, err)
	assert.Nil(t, last)
	assert.Nil(t, next)

	finished, err := f.svc.HasFinishedBooking(ctx, "booker", "drill", testNow)
	require.NoError(t, err)
	assert.True(t, finished)

	finished, err = f.svc.HasFinishedBooking(ctx, "stranger", "drill", testNow)
	require.NoError(t, err)
	assert.False(t, finished)
}
