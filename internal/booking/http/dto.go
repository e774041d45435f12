package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/datetime"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

// CreateBookingBody is the payload for requesting a booking.
// Missing start or end is reported by the service so the message stays consistent.
type CreateBookingBody struct {
	ItemID string             `json:"itemId" binding:"required,uuid"`
	Start  *datetime.DateTime `json:"start"`
	End    *datetime.DateTime `json:"end"`
}

// ApproveQuery carries the owner's decision.
type ApproveQuery struct {
	Approved *bool `form:"approved" binding:"required"`
}

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.OffsetParams
	State string `form:"state,default=ALL"`
}

type BookingResponse struct {
	ID     string            `json:"id"`
	Start  datetime.DateTime `json:"start"`
	End    datetime.DateTime `json:"end"`
	Status booking.Status    `json:"status"`
	Item   itemHttp.ItemTag  `json:"item"`
	Booker userHttp.UserTag  `json:"booker"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:     b.ID,
		Start:  datetime.New(b.Start),
		End:    datetime.New(b.End),
		Status: b.Status,
		Item: itemHttp.ItemTag{
			ID:   b.ItemID,
			Name: b.ItemName,
		},
		Booker: userHttp.UserTag{
			ID:   b.BookerID,
			Name: b.BookerName,
		},
	}
}

func newBookingList(bookings []*booking.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = NewBookingResponse(b)
	}
	return out
}

func timePtr(d *datetime.DateTime) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
