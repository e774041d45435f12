package http

import (
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/datetime"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

// ItemTag is a brief representation of an item.
type ItemTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ItemResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Available   bool    `json:"available"`
	OwnerID     string  `json:"ownerId"`
	RequestID   *string `json:"requestId"`
}

func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		OwnerID:     it.OwnerID,
		RequestID:   it.RequestID,
	}
}

type BookingBriefResponse struct {
	ID       string            `json:"id"`
	BookerID string            `json:"bookerId"`
	Start    datetime.DateTime `json:"start"`
	End      datetime.DateTime `json:"end"`
}

func newBookingBrief(b *item.BookingBrief) *BookingBriefResponse {
	if b == nil {
		return nil
	}
	return &BookingBriefResponse{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    datetime.New(b.Start),
		End:      datetime.New(b.End),
	}
}

type CommentResponse struct {
	ID         string            `json:"id"`
	Text       string            `json:"text"`
	AuthorName string            `json:"authorName"`
	Created    datetime.DateTime `json:"created"`
}

func NewCommentResponse(c *item.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		Created:    datetime.New(c.Created),
	}
}

type ItemDetailResponse struct {
	ItemResponse
	LastBooking *BookingBriefResponse `json:"lastBooking"`
	NextBooking *BookingBriefResponse `json:"nextBooking"`
	Comments    []CommentResponse     `json:"comments"`
}

func NewItemDetailResponse(d *item.Detail) ItemDetailResponse {
	comments := make([]CommentResponse, 0, len(d.Comments))
	for _, c := range d.Comments {
		comments = append(comments, NewCommentResponse(c))
	}
	return ItemDetailResponse{
		ItemResponse: NewItemResponse(d.Item),
		LastBooking:  newBookingBrief(d.LastBooking),
		NextBooking:  newBookingBrief(d.NextBooking),
		Comments:     comments,
	}
}

type CreateItemBody struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Available   *bool   `json:"available" binding:"required"`
	RequestID   *string `json:"requestId" binding:"omitempty,uuid"`
}

type UpdateItemBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type SearchItemsRequest struct {
	request.OffsetParams
	Text string `form:"text"`
}

type CreateCommentBody struct {
	Text string `json:"text" binding:"required"`
}
