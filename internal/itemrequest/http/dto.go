package http

import (
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/datetime"
)

type CreateRequestBody struct {
	Description string `json:"description" binding:"required"`
}

type AnsweringItemResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"ownerId"`
}

type ItemRequestResponse struct {
	ID          string                  `json:"id"`
	Description string                  `json:"description"`
	RequestorID string                  `json:"requestorId"`
	Created     datetime.DateTime       `json:"created"`
	Items       []AnsweringItemResponse `json:"items"`
}

func NewItemRequestResponse(r *itemrequest.ItemRequest) ItemRequestResponse {
	items := make([]AnsweringItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, AnsweringItemResponse{ID: it.ID, Name: it.Name, OwnerID: it.OwnerID})
	}
	return ItemRequestResponse{
		ID:          r.ID,
		Description: r.Description,
		RequestorID: r.RequestorID,
		Created:     datetime.New(r.Created),
		Items:       items,
	}
}

func newList(reqs []*itemrequest.ItemRequest) []ItemRequestResponse {
	out := make([]ItemRequestResponse, len(reqs))
	for i, r := range reqs {
		out[i] = NewItemRequestResponse(r)
	}
	return out
}
