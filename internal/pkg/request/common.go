package request

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// Validate performs custom validation for ByIDRequest.
func (r *ByIDRequest) Validate() error {
	return nil
}

// ListParams holds page-numbered pagination query parameters.
type ListParams struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=20" binding:"min=1,max=100"`
}

// OffsetParams holds offset-based pagination query parameters: from is a row offset.
type OffsetParams struct {
	From int `form:"from,default=0" binding:"min=0"`
	Size int `form:"size,default=20" binding:"min=1,max=100"`
}
