package pagination

// Metadata contains pagination metadata included in API responses.
type Metadata struct {
	Page       int   `json:"page"`       // Current page number (1-based)
	Limit      int   `json:"limit"`      // Items per page
	TotalCount int64 `json:"totalCount"` // Total number of items across all pages
	TotalPages int   `json:"totalPages"` // Calculated total number of pages
	HasNext    bool  `json:"hasNext"`    // Whether a next page exists
	HasPrev    bool  `json:"hasPrev"`    // Whether a previous page exists
}

// NewMetadata builds the metadata for one page of results.
func NewMetadata(params Params, total int64) Metadata {
	totalPages := CalculateTotalPages(total, params.Limit)
	return Metadata{
		Page:       params.Page,
		Limit:      params.Limit,
		TotalCount: total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
