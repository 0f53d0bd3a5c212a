package shared

// PageRequest describes one page of a listing: zero-based page index,
// positive page size, optional sort key.
type PageRequest struct {
	Page int
	Size int
	Sort string
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps the request into valid bounds so repositories never see
// a non-positive size or negative page.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

func (p PageRequest) Limit() int {
	return p.Size
}

// PageMeta is the pagination metadata returned alongside a page.
// Counts reflect only the rows the query matched, i.e. the active subset.
type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPageMeta computes ceil(total/size) pages for a normalized request.
func NewPageMeta(req PageRequest, total int64) PageMeta {
	totalPages := int((total + int64(req.Size) - 1) / int64(req.Size))
	return PageMeta{
		Page:       req.Page,
		Size:       req.Size,
		Total:      total,
		TotalPages: totalPages,
	}
}
