package domain

const (
	DefaultPage  = 1
	DefaultLimit = 10
	// MaxLimit is the cap applied by caller-facing boundaries; stores do not enforce it.
	MaxLimit = 50
)

// PageRequest selects a 1-based page of results.
type PageRequest struct {
	Page  int
	Limit int
}

// WithDefaults fills zero or negative values with the defaults.
func (p PageRequest) WithDefaults() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	return p
}

// Offset is the number of records skipped before the page starts.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// AttemptPage is a page of attempt summaries.
type AttemptPage struct {
	Attempts   []AttemptSummary `json:"attempts"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

// NewAttemptPage assembles a page; totalPages is ceil(total/limit).
func NewAttemptPage(attempts []AttemptSummary, total int, req PageRequest) AttemptPage {
	if attempts == nil {
		attempts = []AttemptSummary{}
	}
	totalPages := 0
	if req.Limit > 0 {
		totalPages = (total + req.Limit - 1) / req.Limit
	}
	return AttemptPage{
		Attempts:   attempts,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}
}
