package repository

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

// Page is one window of an ordered result set
type Page struct {
	Limit  int
	Offset int
}

// NewPage normalizes client-supplied paging parameters
func NewPage(limit, offset int) Page {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Limit: limit, Offset: offset}
}

// HasMore reports whether rows remain past this window
func (p Page) HasMore(total int64) bool {
	return total > int64(p.Offset+p.Limit)
}
