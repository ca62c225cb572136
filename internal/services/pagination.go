package services

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page is a normalized skip/limit pair.
type Page struct {
	Skip  int
	Limit int
}

// NewPage clamps limit to [1, MaxLimit] and skip to >= 0.
func NewPage(skip, limit int) Page {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Skip: skip, Limit: limit}
}
