package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any page query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs parsed from query strings.
type Params struct {
	Page  int
	Limit int
}

// Meta is the pagination block echoed on every list response.
type Meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Normalize enforces the default page/limit and the limit ceiling.
func Normalize(p Params) Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset converts the (page, limit) pair into a row offset.
func (p Params) Offset() int {
	n := Normalize(p)
	return (n.Page - 1) * n.Limit
}

// MetaFor builds the response pagination block for a total row count.
func MetaFor(p Params, total int64) Meta {
	n := Normalize(p)
	return Meta{Total: total, Page: n.Page, Limit: n.Limit}
}
