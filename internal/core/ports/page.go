package ports

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a limit/offset window. Zero values fall back to the defaults.
type Page struct {
	Limit  int
	Offset int
}

// Normalize applies defaults and clamps the window to sane bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
