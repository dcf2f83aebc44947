package discovery

// Engine constants. Page size and result caps are fixed, not user-configurable.
const (
	// PageSize is the window size of every paginated mode.
	PageSize = 4
	// TextLimit caps text relevance search; text results do not paginate.
	TextLimit = 5
	// NearLimit caps proximity search; proximity results do not paginate.
	NearLimit = 10
	// NearRadiusMeters is the maximum proximity search radius.
	NearRadiusMeters = 10_000
	// TopLimit caps the popularity ranking.
	TopLimit = 10
)

// Window is the contiguous slice of an ordered result set for one page.
type Window struct {
	Page int
	Skip int
}

// NewWindow computes the window for a 1-based page index; non-positive pages
// fall back to page 1.
func NewWindow(page int) Window {
	if page < 1 {
		page = 1
	}
	return Window{Page: page, Skip: (page - 1) * PageSize}
}

// TotalPages returns ceil(totalCount / PageSize); zero when the set is empty.
func TotalPages(totalCount int) int {
	if totalCount <= 0 {
		return 0
	}
	return (totalCount + PageSize - 1) / PageSize
}

// PastEnd reports whether the window lies entirely past a set of totalCount
// items. A request past the end is not an error: the caller is redirected to
// the last valid page.
func (w Window) PastEnd(totalCount int) bool {
	return w.Skip > 0 && w.Skip >= totalCount && totalCount > 0
}
