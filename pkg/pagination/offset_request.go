package pagination

// OffsetRequest represents an offset-based pagination request
type OffsetRequest struct {
	Page int `json:"page" query:"page"`
	Size int `json:"size" query:"size"`
}

// Validate normalizes the request; out-of-range values are clamped rather than rejected.
func (r *OffsetRequest) Validate() error {
	r.Normalize()
	return nil
}

// Normalize applies defaults and clamps Page and Size into their allowed ranges.
func (r *OffsetRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Page > PageMax {
		r.Page = PageMax
	}
	if r.Size <= 0 {
		r.Size = PageDefaultSize
	}
	if r.Size > PageMaxSize {
		r.Size = PageMaxSize
	}
}

// Offset is the number of items preceding the requested page.
func (r OffsetRequest) Offset() int {
	if r.Page <= 1 {
		return 0
	}
	return (r.Page - 1) * r.Size
}

// Window returns the [start, end) bounds of the page within total items.
func (r OffsetRequest) Window(total int) (int, int) {
	start := r.Offset()
	// A negative offset can only come from overflow, i.e. a page past the end.
	if start < 0 || start > total {
		start = total
	}
	end := start + r.Size
	if end > total {
		end = total
	}
	return start, end
}
