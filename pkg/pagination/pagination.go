package pagination

import (
	"net/http"
	"strconv"
)

// Window holds a limit/offset pagination window extracted from a request.
type Window struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Default returns the default window with the given limit.
func Default(limit int) Window {
	return Window{Limit: limit, Offset: 0}
}

// FromRequest extracts limit/offset query parameters from an HTTP request.
// Out-of-range or malformed values fall back to the defaults.
func FromRequest(r *http.Request, defaultLimit, maxLimit int) Window {
	w := Default(defaultLimit)

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			w.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			w.Offset = n
		}
	}

	return w.Clamp(maxLimit)
}

// Clamp caps the window limit at max. Exceeding the cap is not an error;
// the limit silently clamps.
func (w Window) Clamp(max int) Window {
	if max > 0 && w.Limit > max {
		w.Limit = max
	}
	if w.Limit <= 0 {
		w.Limit = 1
	}
	if w.Offset < 0 {
		w.Offset = 0
	}
	return w
}

// Slice returns items[offset : offset+limit], handling windows that run past
// the end of the slice.
func Slice[T any](items []T, w Window) []T {
	if w.Offset >= len(items) {
		return []T{}
	}
	end := w.Offset + w.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[w.Offset:end]
}
