package tui

// History is an in-memory session history of dates, standing in for the
// browser's. Push truncates any forward entries.
type History struct {
	entries []string
	index   int
	reloads []string
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{index: -1}
}

// Location implements orrery.History.
func (h *History) Location() string {
	if h.index < 0 {
		return ""
	}
	return h.entries[h.index]
}

// Push implements orrery.History.
func (h *History) Push(date string) {
	h.entries = append(h.entries[:h.index+1], date)
	h.index = len(h.entries) - 1
}

// Replace implements orrery.History.
func (h *History) Replace(date string) {
	if h.index < 0 {
		h.Push(date)
		return
	}
	h.entries[h.index] = date
}

// Reload records date as the current entry. There is no server-rendered
// page to fall back to, so the caller decides what to show.
func (h *History) Reload(date string) {
	h.Replace(date)
	h.reloads = append(h.reloads, date)
}

// Back moves one entry back, reporting false at the start.
func (h *History) Back() bool {
	if h.index <= 0 {
		return false
	}
	h.index--
	return true
}

// Forward moves one entry forward, reporting false at the end.
func (h *History) Forward() bool {
	if h.index+1 >= len(h.entries) {
		return false
	}
	h.index++
	return true
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// Reloads returns the dates Reload was called with.
func (h *History) Reloads() []string { return append([]string(nil), h.reloads...) }
