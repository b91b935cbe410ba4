// Package tui provides a Bubble Tea terminal UI for playing the game.
package tui

// History keeps recent input lines for up/down recall at the prompt.
// Navigation is an offset back from the newest entry; offset 0 means the
// player is typing fresh input.
type History struct {
	lines []string
	cap   int
	back  int
}

// NewHistory creates a history holding at most capacity lines.
func NewHistory(capacity int) *History {
	return &History{cap: capacity}
}

// Push records a submitted line, dropping the oldest past capacity.
// Repeating the last line adds nothing.
func (h *History) Push(line string) {
	if n := len(h.lines); n > 0 && h.lines[n-1] == line {
		return
	}
	h.lines = append(h.lines, line)
	if len(h.lines) > h.cap {
		h.lines = h.lines[1:]
	}
}

// Prev steps to the next older line, sticking at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.lines) == 0 {
		return "", false
	}
	if h.back < len(h.lines) {
		h.back++
	}
	return h.lines[len(h.lines)-h.back], true
}

// Next steps toward the newest line, returning false once the player is
// back at fresh input.
func (h *History) Next() (string, bool) {
	if h.back <= 1 {
		h.back = 0
		return "", false
	}
	h.back--
	return h.lines[len(h.lines)-h.back], true
}

// ResetCursor abandons navigation.
func (h *History) ResetCursor() {
	h.back = 0
}
