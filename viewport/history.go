package viewport

import "NewtonsFractal/plane"

// history is the stack of bounds active before each zoom in.
type history struct {
	entries []plane.Bounds
}

func (h *history) push(b plane.Bounds) {
	h.entries = append(h.entries, b)
}

func (h *history) pop() {
	if len(h.entries) > 0 {
		h.entries = h.entries[:len(h.entries)-1]
	}
}

func (h *history) clear() {
	h.entries = h.entries[:0]
}

func (h *history) len() int {
	return len(h.entries)
}

func (h *history) list() []plane.Bounds {
	out := make([]plane.Bounds, len(h.entries))
	copy(out, h.entries)
	return out
}
