package visibility

import "time"

// DefaultHistoryCapacity is the number of records kept per element.
const DefaultHistoryCapacity = 120

// Record is one entry of an element's visibility history.
type Record struct {
	At         time.Time
	Percentage int
}

// History keeps the most recent records of every element in a fixed-size
// ring. Old records are overwritten once an element's ring is full, and
// Forget drops an element's log when the element goes away.
//
// History is not safe for concurrent use; passes run on a single
// goroutine.
type History struct {
	capacity int
	logs     map[ID]*ring
}

// NewHistory creates a store keeping up to capacity records per element.
// A non-positive capacity selects DefaultHistoryCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{capacity: capacity, logs: make(map[ID]*ring)}
}

// Capacity returns the per-element capacity.
func (h *History) Capacity() int { return h.capacity }

// Append adds rec to the log of id, evicting the oldest record if needed.
func (h *History) Append(id ID, rec Record) {
	r, ok := h.logs[id]
	if !ok {
		r = &ring{buf: make([]Record, h.capacity)}
		h.logs[id] = r
	}
	r.push(rec)
}

// Records returns a copy of the log of id, oldest first.
func (h *History) Records(id ID) []Record {
	r, ok := h.logs[id]
	if !ok {
		return nil
	}
	return r.slice()
}

// Latest returns the newest record of id.
func (h *History) Latest(id ID) (Record, bool) {
	r, ok := h.logs[id]
	if !ok || r.n == 0 {
		return Record{}, false
	}
	return r.buf[(r.start+r.n-1)%len(r.buf)], true
}

// Len returns the number of records currently held for id.
func (h *History) Len(id ID) int {
	if r, ok := h.logs[id]; ok {
		return r.n
	}
	return 0
}

// Forget drops the log of id.
func (h *History) Forget(id ID) {
	delete(h.logs, id)
}

// Elements returns how many elements currently have a log.
func (h *History) Elements() int { return len(h.logs) }

type ring struct {
	buf      []Record
	start, n int
}

func (r *ring) push(rec Record) {
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = rec
		r.n++
		return
	}
	r.buf[r.start] = rec
	r.start = (r.start + 1) % len(r.buf)
}

func (r *ring) slice() []Record {
	out := make([]Record, r.n)
	for i := range out {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}
