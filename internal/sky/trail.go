package sky

// TrailPoint is one recorded shooting-star position.
type TrailPoint struct {
	X, Y    float64
	Opacity float64
}

// Trail is a fixed-capacity deque of positions, newest first. Pushing onto a
// full trail drops the oldest point.
type Trail struct {
	buf  []TrailPoint
	head int // index of the newest point in buf
	n    int
}

// NewTrail allocates a trail holding at most capacity points.
func NewTrail(capacity int) Trail {
	return Trail{buf: make([]TrailPoint, max(capacity, 1))}
}

// Cap is the maximum number of points kept.
func (t *Trail) Cap() int { return len(t.buf) }

// Len is the number of points currently held.
func (t *Trail) Len() int { return t.n }

// PushFront records p as the new head.
func (t *Trail) PushFront(p TrailPoint) {
	t.head = (t.head - 1 + len(t.buf)) % len(t.buf)
	t.buf[t.head] = p
	if t.n < len(t.buf) {
		t.n++
	}
}

// At returns the i-th point, 0 being the head.
func (t *Trail) At(i int) TrailPoint {
	return t.buf[t.index(i)]
}

// SetOpacity rewrites the opacity of the i-th point.
func (t *Trail) SetOpacity(i int, opacity float64) {
	t.buf[t.index(i)].Opacity = opacity
}

// Points copies the trail head-first.
func (t *Trail) Points() []TrailPoint {
	out := make([]TrailPoint, t.n)
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}

func (t *Trail) index(i int) int {
	if i < 0 || i >= t.n {
		panic("sky: trail index out of range")
	}
	return (t.head + i) % len(t.buf)
}
