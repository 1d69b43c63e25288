package scene

import "sync"

// Offscreen is the cursor coordinate used before any pointer event arrives.
// It sits far enough outside the surface that no star is influenced.
const Offscreen = -1000

// Cursor is the last known pointer position in surface pixels.
// Writers may call Set from any goroutine; the newest value wins.
type Cursor struct {
	mu   sync.Mutex
	x, y float64
}

// NewCursor returns a cursor parked off screen.
func NewCursor() *Cursor {
	return &Cursor{x: Offscreen, y: Offscreen}
}

// Set records a pointer position.
func (c *Cursor) Set(x, y float64) {
	c.mu.Lock()
	c.x, c.y = x, y
	c.mu.Unlock()
}

// Clear parks the cursor off screen again.
func (c *Cursor) Clear() {
	c.Set(Offscreen, Offscreen)
}

// Position returns the last recorded position.
func (c *Cursor) Position() (x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.x, c.y
}
