// Package state provides thread-safe frame statistics for the sky loop.
package state

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// EventType represents the type of scene event.
type EventType string

const (
	EventSpawn  EventType = "SPAWN"
	EventRetire EventType = "RETIRE"
	EventResize EventType = "RESIZE"
)

// Event represents a change in the scene population or surface.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Frame     uint64    `json:"frame"`
	Count     int       `json:"count,omitempty"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
}

// FrameStats describes one rendered frame.
type FrameStats struct {
	At       time.Time     `json:"at"`
	Duration time.Duration `json:"duration"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Stars    int           `json:"stars"`
	Nebulae  int           `json:"nebulae"`
	Meteors  int           `json:"meteors"`
	Spawned  int           `json:"spawned"`
	Retired  int           `json:"retired"`
}

// Manager collects frame statistics with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	frames  uint64
	last    FrameStats
	spawned uint64
	retired uint64

	// Recent frames for rate estimation
	history       []FrameStats
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen int
	MaxEvents     int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen: 120, // ~2s at 60fps
		MaxEvents:     50,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxHistory := cfg.MaxHistoryLen
	if maxHistory < 2 {
		maxHistory = 2
	}
	return &Manager{
		maxHistoryLen: maxHistory,
		maxEvents:     maxEvents,
		events:        make([]Event, 0, maxEvents),
	}
}

// Record adds a rendered frame. Spawns and retirements are also logged as events.
func (m *Manager) Record(fs FrameStats) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.frames++
	m.last = fs
	m.spawned += uint64(fs.Spawned)
	m.retired += uint64(fs.Retired)

	m.history = append(m.history, fs)
	if len(m.history) > m.maxHistoryLen {
		m.history = m.history[1:]
	}

	if fs.Spawned > 0 {
		m.addEvent(Event{Type: EventSpawn, Timestamp: fs.At, Frame: m.frames, Count: fs.Spawned})
	}
	if fs.Retired > 0 {
		m.addEvent(Event{Type: EventRetire, Timestamp: fs.At, Frame: m.frames, Count: fs.Retired})
	}
}

// RecordResize logs a surface resize.
func (m *Manager) RecordResize(at time.Time, width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addEvent(Event{Type: EventResize, Timestamp: at, Frame: m.frames, Width: width, Height: height})
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of the statistics.
type Snapshot struct {
	Frames       uint64        `json:"frames"`
	Last         FrameStats    `json:"last"`
	Spawned      uint64        `json:"spawned_total"`
	Retired      uint64        `json:"retired_total"`
	FPS          float64       `json:"fps"`
	AvgFrameTime time.Duration `json:"avg_frame_time"`
	Events       []Event       `json:"events,omitempty"`
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Frames:       m.frames,
		Last:         m.last,
		Spawned:      m.spawned,
		Retired:      m.retired,
		FPS:          m.fps(),
		AvgFrameTime: m.avgFrameTime(),
		Events:       m.getEventsOrdered(),
	}
}

// fps derives the frame rate from the timestamps in the history window.
func (m *Manager) fps() float64 {
	n := len(m.history)
	if n < 2 {
		return 0
	}
	span := m.history[n-1].At.Sub(m.history[0].At).Seconds()
	if span <= 0 {
		return 0
	}
	return float64(n-1) / span
}

func (m *Manager) avgFrameTime() time.Duration {
	if len(m.history) == 0 {
		return 0
	}
	var total time.Duration
	for _, fs := range m.history {
		total += fs.Duration
	}
	return total / time.Duration(len(m.history))
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		result[i] = m.events[(m.eventWriteAt+i)%m.maxEvents]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// HasData returns true once at least one frame has been recorded.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frames > 0
}

// WriteJSON encodes the current snapshot to w.
func (m *Manager) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m.Snapshot()); err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	return nil
}
