package state

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestNewManager(t *testing.T) {
	m := NewManager(DefaultConfig())

	if m == nil {
		t.Fatal("NewManager returned nil")
	}
	if m.HasData() {
		t.Error("HasData should be false initially")
	}
	if snap := m.Snapshot(); snap.FPS != 0 || snap.Events != nil {
		t.Errorf("empty snapshot = %+v", snap)
	}
}

func TestManager_Record(t *testing.T) {
	m := NewManager(DefaultConfig())

	m.Record(FrameStats{At: epoch, Duration: 4 * time.Millisecond, Stars: 3000, Nebulae: 8, Meteors: 3, Spawned: 3})
	m.Record(FrameStats{At: epoch.Add(250 * time.Millisecond), Duration: 2 * time.Millisecond, Stars: 3000, Nebulae: 8, Meteors: 2, Retired: 1})

	if !m.HasData() {
		t.Error("HasData should be true after Record")
	}

	snap := m.Snapshot()
	if snap.Frames != 2 {
		t.Errorf("Frames = %d, want 2", snap.Frames)
	}
	if snap.Last.Meteors != 2 {
		t.Errorf("Last.Meteors = %d, want 2", snap.Last.Meteors)
	}
	if snap.Spawned != 3 || snap.Retired != 1 {
		t.Errorf("totals = %d spawned / %d retired, want 3 / 1", snap.Spawned, snap.Retired)
	}
	if snap.AvgFrameTime != 3*time.Millisecond {
		t.Errorf("AvgFrameTime = %v, want 3ms", snap.AvgFrameTime)
	}
	if snap.FPS != 4 {
		t.Errorf("FPS = %v, want 4", snap.FPS)
	}
}

func TestManager_HistoryWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxHistoryLen = 3
	m := NewManager(cfg)

	for i := 0; i < 5; i++ {
		m.Record(FrameStats{At: epoch.Add(time.Duration(i) * 100 * time.Millisecond), Duration: time.Duration(i) * time.Millisecond})
	}

	m.mu.RLock()
	histLen := len(m.history)
	m.mu.RUnlock()

	if histLen != 3 {
		t.Errorf("history length = %d, want 3", histLen)
	}
	// frames 2, 3, 4
	if got := m.Snapshot().AvgFrameTime; got != 3*time.Millisecond {
		t.Errorf("AvgFrameTime = %v, want 3ms", got)
	}
}

func TestManager_Events(t *testing.T) {
	m := NewManager(DefaultConfig())

	m.Record(FrameStats{At: epoch, Spawned: 2})
	m.RecordResize(epoch.Add(time.Second), 800, 600)
	m.Record(FrameStats{At: epoch.Add(2 * time.Second), Retired: 1})
	m.Record(FrameStats{At: epoch.Add(3 * time.Second)})

	events := m.RecentEvents(10)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	want := []EventType{EventSpawn, EventResize, EventRetire}
	for i, typ := range want {
		if events[i].Type != typ {
			t.Errorf("event %d type = %q, want %q", i, events[i].Type, typ)
		}
	}
	if events[0].Count != 2 || events[0].Frame != 1 {
		t.Errorf("spawn event = %+v", events[0])
	}
	if events[1].Width != 800 || events[1].Height != 600 {
		t.Errorf("resize event = %+v", events[1])
	}
}

func TestManager_EventRingBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEvents = 5
	m := NewManager(cfg)

	for i := 0; i < 10; i++ {
		m.Record(FrameStats{At: epoch.Add(time.Duration(i) * time.Second), Spawned: i + 1})
	}

	snap := m.Snapshot()
	if len(snap.Events) != 5 {
		t.Fatalf("events = %d, want 5", len(snap.Events))
	}
	for i, e := range snap.Events {
		if want := 6 + i; e.Count != want {
			t.Errorf("event %d count = %d, want %d", i, e.Count, want)
		}
	}

	recent := m.RecentEvents(2)
	if len(recent) != 2 || recent[1].Count != 10 {
		t.Errorf("RecentEvents(2) = %+v", recent)
	}
}

func TestManager_Snapshot_IsCopy(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.Record(FrameStats{At: epoch, Spawned: 1})

	snap := m.Snapshot()
	snap.Events[0].Count = 999

	if m.Snapshot().Events[0].Count == 999 {
		t.Error("Snapshot modification affected manager state")
	}
}

func TestManager_WriteJSON(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.Record(FrameStats{At: epoch, Width: 640, Height: 360, Stars: 3000, Spawned: 3})

	var buf bytes.Buffer
	if err := m.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded struct {
		Frames  uint64 `json:"frames"`
		Spawned uint64 `json:"spawned_total"`
		Last    struct {
			Width int `json:"width"`
			Stars int `json:"stars"`
		} `json:"last"`
		Events []Event `json:"events"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if decoded.Frames != 1 || decoded.Spawned != 3 || decoded.Last.Width != 640 || decoded.Last.Stars != 3000 {
		t.Errorf("decoded = %+v", decoded)
	}
	if len(decoded.Events) != 1 || decoded.Events[0].Type != EventSpawn {
		t.Errorf("events = %+v", decoded.Events)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(DefaultConfig())

	var wg sync.WaitGroup
	iterations := 100

	// Writer goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			m.Record(FrameStats{At: time.Now(), Duration: time.Duration(i) * time.Microsecond, Spawned: i % 2})
			if i%10 == 0 {
				m.RecordResize(time.Now(), i, i)
			}
		}
	}()

	// Reader goroutines
	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				_ = m.Snapshot()
				_ = m.HasData()
				_ = m.RecentEvents(5)
			}
		}()
	}

	wg.Wait()

	if got := m.Snapshot().Frames; got != uint64(iterations) {
		t.Errorf("Frames = %d, want %d", got, iterations)
	}
}
