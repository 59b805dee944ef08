package events

import (
	"fmt"
	"sync"
)

// MemoryJournal keeps every run stream in memory and notifies handlers synchronously
type MemoryJournal struct {
	mu       sync.RWMutex
	streams  map[string][]Event
	log      []Event
	handlers map[string][]Handler
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{
		streams:  make(map[string][]Event),
		handlers: make(map[string][]Handler),
	}
}

// Append versions the event within its run and hands it to every accepting handler before
// returning. The first handler error is returned after all handlers ran.
func (j *MemoryJournal) Append(run string, e Event) error {
	j.mu.Lock()
	rec := Record{
		Kind:    e.Type(),
		Run:     run,
		Payload: e.Data(),
		At:      e.Timestamp(),
		Seq:     len(j.streams[run]) + 1,
	}
	j.streams[run] = append(j.streams[run], rec)
	j.log = append(j.log, rec)
	handlers := append([]Handler(nil), j.handlers[rec.Kind]...)
	j.mu.Unlock()

	var firstErr error
	for _, h := range handlers {
		if !h.Accepts(rec.Kind) {
			continue
		}
		if err := h.Handle(rec); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("handle %s: %w", rec.Kind, err)
		}
	}
	return firstErr
}

// Stream returns a run's events from fromVersion on. Versions start at 1.
func (j *MemoryJournal) Stream(run string, fromVersion int) ([]Event, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if fromVersion < 1 {
		fromVersion = 1
	}
	return tail(j.streams[run], fromVersion-1), nil
}

// All returns every event across runs from a zero-based position on
func (j *MemoryJournal) All(fromPosition int) ([]Event, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if fromPosition < 0 {
		fromPosition = 0
	}
	return tail(j.log, fromPosition), nil
}

func (j *MemoryJournal) Subscribe(kinds []string, h Handler) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, kind := range kinds {
		j.handlers[kind] = append(j.handlers[kind], h)
	}
	return nil
}

func (j *MemoryJournal) Unsubscribe(h Handler) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	for kind, handlers := range j.handlers {
		kept := handlers[:0]
		for _, existing := range handlers {
			if existing != h {
				kept = append(kept, existing)
			}
		}
		j.handlers[kind] = kept
	}
	return nil
}

func tail(events []Event, from int) []Event {
	if from >= len(events) {
		return []Event{}
	}
	return append([]Event(nil), events[from:]...)
}
