package lookup

import (
	"fmt"
	"sync"
	"time"
)

// SourceEntry pairs a source with its operating parameters.
type SourceEntry struct {
	Source     Source
	DailyLimit int
	Timeout    time.Duration
	Active     bool
}

// Registry holds the configured lookup sources in priority order. Insertion
// order is the priority order: register the cheapest / most reliable source
// first.
type Registry struct {
	mu      sync.RWMutex
	entries []*SourceEntry
}

// NewRegistry creates an empty source registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a source to the priority chain.
func (r *Registry) Register(src Source, dailyLimit int, timeout time.Duration, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := src.Name()
	if name == "" {
		return fmt.Errorf("source name cannot be empty")
	}
	for _, e := range r.entries {
		if e.Source.Name() == name {
			return fmt.Errorf("source %s is already registered", name)
		}
	}

	r.entries = append(r.entries, &SourceEntry{
		Source:     src,
		DailyLimit: dailyLimit,
		Timeout:    timeout,
		Active:     active,
	})
	return nil
}

// SetActive toggles a source without touching its usage counter.
func (r *Registry) SetActive(name string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.Source.Name() == name {
			e.Active = active
			return nil
		}
	}
	return fmt.Errorf("source %s not found", name)
}

// Entries returns a snapshot of the chain in priority order.
func (r *Registry) Entries() []SourceEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SourceEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	return out
}

// Has checks if a source is registered
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.Source.Name() == name {
			return true
		}
	}
	return false
}
