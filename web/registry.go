package web

import (
	"sync"
	"time"

	"github.com/ZaguanLabs/quicklang"
)

type registryEntry struct {
	session  *quicklang.Session
	lastSeen time.Time
}

// Registry holds one quicklang.Session per visitor. API keys and form state
// live in the session objects only; fingerprints go to the shared store so
// they survive eviction and are visible to other replicas.
type Registry struct {
	factory quicklang.EngineFactory
	opts    []quicklang.SessionOption
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*registryEntry
	onChange func(n int)
}

// NewRegistry creates a registry building sessions with factory, backed by
// store. opts are applied to every new session.
func NewRegistry(factory quicklang.EngineFactory, store quicklang.FingerprintStore, opts ...quicklang.SessionOption) *Registry {
	all := append([]quicklang.SessionOption{quicklang.WithStore(store)}, opts...)
	return &Registry{
		factory:  factory,
		opts:     all,
		now:      time.Now,
		sessions: make(map[string]*registryEntry),
	}
}

// OnChange registers a callback receiving the session count after it changes.
func (r *Registry) OnChange(fn func(n int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Get returns the session with the given id, creating it on first use.
func (r *Registry) Get(id string) *quicklang.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.sessions[id]; ok {
		e.lastSeen = r.now()
		return e.session
	}

	s := quicklang.NewSession(id, r.factory, r.opts...)
	r.sessions[id] = &registryEntry{session: s, lastSeen: r.now()}
	r.notify()
	return s
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Evict drops sessions idle for longer than maxIdle and returns how many were
// removed. Busy sessions are kept. A maxIdle of zero or less disables
// eviction.
func (r *Registry) Evict(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	removed := 0
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) && !e.session.Busy() {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		r.notify()
	}
	return removed
}

// notify must be called with the lock held.
func (r *Registry) notify() {
	if r.onChange != nil {
		r.onChange(len(r.sessions))
	}
}
