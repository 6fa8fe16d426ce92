package quicklang

// FingerprintStore holds session-scoped state for the gate.
// store.InMemoryStore and store.RedisStore implement it.
type FingerprintStore interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
	Delete(key string) error
}

// FingerprintLookup is implemented by stores that can report read failures
// instead of treating them as a miss.
type FingerprintLookup interface {
	Lookup(key string) (string, bool, error)
}

// Gate rejects a request whose fingerprint equals the last fingerprint that
// was successfully processed for the same session.
//
// The stored value is overwritten only by Commit, which callers invoke after a
// successful dispatch; a failed dispatch leaves it unchanged so the identical
// request can be retried.
type Gate struct {
	store FingerprintStore
}

// NewGate creates a gate over the given store.
func NewGate(store FingerprintStore) *Gate {
	return &Gate{store: store}
}

// Check returns a *DuplicateRequestError if fp equals the session's last
// processed fingerprint, nil otherwise. A store read failure is returned as
// a *CacheError.
func (g *Gate) Check(sessionID string, fp Fingerprint) error {
	last, ok, err := g.lookup(sessionID)
	if err != nil {
		return &CacheError{Message: "reading fingerprint", Cause: err}
	}
	if ok && last == fp {
		return &DuplicateRequestError{Fingerprint: fp}
	}
	return nil
}

// Commit records fp as the session's last processed fingerprint.
func (g *Gate) Commit(sessionID string, fp Fingerprint) error {
	if err := g.store.Set(SessionKey(sessionID), string(fp)); err != nil {
		return &CacheError{Message: "recording fingerprint", Cause: err}
	}
	return nil
}

// Last returns the session's last processed fingerprint, if any.
func (g *Gate) Last(sessionID string) (Fingerprint, bool) {
	fp, ok, _ := g.lookup(sessionID)
	return fp, ok
}

func (g *Gate) lookup(sessionID string) (Fingerprint, bool, error) {
	var (
		v   string
		ok  bool
		err error
	)
	if l, isLookup := g.store.(FingerprintLookup); isLookup {
		v, ok, err = l.Lookup(SessionKey(sessionID))
	} else {
		v, ok = g.store.Get(SessionKey(sessionID))
	}
	if err != nil || !ok || v == "" {
		return "", false, err
	}
	return Fingerprint(v), true, nil
}

// Reset forgets the session's last processed fingerprint.
func (g *Gate) Reset(sessionID string) error {
	if err := g.store.Delete(SessionKey(sessionID)); err != nil {
		return &CacheError{Message: "clearing fingerprint", Cause: err}
	}
	return nil
}
