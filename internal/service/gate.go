package service

import "sync"

// RequestGate implements the latest-wins policy for overlapping fetches of
// the same scope key: a range or scope change may start a new fetch while an
// older one is still in flight, and the stale result must be discarded
// rather than applied over fresher state.
//
// Begin registers a fetch and returns its token; Commit succeeds only if no
// newer fetch for the key has begun since. Bundles themselves are immutable
// snapshots, so no further locking is needed downstream.
type RequestGate struct {
	mu     sync.Mutex
	latest map[string]uint64
}

func NewRequestGate() *RequestGate {
	return &RequestGate{latest: make(map[string]uint64)}
}

// Begin marks a new in-flight fetch for key and returns its token.
func (g *RequestGate) Begin(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest[key]++
	return g.latest[key]
}

// Commit reports whether the fetch identified by token is still the latest
// for key. A false return means a newer fetch superseded this one and its
// result must not be applied.
func (g *RequestGate) Commit(key string, token uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.latest[key] == token
}
