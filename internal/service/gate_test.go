package service

import (
	"sync"
	"testing"
)

func TestGate_SingleFetchCommits(t *testing.T) {
	g := NewRequestGate()

	token := g.Begin("scope-a")
	if !g.Commit("scope-a", token) {
		t.Error("sole in-flight fetch should commit")
	}
}

func TestGate_StaleFetchDiscarded(t *testing.T) {
	g := NewRequestGate()

	stale := g.Begin("scope-a")
	fresh := g.Begin("scope-a")

	// The slower, older fetch completes after the newer one began.
	if g.Commit("scope-a", stale) {
		t.Error("superseded fetch must not commit")
	}
	if !g.Commit("scope-a", fresh) {
		t.Error("latest fetch should commit")
	}
}

func TestGate_KeysIndependent(t *testing.T) {
	g := NewRequestGate()

	a := g.Begin("scope-a")
	g.Begin("scope-b")

	if !g.Commit("scope-a", a) {
		t.Error("fetch for a different key must not supersede this one")
	}
}

func TestGate_CommitIdempotentUntilSuperseded(t *testing.T) {
	g := NewRequestGate()

	token := g.Begin("scope-a")
	if !g.Commit("scope-a", token) || !g.Commit("scope-a", token) {
		t.Error("commit check is read-only and repeatable")
	}

	g.Begin("scope-a")
	if g.Commit("scope-a", token) {
		t.Error("old token must fail after a new Begin")
	}
}

func TestGate_ConcurrentBegins(t *testing.T) {
	g := NewRequestGate()

	const n = 100
	tokens := make([]uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i] = g.Begin("scope-a")
		}(i)
	}
	wg.Wait()

	seen := make(map[uint64]bool, n)
	var committed int
	for _, tok := range tokens {
		if seen[tok] {
			t.Fatalf("duplicate token %d issued", tok)
		}
		seen[tok] = true
		if g.Commit("scope-a", tok) {
			committed++
		}
	}
	if committed != 1 {
		t.Errorf("%d tokens commit, want exactly 1 (the latest)", committed)
	}
}
