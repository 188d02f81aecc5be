package service

import (
	"strings"
	"sync"

	"github.com/mbcx07/SISTRA/internal/scope"
)

// scopeLocks serializes cap checks per (titular NSS, contract) so two
// concurrent captures cannot both read count=1 and both persist a second
// dotación. Entries are reference-counted and removed on last unlock, so the
// map does not grow with the NSS universe.
type scopeLocks struct {
	mu    sync.Mutex
	locks map[string]*scopeLockEntry
}

type scopeLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newScopeLocks() *scopeLocks {
	return &scopeLocks{locks: make(map[string]*scopeLockEntry)}
}

func scopeLockKey(nss, contrato string) string {
	return scope.SoloDigitos(nss) + "|" + strings.ToUpper(strings.TrimSpace(contrato))
}

// acquire blocks until the key's lock is held and returns its release func.
func (s *scopeLocks) acquire(key string) func() {
	s.mu.Lock()
	e, ok := s.locks[key]
	if !ok {
		e = &scopeLockEntry{}
		s.locks[key] = e
	}
	e.refs++
	s.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		s.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}
