package auth

import (
	"context"
	"sync"
	"time"
)

// RevocationList remembers revoked token ids until the token would have
// expired anyway.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type MemoryRevocationList struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (l *MemoryRevocationList) Revoke(ctx context.Context, jti string, until time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked[jti] = until
	return nil
}

func (l *MemoryRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	until, ok := l.revoked[jti]
	return ok && l.now().Before(until), nil
}

// Purge drops entries whose tokens have expired and returns how many went.
func (l *MemoryRevocationList) Purge() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	n := 0
	for jti, until := range l.revoked {
		if !now.Before(until) {
			delete(l.revoked, jti)
			n++
		}
	}
	return n
}

func (l *MemoryRevocationList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.revoked)
}
