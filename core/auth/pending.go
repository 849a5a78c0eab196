package auth

import (
	"strings"
	"sync"
	"time"
)

// pendingLogin tracks one operator between the credential check and the OTP
// submission. Entries live in memory only; restarting the console simply
// forces the login over.
type pendingLogin struct {
	Email     string
	ExpiresAt time.Time
	Attempts  int
}

type pendingLogins struct {
	mu      sync.Mutex
	entries map[string]*pendingLogin
}

func newPendingLogins() *pendingLogins {
	return &pendingLogins{entries: make(map[string]*pendingLogin)}
}

func loginKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *pendingLogins) put(email string, ttl time.Duration, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[loginKey(email)] = &pendingLogin{
		Email:     email,
		ExpiresAt: now.Add(ttl),
	}
}

// take returns the live entry for email, or nil when none exists or it
// expired. The attempt counter is bumped on every call.
func (p *pendingLogins) take(email string, now time.Time, maxAttempts int) *pendingLogin {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := loginKey(email)
	entry, ok := p.entries[key]
	if !ok {
		return nil
	}
	if now.After(entry.ExpiresAt) {
		delete(p.entries, key)
		return nil
	}
	entry.Attempts++
	if maxAttempts > 0 && entry.Attempts > maxAttempts {
		delete(p.entries, key)
		return nil
	}
	return entry
}

func (p *pendingLogins) clear(email string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, loginKey(email))
}

func (p *pendingLogins) sweep(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, entry := range p.entries {
		if now.After(entry.ExpiresAt) {
			delete(p.entries, key)
		}
	}
}
