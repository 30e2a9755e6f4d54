package keypool

import (
	"sync"

	"github.com/nearft/relay/internal/apperr"
)

// Pool is the set of access keys available for signing, selected
// round-robin. The pool's own mutex guards only which key is picked next;
// it never blocks on a key's own nonce mutex.
type Pool struct {
	mu   sync.Mutex
	keys []*SigningKey
	next int
}

// NewPool constructs a Pool over the given keys. keys must be non-empty;
// bootstrap is responsible for provisioning at least one key before the
// worker starts.
func NewPool(keys []*SigningKey) (*Pool, error) {
	if len(keys) == 0 {
		return nil, apperr.New(apperr.BootstrapKeyFailed, "key pool must have at least one key")
	}
	return &Pool{keys: keys}, nil
}

// Next returns the next key in round-robin order.
func (p *Pool) Next() *SigningKey {
	p.mu.Lock()
	defer p.mu.Unlock()

	k := p.keys[p.next]
	p.next = (p.next + 1) % len(p.keys)
	return k
}

// Len reports how many keys are in the pool.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}

// All returns a snapshot slice of every key in the pool.
func (p *Pool) All() []*SigningKey {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*SigningKey, len(p.keys))
	copy(out, p.keys)
	return out
}
