package api

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// usedSignatures remembers every accepted request signature for ttl, which is
// at least as long as the signature stays valid.
type usedSignatures struct {
	mu   sync.Mutex
	seen *expirable.LRU[string, struct{}]
}

func newUsedSignatures(ttl time.Duration) *usedSignatures {
	return &usedSignatures{
		seen: expirable.NewLRU[string, struct{}](0, nil, ttl),
	}
}

// claim records signature and reports whether it was unused.
func (u *usedSignatures) claim(signature []byte) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	key := string(signature)
	if u.seen.Contains(key) {
		return false
	}
	u.seen.Add(key, struct{}{})
	return true
}
