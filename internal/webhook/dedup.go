package webhook

import (
	"sync"
	"time"
)

// Dedup suppresses duplicate webhook deliveries for a short window. Scalev
// redelivers events it considers unacknowledged; without this the payment
// side effect could run twice for one order. In-process only, which is
// enough for a single stateless instance.
type Dedup struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

func NewDedup(ttl time.Duration) *Dedup {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Dedup{
		ttl:  ttl,
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

// Seen marks the key and reports whether it was already marked inside the
// TTL window. Expired entries are evicted lazily.
func (d *Dedup) Seen(key string) bool {
	if key == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for k, t := range d.seen {
		if now.Sub(t) > d.ttl {
			delete(d.seen, k)
		}
	}

	if t, ok := d.seen[key]; ok && now.Sub(t) <= d.ttl {
		return true
	}
	d.seen[key] = now
	return false
}
