package usecase

import (
	"sync"
	"time"

	"CardSight/internal/domain/models"
)

// DefaultContinuityTTL is how long a resolved identity survives frames
// where recognition comes up empty.
const DefaultContinuityTTL = 30 * time.Second

// Continuity bridges short recognition gaps with the last resolved
// identity. One slot per session.
type Continuity struct {
	mu       sync.Mutex
	ttl      time.Duration
	stored   models.Identity
	storedAt time.Time
	hasSlot  bool
}

func NewContinuity(ttl time.Duration) *Continuity {
	if ttl <= 0 {
		ttl = DefaultContinuityTTL
	}
	return &Continuity{ttl: ttl}
}

// Update stores a resolved identity, or substitutes the stored one when
// the current frame is unresolved and the slot is still fresh. A slot
// whose age has reached the TTL is never substituted.
func (c *Continuity) Update(current models.Identity, now time.Time) models.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()

	if current.Resolved() {
		c.stored = current
		c.storedAt = now
		c.hasSlot = true
		return current
	}

	if c.hasSlot && now.Sub(c.storedAt) < c.ttl {
		return c.stored
	}
	return current
}

// Reset clears the slot, used when a session restarts.
func (c *Continuity) Reset() {
	c.mu.Lock()
	c.hasSlot = false
	c.stored = models.Identity{}
	c.mu.Unlock()
}
