package locomotion

import "time"

// Timer records when something last started. An unset timer behaves as if it
// started infinitely long ago.
type Timer struct {
	at  time.Duration
	set bool
}

func (t *Timer) Start(now time.Duration) {
	t.at = now
	t.set = true
}

func (t *Timer) Clear() {
	*t = Timer{}
}

// Within reports whether now is at most window after the start.
func (t Timer) Within(now, window time.Duration) bool {
	return t.set && now-t.at <= window
}

// Elapsed reports whether at least d has passed since the start.
func (t Timer) Elapsed(now, d time.Duration) bool {
	return !t.set || now-t.at >= d
}

// Remaining returns how much of d is left, clamped to [0, d]. A now before
// the start reports all of d.
func (t Timer) Remaining(now, d time.Duration) time.Duration {
	if !t.set {
		return 0
	}
	left := d - (now - t.at)
	switch {
	case left < 0:
		return 0
	case left > d:
		return d
	}
	return left
}

// IgnoreSlot holds at most one collider whose collisions with the character
// are suppressed until an expiry time.
type IgnoreSlot struct {
	collider Collider
	until    time.Duration
}

func (s *IgnoreSlot) Occupied() bool {
	return s.collider != nil
}

func (s *IgnoreSlot) Holds(c Collider) bool {
	return c != nil && s.collider == c
}

// Arm occupies the slot. It refuses when already occupied so the running
// timer is never extended or replaced.
func (s *IgnoreSlot) Arm(c Collider, until time.Duration) bool {
	if s.Occupied() || c == nil {
		return false
	}
	s.collider = c
	s.until = until
	return true
}

func (s *IgnoreSlot) Expired(now time.Duration) bool {
	return s.Occupied() && now >= s.until
}

// Release frees the slot and returns the previous occupant.
func (s *IgnoreSlot) Release() Collider {
	c := s.collider
	*s = IgnoreSlot{}
	return c
}

func (s *IgnoreSlot) Collider() Collider {
	return s.collider
}

func (s *IgnoreSlot) Until() time.Duration {
	return s.until
}
