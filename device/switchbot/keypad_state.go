package switchbot

import "sync"

// KeypadState tracks the attempt counter advertised by a single keypad. The
// zero value is ready to use.
type KeypadState struct {
  mu sync.Mutex
  last int
  seen bool
}

// Observe records a new attempt counter and reports whether it follows a
// successful attempt: the counter advanced by at least two since the previous
// observation, or went backwards without wrapping from 255 to 0.
func (k *KeypadState) Observe(attempt int) bool {
  k.mu.Lock()
  defer k.mu.Unlock()

  last := k.last
  success := k.seen && ((attempt > last && attempt-last >= 2) ||
    (attempt < last && attempt-last >= -254))

  k.last = attempt
  k.seen = true

  return success
}

// Reset forgets the last observed counter.
func (k *KeypadState) Reset() {
  k.mu.Lock()
  defer k.mu.Unlock()

  k.seen = false
  k.last = 0
}
