package screen

import (
	"fmt"
	"sync"
)

// Status is the lifecycle of one piece of view state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// MarshalText implements encoding.TextMarshaler so snapshots carry readable statuses.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = StatusIdle
	case "loading":
		*s = StatusLoading
	case "success":
		*s = StatusSuccess
	case "error":
		*s = StatusError
	default:
		return fmt.Errorf("unknown status %q", text)
	}
	return nil
}

// Slot holds the result of one kind of request. Every request takes a ticket from
// Begin; only the holder of the latest ticket may complete the slot, so a slow
// response never overwrites a newer one.
type Slot[T any] struct {
	mu      sync.Mutex
	gen     uint64
	status  Status
	value   T
	message string
}

// Begin moves the slot to loading and returns the ticket for the new request.
func (s *Slot[T]) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginLocked()
}

// BeginIfNeeded is Begin for slots that only load once: it does nothing while a
// request is in flight or after a success.
func (s *Slot[T]) BeginIfNeeded() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusLoading || s.status == StatusSuccess {
		return 0, false
	}
	return s.beginLocked(), true
}

func (s *Slot[T]) beginLocked() uint64 {
	s.gen++
	s.status = StatusLoading
	s.message = ""
	return s.gen
}

// Succeed stores v if gen is still the latest ticket. notice is shown in place of
// an empty result.
func (s *Slot[T]) Succeed(gen uint64, v T, notice string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.status = StatusSuccess
	s.value = v
	s.message = notice
	return true
}

// Fail records msg if gen is still the latest ticket. The previous value is dropped.
func (s *Slot[T]) Fail(gen uint64, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	var zero T
	s.status = StatusError
	s.value = zero
	s.message = msg
	return true
}

// Reset returns the slot to idle and invalidates every outstanding ticket.
func (s *Slot[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.gen++
	s.status = StatusIdle
	s.value = zero
	s.message = ""
}

// Current reports whether gen is the latest ticket.
func (s *Slot[T]) Current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}

// Snapshot copies the slot for rendering.
func (s *Slot[T]) Snapshot() View[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View[T]{Status: s.status, Value: s.value, Message: s.message}
}

// View is a point-in-time copy of a Slot.
type View[T any] struct {
	Status  Status `json:"status"`
	Value   T      `json:"value"`
	Message string `json:"message,omitempty"`
}

func (v View[T]) Loading() bool { return v.Status == StatusLoading }
func (v View[T]) Failed() bool  { return v.Status == StatusError }
func (v View[T]) Ready() bool   { return v.Status == StatusSuccess }
