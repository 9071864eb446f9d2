// Package state tracks whether the server currently believes it has a
// usable MySQL target. There is one instance per process, shared by every
// tool and resource handler.
package state

import "sync"

// Details is a snapshot of the connection configuration that last succeeded.
// It never carries the password.
type Details struct {
	Host     string
	Port     int
	User     string
	Database string
}

// Snapshot is a point-in-time copy of the connection state. Details is
// non-nil exactly when Connected is true, and LastError is empty whenever
// Connected is true.
type Snapshot struct {
	Connected bool
	LastError string
	Details   *Details
}

// ConnectionState is the mutable record behind Snapshot. The zero value is
// disconnected with no error. Handlers may run concurrently, so all access
// goes through the lock.
type ConnectionState struct {
	mu        sync.RWMutex
	connected bool
	lastError string
	details   *Details
}

// New returns a disconnected ConnectionState.
func New() *ConnectionState {
	return &ConnectionState{}
}

// SetConnected marks the state connected, records the details snapshot, and
// clears any previous error.
func (s *ConnectionState) SetConnected(details Details) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	s.lastError = ""
	s.details = &details
}

// SetDisconnected marks the state disconnected and drops the details
// snapshot. lastError records why; pass the empty string for a deliberate
// disconnect.
func (s *ConnectionState) SetDisconnected(lastError string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	s.lastError = lastError
	s.details = nil
}

// IsConnected reports whether the last probe succeeded and no connection
// failure has been observed since.
func (s *ConnectionState) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Snapshot returns a copy of the current state. The returned Details is a
// copy; mutating it does not affect the shared state.
func (s *ConnectionState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Connected: s.connected,
		LastError: s.lastError,
	}
	if s.details != nil {
		details := *s.details
		snap.Details = &details
	}
	return snap
}
