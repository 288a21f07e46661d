// Package medium provides the shared delivery fabric of the emulated LAN: a
// registry of per-endpoint FIFO mailboxes holding opaque byte buffers.
//
// A Medium is an explicitly constructed object handed by reference to every
// endpoint that uses it; there is no package-level instance. It does not
// interpret the buffers it carries: framing, addressing and integrity all
// belong to the link layer.
package medium

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrUnknownEndpoint is returned when a send or receive names an endpoint
// that was never registered.
var ErrUnknownEndpoint = errors.New("medium: endpoint not registered")

// Event describes one buffer accepted for delivery. Taps receive a copy of
// every successful Send.
type Event struct {
	From string
	To   string
	Buf  []byte
	At   time.Time
}

// Medium delivers byte buffers between named endpoints in strict FIFO order
// per mailbox. All operations are synchronous and non-blocking; the mutex
// only makes concurrent callers safe, it never parks them waiting for data.
type Medium struct {
	mu      sync.Mutex
	inboxes map[string][][]byte
	taps    []func(Event)
}

// New constructs an empty medium with no registered endpoints.
func New() *Medium {
	return &Medium{inboxes: make(map[string][][]byte)}
}

// Register creates an empty mailbox for id. Registering an id that already
// exists is a no-op and keeps any queued buffers.
func (m *Medium) Register(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.inboxes[id]; !ok {
		m.inboxes[id] = nil
	}
}

// Tap adds an observer invoked synchronously after every successful Send.
// Taps see delivery metadata only; they must not assume the buffer decodes
// as a valid frame.
func (m *Medium) Tap(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taps = append(m.taps, fn)
}

// Send appends buf to dst's mailbox. src identifies the sender for
// observability only; it takes no part in routing and is not validated.
// Sending to an unregistered destination fails without creating a mailbox.
func (m *Medium) Send(src, dst string, buf []byte) error {
	m.mu.Lock()
	box, ok := m.inboxes[dst]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownEndpoint, dst)
	}
	m.inboxes[dst] = append(box, buf)
	taps := m.taps
	m.mu.Unlock()

	ev := Event{From: src, To: dst, Buf: buf, At: time.Now()}
	for _, fn := range taps {
		fn(ev)
	}
	return nil
}

// Receive removes and returns the oldest buffer in id's mailbox. ok reports
// whether a buffer was actually dequeued, so an empty mailbox (ok=false) is
// never confused with a delivered zero-length buffer (ok=true). Receiving
// for an unregistered endpoint is an error.
func (m *Medium) Receive(id string) (buf []byte, ok bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	box, registered := m.inboxes[id]
	if !registered {
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownEndpoint, id)
	}
	if len(box) == 0 {
		return nil, false, nil
	}
	buf = box[0]
	m.inboxes[id] = box[1:]
	return buf, true, nil
}

// HasPending reports whether id is registered and its mailbox is non-empty.
// It returns false both for an unregistered id and for a registered but
// empty mailbox; callers that need to tell those apart track registration
// themselves.
func (m *Medium) HasPending(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inboxes[id]) > 0
}

// Pending returns the number of buffers queued for id, zero when the
// endpoint is unknown.
func (m *Medium) Pending(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inboxes[id])
}

// Endpoints returns the registered endpoint ids in sorted order.
func (m *Medium) Endpoints() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.inboxes))
	for id := range m.inboxes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
