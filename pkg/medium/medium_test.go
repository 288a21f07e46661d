package medium

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFOOrdering(t *testing.T) {
	m := New()
	m.Register("alice")
	m.Register("bob")

	b1 := []byte("first")
	b2 := []byte("second")
	require.NoError(t, m.Send("alice", "bob", b1))
	require.NoError(t, m.Send("alice", "bob", b2))

	got, ok, err := m.Receive("bob")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, b1, got)

	got, ok, err = m.Receive("bob")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, b2, got)

	_, ok, err = m.Receive("bob")
	require.NoError(t, err)
	assert.False(t, ok, "drained mailbox should report nothing available")
}

func TestSendUnregistered(t *testing.T) {
	m := New()
	m.Register("alice")

	err := m.Send("alice", "nobody", []byte("lost"))
	require.ErrorIs(t, err, ErrUnknownEndpoint)

	// The failed send must not create a mailbox as a side effect.
	assert.NotContains(t, m.Endpoints(), "nobody")
	assert.False(t, m.HasPending("nobody"))
}

func TestReceiveUnregistered(t *testing.T) {
	m := New()
	_, _, err := m.Receive("ghost")
	require.ErrorIs(t, err, ErrUnknownEndpoint)
}

func TestRegisterIdempotent(t *testing.T) {
	m := New()
	m.Register("alice")
	m.Register("bob")
	require.NoError(t, m.Send("alice", "bob", []byte("kept")))

	// Re-registering must not drop queued buffers.
	m.Register("bob")
	assert.Equal(t, 1, m.Pending("bob"))
}

func TestZeroLengthBufferDistinguishable(t *testing.T) {
	m := New()
	m.Register("bob")
	require.NoError(t, m.Send("alice", "bob", []byte{}))

	buf, ok, err := m.Receive("bob")
	require.NoError(t, err)
	assert.True(t, ok, "a delivered empty buffer is still a delivery")
	assert.Len(t, buf, 0)

	_, ok, err = m.Receive("bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasPending(t *testing.T) {
	m := New()
	assert.False(t, m.HasPending("alice"), "unregistered")

	m.Register("alice")
	assert.False(t, m.HasPending("alice"), "registered but empty")

	require.NoError(t, m.Send("bob", "alice", []byte("x")))
	assert.True(t, m.HasPending("alice"))

	_, _, err := m.Receive("alice")
	require.NoError(t, err)
	assert.False(t, m.HasPending("alice"))
}

func TestMailboxesAreIndependent(t *testing.T) {
	m := New()
	m.Register("a")
	m.Register("b")
	require.NoError(t, m.Send("x", "a", []byte("for a")))

	assert.True(t, m.HasPending("a"))
	assert.False(t, m.HasPending("b"))
	assert.Equal(t, []string{"a", "b"}, m.Endpoints())
}

func TestTapObservesDeliveries(t *testing.T) {
	m := New()
	m.Register("bob")

	var events []Event
	m.Tap(func(ev Event) { events = append(events, ev) })

	require.NoError(t, m.Send("alice", "bob", []byte("seen")))
	require.Error(t, m.Send("alice", "nobody", []byte("unseen")))

	require.Len(t, events, 1, "taps fire only on successful sends")
	assert.Equal(t, "alice", events[0].From)
	assert.Equal(t, "bob", events[0].To)
	assert.Equal(t, []byte("seen"), events[0].Buf)
	assert.False(t, events[0].At.IsZero())
}
