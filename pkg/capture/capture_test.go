package capture

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lanemu/pkg/link"
	"lanemu/pkg/medium"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "capture.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordDecodedFrame(t *testing.T) {
	l := openTestLog(t)

	f, err := link.NewFrame(
		link.MustParseAddress("AA:BB:CC:DD:EE:02"),
		link.MustParseAddress("AA:BB:CC:DD:EE:01"),
		[]byte("Hello"))
	require.NoError(t, err)

	ev := medium.Event{From: "alice", To: "bob", Buf: f.Encode(), At: time.Now()}
	require.NoError(t, l.Record(ev))

	entries, err := l.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.True(t, e.Decoded)
	assert.Equal(t, "alice", e.SrcEndpoint)
	assert.Equal(t, "bob", e.DstEndpoint)
	assert.Equal(t, "AA:BB:CC:DD:EE:01", e.SrcAddr)
	assert.Equal(t, "AA:BB:CC:DD:EE:02", e.DstAddr)
	assert.Equal(t, 5, e.Length)
	assert.Equal(t, uint16(500), e.Checksum)
	assert.True(t, e.ChecksumOK)
	assert.Equal(t, []byte("Hello"), e.Payload)
}

func TestRecordOpaqueBuffer(t *testing.T) {
	l := openTestLog(t)

	raw := []byte{0xDE, 0xAD}
	ev := medium.Event{From: "x", To: "y", Buf: raw, At: time.Now()}
	require.NoError(t, l.Record(ev))

	entries, err := l.Recent(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Decoded)
	assert.Equal(t, raw, entries[0].Payload)
	assert.Empty(t, entries[0].SrcAddr)
}

func TestRecentOrderAndCount(t *testing.T) {
	l := openTestLog(t)

	for i, text := range []string{"one", "two", "three"} {
		f, err := link.NewFrame(link.Address{0x02}, link.Address{0x01}, []byte(text))
		require.NoError(t, err)
		ev := medium.Event{From: "alice", To: "bob", Buf: f.Encode(), At: time.Now().Add(time.Duration(i) * time.Millisecond)}
		require.NoError(t, l.Record(ev))
	}

	entries, err := l.Recent(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []byte("three"), entries[0].Payload, "newest first")
	assert.Equal(t, []byte("two"), entries[1].Payload)

	n, err := l.CountFor("bob")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = l.CountFor("nobody")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTapIntegration(t *testing.T) {
	l := openTestLog(t)
	med := medium.New()
	med.Register("bob")
	med.Tap(func(ev medium.Event) { _ = l.Record(ev) })

	f, err := link.NewFrame(link.Address{0x02}, link.Address{0x01}, []byte("tapped"))
	require.NoError(t, err)
	require.NoError(t, med.Send("alice", "bob", f.Encode()))

	n, err := l.CountFor("bob")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
