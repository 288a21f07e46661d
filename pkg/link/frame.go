// Package link implements the data-link layer of the emulated LAN: 6-byte
// link addresses, the frame wire codec and the additive payload checksum.
package link

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Wire layout. All integer fields are big-endian (network byte order).
//
//  0  ..5    Dst      [6]byte
//  6  ..11   Src      [6]byte
//  12 ..13   Length   u16  declared payload length
//  14 ..     Payload  Length bytes
//  last 2    Checksum u16  additive sum of the payload bytes
const (
	headerSize   = 2*AddressLen + 2
	trailerSize  = 2
	minFrameSize = headerSize + trailerSize

	// MaxPayload is the largest payload length a frame can declare.
	MaxPayload = 0xFFFF
)

var (
	ErrPayloadTooLarge  = errors.New("link: payload exceeds 65535 bytes")
	ErrShortFrame       = errors.New("link: buffer shorter than fixed frame size")
	ErrTruncatedPayload = errors.New("link: declared payload length exceeds buffer")
	ErrTrailingBytes    = errors.New("link: trailing bytes after frame")
)

// Frame is the protocol data unit of the emulated link layer. Length is
// carried explicitly on the wire rather than re-derived from Payload, so a
// decoded frame reflects exactly what was declared by the sender.
type Frame struct {
	Dst      Address
	Src      Address
	Length   uint16
	Payload  []byte
	Checksum uint16
}

// NewFrame builds a frame from addresses and payload, setting Length and
// computing the payload checksum. Payloads longer than MaxPayload are
// rejected instead of silently wrapping the length field.
func NewFrame(dst, src Address, payload []byte) (*Frame, error) {
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}
	return &Frame{
		Dst:      dst,
		Src:      src,
		Length:   uint16(len(payload)),
		Payload:  payload,
		Checksum: Sum(payload),
	}, nil
}

// Encode linearizes the frame into a flat buffer following the wire layout
// above. The stored Length and Checksum fields are written verbatim.
func (f *Frame) Encode() []byte {
	buf := make([]byte, minFrameSize+len(f.Payload))
	copy(buf[0:AddressLen], f.Dst[:])
	copy(buf[AddressLen:2*AddressLen], f.Src[:])
	binary.BigEndian.PutUint16(buf[2*AddressLen:headerSize], f.Length)
	copy(buf[headerSize:], f.Payload)
	binary.BigEndian.PutUint16(buf[headerSize+len(f.Payload):], f.Checksum)
	return buf
}

// Decode parses a linearized frame. The declared payload length is trusted
// for layout and then checked against the buffer: short buffers, truncated
// payloads and trailing garbage are all rejected. The checksum is taken
// verbatim from the wire and left unverified so VerifyChecksum can detect
// in-flight corruption.
func Decode(buf []byte) (*Frame, error) {
	if len(buf) < minFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortFrame, len(buf))
	}
	var f Frame
	copy(f.Dst[:], buf[0:AddressLen])
	copy(f.Src[:], buf[AddressLen:2*AddressLen])
	f.Length = binary.BigEndian.Uint16(buf[2*AddressLen:headerSize])
	end := headerSize + int(f.Length)
	switch {
	case end+trailerSize > len(buf):
		return nil, fmt.Errorf("%w: declared %d, buffer holds %d",
			ErrTruncatedPayload, f.Length, len(buf)-minFrameSize)
	case end+trailerSize < len(buf):
		return nil, fmt.Errorf("%w: %d extra bytes",
			ErrTrailingBytes, len(buf)-end-trailerSize)
	}
	f.Payload = append([]byte(nil), buf[headerSize:end]...)
	f.Checksum = binary.BigEndian.Uint16(buf[end : end+trailerSize])
	return &f, nil
}

// VerifyChecksum recomputes the payload checksum and compares it with the
// stored value. It is the sole integrity gate; callers decide what to do
// with a frame that fails it.
func (f *Frame) VerifyChecksum() bool {
	return Sum(f.Payload) == f.Checksum
}

// WriteTo writes the linearized frame to w.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Encode())
	return int64(n), err
}

// ReadFrame reads one frame from r using the declared payload length to size
// the read, then decodes it through the same validation path as Decode.
func ReadFrame(r io.Reader) (*Frame, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint16(buf[2*AddressLen:headerSize])
	rest := make([]byte, int(length)+trailerSize)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, err
	}
	return Decode(append(buf, rest...))
}

// String is a human-readable dump for debugging and logs; it is not part of
// the wire contract.
func (f *Frame) String() string {
	return fmt.Sprintf("frame dst=%s src=%s len=%d payload=%q checksum=0x%04X ok=%t",
		f.Dst, f.Src, f.Length, f.Payload, f.Checksum, f.VerifyChecksum())
}
