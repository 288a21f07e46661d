// Package node provides the endpoint abstraction sitting on top of the link
// codec and the shared medium: it turns application payloads into frames,
// hands them to the medium, and parses what the medium delivers back.
package node

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"lanemu/pkg/bodycodec"
	"lanemu/pkg/link"
	"lanemu/pkg/medium"
)

// ErrNoMessages is returned by Receive when the node's mailbox is empty.
var ErrNoMessages = errors.New("node: no messages pending")

// Node is one endpoint on the emulated LAN. It owns nothing but its name and
// address; the medium is injected by reference and shared with its peers.
type Node struct {
	name   string
	addr   link.Address
	med    *medium.Medium
	log    *zap.Logger
	codecs *bodycodec.Registry
}

// Delivery is one received and parsed frame. ChecksumOK records the result
// of integrity verification; corrupt frames are surfaced, not discarded, so
// the caller decides their fate.
type Delivery struct {
	From       link.Address
	To         link.Address
	Payload    []byte
	ChecksumOK bool
}

// Text returns the payload interpreted as a string.
func (d *Delivery) Text() string { return string(d.Payload) }

// New creates a node and registers it with the medium under name. A nil
// logger is replaced with a no-op one.
func New(name string, addr link.Address, med *medium.Medium, log *zap.Logger) *Node {
	if log == nil {
		log = zap.NewNop()
	}
	med.Register(name)
	return &Node{
		name:   name,
		addr:   addr,
		med:    med,
		log:    log.With(zap.String("node", name), zap.Stringer("addr", addr)),
		codecs: bodycodec.NewRegistry(),
	}
}

// Name returns the node's endpoint id on the medium.
func (n *Node) Name() string { return n.name }

// Addr returns the node's link-layer address.
func (n *Node) Addr() link.Address { return n.addr }

// Send frames text and enqueues it for the named peer.
func (n *Node) Send(dstName string, dstAddr link.Address, text string) error {
	return n.send(dstName, dstAddr, []byte(text))
}

// SendBody marshals v through the codec registry (format-byte prefixed) and
// frames the result for the named peer.
func (n *Node) SendBody(dstName string, dstAddr link.Address, f bodycodec.Format, v any) error {
	payload, err := bodycodec.EncodeBody(n.codecs, f, v)
	if err != nil {
		return fmt.Errorf("node: encode body: %w", err)
	}
	return n.send(dstName, dstAddr, payload)
}

func (n *Node) send(dstName string, dstAddr link.Address, payload []byte) error {
	f, err := link.NewFrame(dstAddr, n.addr, payload)
	if err != nil {
		return fmt.Errorf("node: build frame: %w", err)
	}
	if err := n.med.Send(n.name, dstName, f.Encode()); err != nil {
		return err
	}
	n.log.Debug("frame sent",
		zap.String("dst", dstName),
		zap.Stringer("dst_addr", dstAddr),
		zap.Uint16("len", f.Length),
		zap.Uint16("checksum", f.Checksum))
	return nil
}

// HasIncoming reports whether the node's mailbox holds undelivered frames.
func (n *Node) HasIncoming() bool { return n.med.HasPending(n.name) }

// Receive dequeues one buffer, parses it as a frame and verifies its
// checksum. An empty mailbox yields ErrNoMessages; a buffer that does not
// parse yields the decode error. A frame that parses but fails verification
// is still returned, with ChecksumOK false.
func (n *Node) Receive() (*Delivery, error) {
	buf, ok, err := n.med.Receive(n.name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoMessages
	}
	f, err := link.Decode(buf)
	if err != nil {
		return nil, fmt.Errorf("node: parse frame: %w", err)
	}
	d := &Delivery{From: f.Src, To: f.Dst, Payload: f.Payload, ChecksumOK: f.VerifyChecksum()}
	if !d.ChecksumOK {
		n.log.Warn("checksum mismatch on received frame",
			zap.Stringer("from", f.Src),
			zap.Uint16("wire_checksum", f.Checksum),
			zap.Uint16("computed", link.Sum(f.Payload)))
	} else {
		n.log.Debug("frame received",
			zap.Stringer("from", f.Src),
			zap.Uint16("len", f.Length))
	}
	return d, nil
}

// DecodeBody decodes a delivery produced by SendBody into v.
func (n *Node) DecodeBody(d *Delivery, v any) (bodycodec.Format, error) {
	return bodycodec.DecodeBody(n.codecs, d.Payload, v)
}
