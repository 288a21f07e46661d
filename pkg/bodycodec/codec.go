// Package bodycodec marshals typed application bodies into the opaque
// payload bytes carried by link frames. The frame codec never looks inside
// its payload; endpoints that want structured messages agree on an encoding
// here instead.
package bodycodec

import "fmt"

// Codec serializes typed values. Implementations should be deterministic so
// two endpoints produce identical payload bytes for identical bodies.
type Codec interface {
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Registry maps content types to codecs.
type Registry struct{ byType map[string]Codec }

// NewRegistry constructs a registry preloaded with the codecs that need no
// initialization: JSON and Protobuf. CBOR is added explicitly via
// Register(CBOR()) because its construction can fail.
func NewRegistry() *Registry {
	r := &Registry{byType: make(map[string]Codec)}
	r.Register(JSON())
	r.Register(Proto())
	return r
}

// Register adds or replaces a codec.
func (r *Registry) Register(c Codec) { r.byType[c.ContentType()] = c }

// Get returns the codec for contentType, or nil.
func (r *Registry) Get(contentType string) Codec { return r.byType[contentType] }

// Format is the compact on-wire indicator of a body's encoding, carried as
// the first payload byte by EncodeBody.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatCBOR
	FormatProto
)

// Content types, matching Format values.
const (
	ContentJSON  = "application/json"
	ContentCBOR  = "application/cbor"
	ContentProto = "application/x-protobuf"
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return ContentJSON
	case FormatCBOR:
		return ContentCBOR
	case FormatProto:
		return ContentProto
	default:
		return "application/octet-stream"
	}
}

// codecFor resolves f against the registry, falling back to a fresh built-in
// codec when the registry has none for that content type.
func codecFor(r *Registry, f Format) (Codec, error) {
	switch f {
	case FormatJSON:
		if c := r.Get(ContentJSON); c != nil {
			return c, nil
		}
		return JSON(), nil
	case FormatCBOR:
		if c := r.Get(ContentCBOR); c != nil {
			return c, nil
		}
		return CBOR()
	case FormatProto:
		if c := r.Get(ContentProto); c != nil {
			return c, nil
		}
		return Proto(), nil
	default:
		return nil, fmt.Errorf("bodycodec: unknown format %d", f)
	}
}

// EncodeBody serializes v with the codec for f and prefixes the result with
// a single format byte.
func EncodeBody(r *Registry, f Format, v any) ([]byte, error) {
	c, err := codecFor(r, f)
	if err != nil {
		return nil, err
	}
	b, err := c.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 1+len(b))
	out[0] = byte(f)
	copy(out[1:], b)
	return out, nil
}

// DecodeBody decodes a payload produced by EncodeBody into v, returning the
// format it detected from the prefix byte.
func DecodeBody(r *Registry, payload []byte, v any) (Format, error) {
	if len(payload) == 0 {
		return FormatUnknown, fmt.Errorf("bodycodec: empty payload")
	}
	f := Format(payload[0])
	c, err := codecFor(r, f)
	if err != nil {
		return f, err
	}
	if err := c.Unmarshal(payload[1:], v); err != nil {
		return f, err
	}
	return f, nil
}
