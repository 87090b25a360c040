package wire

import (
	"iter"

	orderedmap "github.com/pb33f/ordered-map/v2"
)

// Header is an insertion-ordered set of header fields. Setting an
// existing name replaces its value in place, so the original position
// on the wire is kept. Names are case-sensitive; response headers are
// stored lower-cased by ParseResponse.
//
// Header satisfies the otel propagation.TextMapCarrier interface.
type Header struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewHeader returns an empty Header.
func NewHeader() *Header {
	return &Header{m: orderedmap.New[string, string]()}
}

// Set adds name or overwrites its value.
func (h *Header) Set(name, value string) {
	h.m.Set(name, value)
}

// Get returns the value stored for name, or "" when absent.
func (h *Header) Get(name string) string {
	v, _ := h.Lookup(name)
	return v
}

// Lookup returns the value stored for name and whether it exists.
func (h *Header) Lookup(name string) (string, bool) {
	if h == nil {
		return "", false
	}
	return h.m.Get(name)
}

// Del removes name.
func (h *Header) Del(name string) {
	h.m.Delete(name)
}

// Len reports the number of fields.
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return h.m.Len()
}

// Keys returns the field names in insertion order.
func (h *Header) Keys() []string {
	keys := make([]string, 0, h.Len())
	for k := range h.All() {
		keys = append(keys, k)
	}
	return keys
}

// All iterates fields in insertion order.
func (h *Header) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if h == nil {
			return
		}
		for pair := h.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Clone returns an independent copy preserving order.
func (h *Header) Clone() *Header {
	c := NewHeader()
	for k, v := range h.All() {
		c.Set(k, v)
	}
	return c
}

