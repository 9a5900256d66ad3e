// Package ir holds the small value types shared across the translator's
// components (B, D, E, F, G) so those packages don't need to import one
// another's internals.
package ir

import "google.golang.org/protobuf/encoding/protowire"

// WireType is the 3-bit protobuf wire-format tag suffix (spec glossary:
// "Wire type").
type WireType uint8

const (
	WireVarint          WireType = 0
	WireFixed64         WireType = 1
	WireLengthDelimited WireType = 2
	WireFixed32         WireType = 5
)

// Tag computes the protobuf wire tag for a field number and wire type:
// (number << 3) | wireType. Delegates to protowire rather than duplicating
// the shift-and-mask by hand, so the core's tag arithmetic is checked
// against the canonical implementation.
func Tag(number int32, wt WireType) uint32 {
	return uint32(protowire.EncodeTag(protowire.Number(number), protowire.Type(wt)))
}
