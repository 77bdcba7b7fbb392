// Package codec maps application values to the bytes stored by the cloudkv
// service and back again. The content type stored next to every value is the
// single source of truth for how a value was written.
//
// The package focuses on:
//   - A closed set of value kinds (text, binary and structured)
//   - Symmetric decoding keyed by content type and a target Go type
//   - A per-client cache of type adapters used for structured values
//
// Key Components:
//
//   - Value: Sum type describing how a value should be written. Text values
//     are sent as UTF-8 with the "text/plain" content type, Binary values are
//     sent unchanged without a content type and structured values created with
//     JSON are serialized as JSON under the StructuredContentType sentinel.
//
//   - Decode: Generic decoder returning a typed value (or a default when the
//     key was absent). Structured payloads are validated against the target
//     type, raw payloads can be read as []byte, string or *bytes.Buffer.
//
//   - Registry: Injectable cache of type adapters keyed by reflect.Type. The
//     registry is unbounded by default and can be bounded with an LRU policy.
//
// Usage:
//
//	reg := codec.NewRegistry(0)
//	data, contentType, _ := codec.Encode(reg, codec.JSON([]int{1, 2, 3}))
//	ints, _ := codec.Decode[[]int](reg, data, contentType, nil, false)
//
// Thread Safety:
//
//	Encode, Decode and the Registry are safe for concurrent use.
package codec
