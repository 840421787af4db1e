// Package cbor implements a Concise Binary Object Representation codec
// (RFC 8949) built from scratch rather than wrapped around an existing
// CBOR library.
//
// Supported:
//   - All eight major types, definite and indefinite length.
//   - Half/single/double precision floats, including the canonical
//     half-precision forms for NaN, +Inf, -Inf and -0.0.
//   - Arbitrary-precision integers (tags 2/3), decimal fractions and
//     bigfloats (tags 4/5).
//   - The tag registry in RFC 8949/8746: dates (tags 0/1), base64/base16
//     views, URIs, regular expressions, sets, and the RFC 8746 typed
//     numeric array tags (64-87). The RFC 8943 date tags (100, 1004) are
//     not interpreted and decode as a plain Tag.
//   - Loop detection during encoding of cyclic Go values.
//
// Unsupported:
//   - Canonical/deterministic encoding (EncodeCanonical always returns
//     ErrCanonicalNotImplemented).
//   - Streaming decode with backpressure; DecodeFirstSync/DecodeAllSync
//     operate on an in-memory byte slice.
//   - Schema validation or depth-limited hardened parsing.
package cbor
