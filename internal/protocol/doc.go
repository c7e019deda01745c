// Package protocol owns the ctags wire contract and its line codec.
//
// Ownership boundary:
// - request/reply message variants
// - externally tagged JSON line encoding
// - request decoding and the unknown-variant fallback
//
// Payload bytes that follow a request line are not this package's concern;
// see package frame.
package protocol
