// Package mime builds and parses the RFC 822/MIME representation of
// sealmail messages.
//
// Encoding produces a multipart/mixed tree whose first child is a
// multipart/related wrapper holding the body and any inline attachments;
// ordinary attachments follow as siblings. Encrypted messages replace the
// body with a fixed placeholder and carry their payload in dedicated
// secure parts.
//
// Parsing recursively partitions an arbitrary MIME tree into viewable
// parts and attachments, resolves multipart/alternative to its richest
// representation, and classifies attachments as inline either by their
// Content-Disposition or by a cid: reference from the assembled body.
// Parts that cannot be rendered are logged and dropped, never fatal.
package mime
