// Package fwerrors is a helper package for the error type used throughout
// this toolkit. It defines the Error type, an implementation of the error
// interface, that lets code create errors from a fixed vocabulary of
// causes (an Errno) without every call site inventing its own message
// string.
//
// The relocation core (spec §7) has a small, closed set of fatal Errno
// values: ImageTooSmall, MapUnreadable, BinUnreadable, OutputUnwritable.
// relocate.Relocate raises ImageTooSmall, and MapUnreadable or MapMalformed
// through mapfile; it takes the image as bytes and writes no file, so no
// package in this toolkit raises BinUnreadable or OutputUnwritable.
// The host-session clients extend the same enum with transport-layer
// causes (SerialOpenFailed, ConnectTimeout, ChecksumMismatch, ...).
package fwerrors
