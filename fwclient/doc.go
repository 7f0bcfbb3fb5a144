// Package fwclient drives the bootloader ISP upload session: connect,
// negotiate a flash-bank offset via a metadata handshake, then stream
// the relocated firmware image in fixed-size chunks with bounded
// resend handling.
//
// The metadata response carries an explicit status byte distinct from
// the flash offset it accompanies — the upstream tool this protocol was
// adapted from read status as the low byte of the very field it had
// just unpacked as the offset, which happened to work only because nothing
// ever set that byte independently. Session.SendUpdateMetadata gives
// status its own field so the two can vary independently.
package fwclient
