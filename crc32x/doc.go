// Package crc32x computes the bit-reflected CRC-32 used by the bootloader
// ISP protocol and its host tooling.
//
// It is not the IEEE 802.3 CRC-32 implemented by the standard library's
// hash/crc32: the bootloader ROM bit-bangs its CRC engine MSB-first with
// byte- and word-reversal applied around a plain shift-register core, and
// pads an unaligned tail with 0xFF rather than zero. Engine matches that
// hardware bit-for-bit so a firmware image's CRC agrees between this tool,
// the bootloader ROM, and the reference Python host it replaces.
package crc32x
