// Package uartframe builds and parses the 100-byte fixed-length frame
// shared by the bootloader ISP protocol and the application OTA
// protocol:
//
//	[0x55][center id][cmd][seq][94 bytes payload][checksum][0x0A]
//
// The two host sessions disagree only on how the checksum byte is
// computed: the bootloader session sums the first 98 bytes and masks to
// 8 bits, the application session XORs them. Both are provided here as
// named ChecksumFunc values so a Builder can be configured for whichever
// session it serves.
package uartframe
