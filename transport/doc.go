// Package transport opens and drives the UART link to the MCU. It wraps
// go.bug.st/serial with the fixed-frame read/write behaviour both host
// sessions (bootloader ISP and application OTA) depend on: write exactly
// one frame, then read until either a full frame has arrived or a
// deadline elapses.
package transport
