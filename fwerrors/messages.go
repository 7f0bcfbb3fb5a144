package fwerrors

var messages = map[Errno]string{
	// MapReader
	MapUnreadable: "cannot open map file (%s): %v",
	MapMalformed:  "error processing map file (%s): %v",

	// Relocator
	ImageTooSmall:    "binary is smaller than the vector table (%d < %d bytes)",
	BinUnreadable:    "cannot open firmware binary (%s): %v",
	OutputUnwritable: "cannot write relocated binary (%s): %v",

	// transport / serial
	SerialOpenFailed: "cannot open serial port %s at %d baud: %v",
	SerialClosed:     "serial port is closed",
	SerialIOFailed:   "serial I/O error: %v",

	// UART framing
	FrameMalformed: "frame malformed: %s",
	FrameTooShort:  "frame too short (got %d, want %d bytes)",
	ChecksumMismatch: "frame checksum mismatch: got %#02x, want %#02x",

	// host session
	ConnectTimeout:      "MCU did not respond to CMD_CONNECT within %v",
	MetadataRejected:    "MCU rejected metadata, status=%#02x",
	ResendExhausted:     "packet %d still rejected after %d resend attempts",
	UnexpectedResponse:  "unexpected response for command %#02x: %v",

	// config
	ConfigUnreadable: "cannot read config file (%s): %v",
	ConfigMalformed:  "error parsing config file (%s): %v",
}
