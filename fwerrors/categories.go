package fwerrors

// list of error numbers, grouped by the component that raises them.
const (
	// MapReader
	MapUnreadable Errno = iota
	MapMalformed

	// Relocator
	ImageTooSmall
	BinUnreadable
	OutputUnwritable

	// transport / serial
	SerialOpenFailed
	SerialClosed
	SerialIOFailed

	// UART framing
	FrameMalformed
	FrameTooShort
	ChecksumMismatch

	// host session (fwclient / otaclient)
	ConnectTimeout
	MetadataRejected
	ResendExhausted
	UnexpectedResponse

	// config
	ConfigUnreadable
	ConfigMalformed
)
