package uartframe

import "github.com/blin/nuc1261-fwreloc/fwerrors"

const (
	// Size is the fixed length of every frame.
	Size = 100

	payloadSize = 94

	startByte = 0x55
	endByte   = 0x0A

	startOffset    = 0
	centerOffset   = 1
	cmdOffset      = 2
	seqOffset      = 3
	payloadOffset  = 4
	checksumOffset = 98
	endOffset      = 99
)

// ChecksumFunc computes the checksum byte over the first 98 bytes of a
// frame (everything before the checksum byte itself).
type ChecksumFunc func(buf [Size]byte) byte

// ChecksumSum is the additive checksum used by the bootloader ISP
// session: the sum of the first 98 bytes, masked to 8 bits.
func ChecksumSum(buf [Size]byte) byte {
	var sum byte
	for _, b := range buf[:checksumOffset] {
		sum += b
	}
	return sum
}

// ChecksumXOR is the checksum used by the application OTA session: the
// XOR of the first 98 bytes.
func ChecksumXOR(buf [Size]byte) byte {
	var x byte
	for _, b := range buf[:checksumOffset] {
		x ^= b
	}
	return x
}

// Frame is a decoded 100-byte UART frame.
type Frame struct {
	CenterID byte
	Cmd      byte
	Seq      byte
	Payload  [payloadSize]byte
	Checksum byte
}

// Builder assembles frames for one side of a UART session, using a
// fixed checksum algorithm.
type Builder struct {
	Checksum ChecksumFunc
}

// BootloaderBuilder returns a Builder configured for the bootloader ISP
// session (additive checksum).
func BootloaderBuilder() Builder { return Builder{Checksum: ChecksumSum} }

// ApplicationBuilder returns a Builder configured for the application
// OTA session (XOR checksum).
func ApplicationBuilder() Builder { return Builder{Checksum: ChecksumXOR} }

// Build assembles a frame. payload longer than 94 bytes is truncated;
// shorter payload is right-padded with 0xFF.
func (b Builder) Build(centerID, cmd, seq byte, payload []byte) [Size]byte {
	var buf [Size]byte
	buf[startOffset] = startByte
	buf[centerOffset] = centerID
	buf[cmdOffset] = cmd
	buf[seqOffset] = seq

	for i := 0; i < payloadSize; i++ {
		if i < len(payload) {
			buf[payloadOffset+i] = payload[i]
		} else {
			buf[payloadOffset+i] = 0xFF
		}
	}

	buf[checksumOffset] = b.Checksum(buf)
	buf[endOffset] = endByte
	return buf
}

// Parse validates and decodes a received frame buffer. It checks the
// frame length, the fixed start/end markers, and the checksum before
// returning a Frame.
func Parse(buf []byte, checksum ChecksumFunc) (Frame, error) {
	if len(buf) != Size {
		return Frame{}, fwerrors.New(fwerrors.FrameTooShort, len(buf), Size)
	}

	var arr [Size]byte
	copy(arr[:], buf)

	if arr[startOffset] != startByte {
		return Frame{}, fwerrors.New(fwerrors.FrameMalformed, "bad start byte")
	}
	if arr[endOffset] != endByte {
		return Frame{}, fwerrors.New(fwerrors.FrameMalformed, "bad end byte")
	}

	want := checksum(arr)
	if arr[checksumOffset] != want {
		return Frame{}, fwerrors.New(fwerrors.ChecksumMismatch, arr[checksumOffset], want)
	}

	f := Frame{
		CenterID: arr[centerOffset],
		Cmd:      arr[cmdOffset],
		Seq:      arr[seqOffset],
		Checksum: arr[checksumOffset],
	}
	copy(f.Payload[:], arr[payloadOffset:checksumOffset])
	return f, nil
}
