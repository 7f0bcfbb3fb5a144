package fwclient

import (
	"encoding/binary"
	"time"

	"github.com/blin/nuc1261-fwreloc/crc32x"
	"github.com/blin/nuc1261-fwreloc/fwerrors"
	"github.com/blin/nuc1261-fwreloc/logger"
	"github.com/blin/nuc1261-fwreloc/relocate"
	"github.com/blin/nuc1261-fwreloc/transport"
	"github.com/blin/nuc1261-fwreloc/uartframe"
)

// MetadataResponse is the MCU's reply to an update-metadata packet: the
// flash offset it has chosen for the incoming image, and an explicit
// acceptance status.
type MetadataResponse struct {
	UpdateAddr uint32
	Status     byte
}

// Session drives one bootloader ISP upload over a transport.Port.
type Session struct {
	port     transport.Port
	centerID byte
	builder  uartframe.Builder
}

// NewSession returns a Session addressed to centerID over port.
func NewSession(port transport.Port, centerID byte) *Session {
	return &Session{port: port, centerID: centerID, builder: uartframe.BootloaderBuilder()}
}

// Connect sends CMD_CONNECT and waits for the MCU to echo it back.
func (s *Session) Connect(timeout time.Duration) error {
	pkt := s.builder.Build(s.centerID, CmdConnect, 0, nil)
	resp, err := s.port.TxRx(pkt[:], uartframe.Size, timeout)
	if err != nil {
		return err
	}
	if len(resp) < 3 || resp[2] != CmdConnect {
		return fwerrors.New(fwerrors.ConnectTimeout, timeout)
	}
	logger.Log(logger.Allow, "fwclient", "connected")
	return nil
}

// SendUpdateMetadata sends the image's version, CRC-32, and size, and
// returns the MCU's chosen flash offset and acceptance status. A
// non-zero status is returned as a MetadataRejected error alongside the
// parsed response, so the caller can still inspect what the MCU sent.
func (s *Session) SendUpdateMetadata(seq byte, fwVersion, fwCRC, fwSize uint32, timeout time.Duration) (MetadataResponse, error) {
	payload := make([]byte, 12)
	binary.LittleEndian.PutUint32(payload[0:4], fwVersion)
	binary.LittleEndian.PutUint32(payload[4:8], fwCRC)
	binary.LittleEndian.PutUint32(payload[8:12], fwSize)

	pkt := s.builder.Build(s.centerID, CmdUpdateMetadata, seq, payload)
	resp, err := s.port.TxRx(pkt[:], uartframe.Size, timeout)
	if err != nil {
		return MetadataResponse{}, err
	}
	if len(resp) < uartframe.Size {
		return MetadataResponse{}, fwerrors.New(fwerrors.UnexpectedResponse, CmdUpdateMetadata, len(resp))
	}

	metaPayload := resp[4:98]
	mr := MetadataResponse{
		UpdateAddr: binary.LittleEndian.Uint32(metaPayload[0:4]),
		Status:     metaPayload[4],
	}
	logger.Logf(logger.Allow, "fwclient", "metadata response offset=%#08x status=%#02x", mr.UpdateAddr, mr.Status)

	if mr.Status != 0 {
		return mr, fwerrors.New(fwerrors.MetadataRejected, mr.Status)
	}
	return mr, nil
}

// UploadResult reports what NegotiateAndUpload actually shipped: the
// bank offset the MCU assigned and the relocated image's outcome.
type UploadResult struct {
	UpdateAddr uint32
	Relocated  *relocate.Result
	CRC32      uint32
}

// NegotiateAndUpload drives the full bootloader update flow: it learns
// the flash bank offset the MCU has chosen for the incoming image with
// an all-zero probe metadata packet, relocates binBytes to that offset,
// recomputes its CRC-32, re-sends metadata with the real values, and
// streams the relocated image.
//
// This mirrors the bootloader host's two-phase handshake: the target
// offset is not known until the MCU replies to the first metadata
// packet, so the image cannot be relocated until after that exchange.
func (s *Session) NegotiateAndUpload(binBytes []byte, binName, mapPath string, originalBase, vectorTableSize, fwVersion uint32, timeout time.Duration) (UploadResult, error) {
	probe, err := s.SendUpdateMetadata(0, 0, 0, 0, timeout)
	if err != nil {
		return UploadResult{}, err
	}

	result, err := relocate.Relocate(binBytes, binName, mapPath, originalBase, probe.UpdateAddr, vectorTableSize)
	if err != nil {
		return UploadResult{}, err
	}

	sum := crc32x.Sum(result.Bytes)
	if _, err := s.SendUpdateMetadata(1, fwVersion, sum, uint32(len(result.Bytes)), timeout); err != nil {
		return UploadResult{}, err
	}

	if err := s.SendFirmware(2, result.Bytes, timeout); err != nil {
		return UploadResult{}, err
	}

	logger.Logf(logger.Allow, "fwclient", "uploaded %d bytes to %#08x, crc32=%#08x", len(result.Bytes), probe.UpdateAddr, sum)
	return UploadResult{UpdateAddr: probe.UpdateAddr, Relocated: result, CRC32: sum}, nil
}

// SendFirmware streams data in chunkSize pieces starting at seqStart.
// The first chunk is sent with CmdUpdateAprom, the rest with
// CmdWriteFirmware. A chunk the MCU answers with CmdResendPacket is
// retransmitted up to MaxResends times before the session fails with
// ResendExhausted.
func (s *Session) SendFirmware(seqStart byte, data []byte, timeout time.Duration) error {
	total := len(data)
	seq := seqStart

	first := data[:min(chunkSize, total)]
	pkt := s.builder.Build(s.centerID, CmdUpdateAprom, seq, first)
	if _, err := s.port.TxRx(pkt[:], uartframe.Size, timeout); err != nil {
		return err
	}
	offset := len(first)
	seq++

	for offset < total {
		end := min(offset+chunkSize, total)
		chunk := data[offset:end]

		for resends := 0; ; resends++ {
			pkt := s.builder.Build(s.centerID, CmdWriteFirmware, seq, chunk)
			resp, err := s.port.TxRx(pkt[:], uartframe.Size, timeout)
			if err != nil {
				return err
			}
			if len(resp) >= 3 && resp[2] == CmdResendPacket {
				if resends >= MaxResends {
					return fwerrors.New(fwerrors.ResendExhausted, seq, MaxResends)
				}
				logger.Logf(logger.Allow, "fwclient", "MCU requested resend of packet %d (attempt %d)", seq, resends+1)
				continue
			}
			break
		}

		offset = end
		seq++
	}
	return nil
}
