package otaclient

import (
	"time"

	"github.com/blin/nuc1261-fwreloc/fwerrors"
	"github.com/blin/nuc1261-fwreloc/logger"
	"github.com/blin/nuc1261-fwreloc/transport"
	"github.com/blin/nuc1261-fwreloc/uartframe"
)

// Session drives the application OTA/status protocol over a
// transport.Port.
type Session struct {
	port     transport.Port
	centerID byte
	builder  uartframe.Builder
}

// NewSession returns a Session addressed to centerID over port.
func NewSession(port transport.Port, centerID byte) *Session {
	return &Session{port: port, centerID: centerID, builder: uartframe.ApplicationBuilder()}
}

// send issues a bare command (no payload) and returns the parsed,
// checksum-validated response frame.
func (s *Session) send(cmd byte, timeout time.Duration) (uartframe.Frame, error) {
	pkt := s.builder.Build(s.centerID, cmd, 0, nil)
	resp, err := s.port.TxRx(pkt[:], uartframe.Size, timeout)
	if err != nil {
		return uartframe.Frame{}, err
	}
	f, err := uartframe.Parse(resp, uartframe.ChecksumXOR)
	if err != nil {
		return uartframe.Frame{}, fwerrors.Wrap(fwerrors.UnexpectedResponse, err, cmd)
	}
	return f, nil
}

// ReportStatus issues CMD_REPORT_STATUS and decodes the status record
// plus both firmware-bank metadata records it carries.
func (s *Session) ReportStatus(timeout time.Duration) (FWStatus, FWMetadata, FWMetadata, error) {
	f, err := s.send(CmdReportStatus, timeout)
	if err != nil {
		return FWStatus{}, FWMetadata{}, FWMetadata{}, err
	}
	status := ParseFWStatus(f.Payload[0:12])
	meta1 := ParseFWMetadata(f.Payload[16:48])
	meta2 := ParseFWMetadata(f.Payload[48:80])
	logger.Logf(logger.Allow, "otaclient", "status=%#08x (%s)", status.Status, status.OTAFlagDescription())
	return status, meta1, meta2, nil
}

// OTAUpdate issues CMD_OTA_UPDATE and decodes the status record it
// returns.
func (s *Session) OTAUpdate(timeout time.Duration) (FWStatus, error) {
	f, err := s.send(CmdOTAUpdate, timeout)
	if err != nil {
		return FWStatus{}, err
	}
	return ParseFWStatus(f.Payload[0:12]), nil
}

// ToBootloader issues CMD_TO_BOOTLOADER and decodes the status record
// and the active bank's metadata.
func (s *Session) ToBootloader(timeout time.Duration) (FWStatus, FWMetadata, error) {
	f, err := s.send(CmdToBootloader, timeout)
	if err != nil {
		return FWStatus{}, FWMetadata{}, err
	}
	status := ParseFWStatus(f.Payload[0:12])
	meta := ParseFWMetadata(f.Payload[16:48])
	return status, meta, nil
}

// SwitchFirmware issues CMD_SWITCH_FW and decodes the status record
// plus both firmware-bank metadata records.
func (s *Session) SwitchFirmware(timeout time.Duration) (FWStatus, FWMetadata, FWMetadata, error) {
	f, err := s.send(CmdSwitchFW, timeout)
	if err != nil {
		return FWStatus{}, FWMetadata{}, FWMetadata{}, err
	}
	status := ParseFWStatus(f.Payload[0:12])
	meta1 := ParseFWMetadata(f.Payload[16:48])
	meta2 := ParseFWMetadata(f.Payload[48:80])
	return status, meta1, meta2, nil
}
