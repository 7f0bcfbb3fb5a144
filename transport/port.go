package transport

import (
	"time"

	"go.bug.st/serial"

	"github.com/blin/nuc1261-fwreloc/fwerrors"
	"github.com/blin/nuc1261-fwreloc/logger"
)

// Port is a UART link carrying fixed-size frames. It is satisfied by
// *Serial and by any fake a test substitutes in its place.
type Port interface {
	TxRx(frame []byte, frameSize int, timeout time.Duration) ([]byte, error)
	Close() error
}

// Serial is a Port backed by a real serial device.
type Serial struct {
	port serial.Port
	name string
}

// Open opens portName at baud and returns a ready-to-use Serial port.
func Open(portName string, baud int) (*Serial, error) {
	mode := &serial.Mode{BaudRate: baud}
	p, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fwerrors.Wrap(fwerrors.SerialOpenFailed, err, portName, baud)
	}
	// A short read deadline lets TxRx poll in a tight loop up to its own
	// timeout, matching the upstream tool's non-blocking read pattern.
	if err := p.SetReadTimeout(50 * time.Millisecond); err != nil {
		p.Close()
		return nil, fwerrors.Wrap(fwerrors.SerialOpenFailed, err, portName, baud)
	}
	return &Serial{port: p, name: portName}, nil
}

// TxRx writes frame, then reads until frameSize bytes have been
// accumulated or timeout elapses, returning whatever was read.
func (s *Serial) TxRx(frame []byte, frameSize int, timeout time.Duration) ([]byte, error) {
	if s.port == nil {
		return nil, fwerrors.New(fwerrors.SerialClosed)
	}
	if _, err := s.port.Write(frame); err != nil {
		return nil, fwerrors.Wrap(fwerrors.SerialIOFailed, err)
	}
	logger.Logf(logger.Allow, "transport", "tx % x", frame)

	resp := make([]byte, 0, frameSize)
	deadline := time.Now().Add(timeout)
	chunk := make([]byte, frameSize)
	for len(resp) < frameSize && time.Now().Before(deadline) {
		n, err := s.port.Read(chunk[:frameSize-len(resp)])
		if err != nil {
			return resp, fwerrors.Wrap(fwerrors.SerialIOFailed, err)
		}
		if n > 0 {
			resp = append(resp, chunk[:n]...)
		}
	}
	logger.Logf(logger.Allow, "transport", "rx % x", resp)
	return resp, nil
}

// Close releases the underlying serial handle.
func (s *Serial) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}
