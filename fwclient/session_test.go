package fwclient_test

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blin/nuc1261-fwreloc/fwclient"
	"github.com/blin/nuc1261-fwreloc/uartframe"
)

// fakePort is a transport.Port that scripts one reply per call to TxRx,
// recording every frame it was asked to send.
type fakePort struct {
	replies [][]byte
	calls   int
	sent    [][]byte
}

func (f *fakePort) TxRx(frame []byte, frameSize int, timeout time.Duration) ([]byte, error) {
	f.sent = append(f.sent, append([]byte{}, frame...))
	if f.calls >= len(f.replies) {
		return make([]byte, frameSize), nil
	}
	r := f.replies[f.calls]
	f.calls++
	return r, nil
}

func (f *fakePort) Close() error { return nil }

func connectReply() []byte {
	b := uartframe.ApplicationBuilder().Build(0x01, fwclient.CmdConnect, 0, nil)
	return b[:]
}

func metadataReply(addr uint32, status byte) []byte {
	payload := make([]byte, 5)
	binary.LittleEndian.PutUint32(payload[0:4], addr)
	payload[4] = status
	b := uartframe.ApplicationBuilder().Build(0x01, fwclient.CmdUpdateMetadata, 2, payload)
	return b[:]
}

func ackReply() []byte {
	b := uartframe.ApplicationBuilder().Build(0x01, 0x00, 0, nil)
	return b[:]
}

func resendReply() []byte {
	b := uartframe.ApplicationBuilder().Build(0x01, fwclient.CmdResendPacket, 0, nil)
	return b[:]
}

func TestConnectSucceeds(t *testing.T) {
	port := &fakePort{replies: [][]byte{connectReply()}}
	s := fwclient.NewSession(port, 0x01)

	if err := s.Connect(time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConnectFailsOnNoEcho(t *testing.T) {
	port := &fakePort{replies: [][]byte{ackReply()}}
	s := fwclient.NewSession(port, 0x01)

	if err := s.Connect(time.Second); err == nil {
		t.Fatal("expected an error when the MCU does not echo CMD_CONNECT")
	}
}

func TestSendUpdateMetadataParsesOffsetAndStatus(t *testing.T) {
	port := &fakePort{replies: [][]byte{metadataReply(0x8000, 0)}}
	s := fwclient.NewSession(port, 0x01)

	mr, err := s.SendUpdateMetadata(1, 0x01020304, 0xDEADBEEF, 4096, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mr.UpdateAddr != 0x8000 {
		t.Errorf("UpdateAddr = %#x, want 0x8000", mr.UpdateAddr)
	}
	if mr.Status != 0 {
		t.Errorf("Status = %#x, want 0", mr.Status)
	}
}

func TestSendUpdateMetadataRejectedStatus(t *testing.T) {
	port := &fakePort{replies: [][]byte{metadataReply(0x8000, 0x01)}}
	s := fwclient.NewSession(port, 0x01)

	_, err := s.SendUpdateMetadata(1, 0x01020304, 0xDEADBEEF, 4096, time.Second)
	if err == nil {
		t.Fatal("expected an error for a non-zero metadata status")
	}
}

func TestSendFirmwareHandlesResend(t *testing.T) {
	port := &fakePort{replies: [][]byte{
		ackReply(),    // first chunk (CmdUpdateAprom)
		resendReply(), // second chunk rejected once
		ackReply(),    // second chunk accepted on retry
	}}
	s := fwclient.NewSession(port, 0x01)

	data := make([]byte, 150)
	if err := s.SendFirmware(3, data, time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if port.calls != 3 {
		t.Errorf("expected 3 TxRx calls (1 first chunk + 1 resend + 1 retry), got %d", port.calls)
	}
}

func writeMinimalMap(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fw.map")
	content := "Memory Map of the image\n\n" +
		fmt.Sprintf("    0x%08x   0x%08x   0x%08x   %s   RO          %d    *  %s   obj.o\n", 0, 0, 0x1000, "Code", 1, ".text")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write map file: %v", err)
	}
	return path
}

func TestNegotiateAndUploadRelocatesToMCUChosenOffset(t *testing.T) {
	port := &fakePort{replies: [][]byte{
		metadataReply(0x8000, 0), // probe: learn the bank offset
		metadataReply(0x8000, 0), // re-send with real CRC/size
		ackReply(),               // first firmware chunk
	}}
	s := fwclient.NewSession(port, 0x01)

	img := make([]byte, 0x1000)
	mapPath := writeMinimalMap(t)

	result, err := s.NegotiateAndUpload(img, "fw.bin", mapPath, 0, 0, 0x00010000, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.UpdateAddr != 0x8000 {
		t.Errorf("UpdateAddr = %#x, want 0x8000", result.UpdateAddr)
	}
	if result.Relocated == nil || len(result.Relocated.Bytes) != len(img) {
		t.Errorf("expected a relocated image of length %d", len(img))
	}
	if port.calls != 3 {
		t.Errorf("expected 3 scripted replies consumed (probe, re-send, first chunk), got %d", port.calls)
	}
}

func TestSendFirmwareResendExhausted(t *testing.T) {
	replies := [][]byte{ackReply()}
	for i := 0; i < fwclient.MaxResends+1; i++ {
		replies = append(replies, resendReply())
	}
	port := &fakePort{replies: replies}
	s := fwclient.NewSession(port, 0x01)

	data := make([]byte, 150)
	err := s.SendFirmware(3, data, time.Second)
	if err == nil {
		t.Fatal("expected ResendExhausted once MaxResends is exceeded")
	}
}
