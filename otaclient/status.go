package otaclient

import (
	"encoding/binary"
	"strings"
)

// FWStatus mirrors the MCU's three-word OTA status record.
type FWStatus struct {
	FWAddr     uint32
	FWMetaAddr uint32
	Status     uint32
}

// ParseFWStatus decodes a 12-byte FWStatus record.
func ParseFWStatus(b []byte) FWStatus {
	return FWStatus{
		FWAddr:     binary.LittleEndian.Uint32(b[0:4]),
		FWMetaAddr: binary.LittleEndian.Uint32(b[4:8]),
		Status:     binary.LittleEndian.Uint32(b[8:12]),
	}
}

// OTAFlagDescription describes the Status word as one of the known OTA
// flag values, or "Unknown" if it matches none of them.
func (s FWStatus) OTAFlagDescription() string {
	switch s.Status {
	case OTAUpdateFlag:
		return "OTA Update"
	case SwitchFWFlag:
		return "Switch Firmware"
	case OTAFailedFlag:
		return "OTA Failed"
	default:
		return "Unknown"
	}
}

// FWMetadata mirrors the MCU's eight-word firmware metadata record.
type FWMetadata struct {
	Flags        uint32
	FWCRC32      uint32
	FWVersion    uint32
	FWStartAddr  uint32
	FWSize       uint32
	TrialCounter uint32
	Reserved     uint32
	MetaCRC      uint32
}

// ParseFWMetadata decodes a 32-byte FWMetadata record.
func ParseFWMetadata(b []byte) FWMetadata {
	return FWMetadata{
		Flags:        binary.LittleEndian.Uint32(b[0:4]),
		FWCRC32:      binary.LittleEndian.Uint32(b[4:8]),
		FWVersion:    binary.LittleEndian.Uint32(b[8:12]),
		FWStartAddr:  binary.LittleEndian.Uint32(b[12:16]),
		FWSize:       binary.LittleEndian.Uint32(b[16:20]),
		TrialCounter: binary.LittleEndian.Uint32(b[20:24]),
		Reserved:     binary.LittleEndian.Uint32(b[24:28]),
		MetaCRC:      binary.LittleEndian.Uint32(b[28:32]),
	}
}

// FlagsDescription renders Flags as a pipe-separated list of the bit
// names set within it, or "None" if none are set.
func (m FWMetadata) FlagsDescription() string {
	var parts []string
	if m.Flags&FWFlagInvalid != 0 {
		parts = append(parts, "INVALID")
	}
	if m.Flags&FWFlagValid != 0 {
		parts = append(parts, "VALID")
	}
	if m.Flags&FWFlagPending != 0 {
		parts = append(parts, "PENDING")
	}
	if m.Flags&FWFlagActive != 0 {
		parts = append(parts, "ACTIVE")
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, "|")
}
