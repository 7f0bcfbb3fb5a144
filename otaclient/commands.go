package otaclient

// Application command bytes.
const (
	CmdOTAUpdate    = 0xA7
	CmdToBootloader = 0xAE
	CmdSwitchFW     = 0xAD
	CmdReportStatus = 0xAF
)

// OTA status flag values carried in FWStatus.Status.
const (
	OTAUpdateFlag = 0xDDCCBBAA
	SwitchFWFlag  = 0xA5A5BEEF
	OTAFailedFlag = 0xDEADDEAD
)

// FWMetadata.Flags bit positions.
const (
	FWFlagInvalid = 1 << 0
	FWFlagValid   = 1 << 1
	FWFlagPending = 1 << 2
	FWFlagActive  = 1 << 3
)
