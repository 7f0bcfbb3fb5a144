// This file is part of nuc1261-fwreloc.
//
// nuc1261-fwreloc is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// nuc1261-fwreloc is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with nuc1261-fwreloc.  If not, see <https://www.gnu.org/licenses/>.

// ota-host drives the application-side OTA protocol: reporting flash
// bank status, kicking off an OTA update, dropping to the bootloader,
// or switching the active firmware bank. With no submode it falls back
// to an interactive cbreak-mode menu; with one, it runs that action
// once and exits, for scripting.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/blin/nuc1261-fwreloc/config"
	"github.com/blin/nuc1261-fwreloc/logger"
	"github.com/blin/nuc1261-fwreloc/menu"
	"github.com/blin/nuc1261-fwreloc/modalflag"
	"github.com/blin/nuc1261-fwreloc/otaclient"
	"github.com/blin/nuc1261-fwreloc/paths"
	"github.com/blin/nuc1261-fwreloc/statsview"
	"github.com/blin/nuc1261-fwreloc/transport"
)

const requestTimeout = 2 * time.Second

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("MENU", "STATUS", "OTA", "BOOTLOADER", "SWITCH")

	cfgPath := md.AddString("config", paths.ResourcePath("config.yaml"), "path to YAML config file")
	echoLog := md.AddBool("log", false, "echo debugging log to stdout")
	dashboard := md.AddBool("dashboard", false, "launch the statsview goroutine/memory dashboard")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return
	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	if *echoLog {
		logger.SetEcho(os.Stdout)
	}
	if *dashboard && statsview.Available() {
		statsview.Launch(os.Stdout)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Printf("* error loading config: %v\n", err)
		os.Exit(20)
	}

	port, err := transport.Open(cfg.Port, cfg.Baud)
	if err != nil {
		fmt.Printf("* error opening serial port: %v\n", err)
		os.Exit(20)
	}
	s := otaclient.NewSession(port, cfg.CenterID)

	switch md.Mode() {
	case "STATUS":
		err = reportStatus(s)
	case "OTA":
		err = otaUpdate(s)
	case "BOOTLOADER":
		err = toBootloader(s)
	case "SWITCH":
		err = switchFirmware(s)
	case "MENU":
		err = interactiveMenu(s)
	}
	if err != nil {
		fmt.Printf("* error in %s mode: %v\n", md.String(), err)
		os.Exit(20)
	}
}

func reportStatus(s *otaclient.Session) error {
	status, meta1, meta2, err := s.ReportStatus(requestTimeout)
	if err != nil {
		return err
	}
	fmt.Printf("status: %#08x (%s)\n", status.Status, status.OTAFlagDescription())
	fmt.Printf("bank 1: flags=%s crc32=%#08x version=%#08x\n", meta1.FlagsDescription(), meta1.FWCRC32, meta1.FWVersion)
	fmt.Printf("bank 2: flags=%s crc32=%#08x version=%#08x\n", meta2.FlagsDescription(), meta2.FWCRC32, meta2.FWVersion)
	return nil
}

func otaUpdate(s *otaclient.Session) error {
	status, err := s.OTAUpdate(requestTimeout)
	if err != nil {
		return err
	}
	fmt.Printf("OTA update requested, status=%#08x (%s)\n", status.Status, status.OTAFlagDescription())
	return nil
}

func toBootloader(s *otaclient.Session) error {
	status, meta, err := s.ToBootloader(requestTimeout)
	if err != nil {
		return err
	}
	fmt.Printf("dropping to bootloader, status=%#08x active bank flags=%s\n", status.Status, meta.FlagsDescription())
	return nil
}

func switchFirmware(s *otaclient.Session) error {
	status, meta1, meta2, err := s.SwitchFirmware(requestTimeout)
	if err != nil {
		return err
	}
	fmt.Printf("switched active bank, status=%#08x\n", status.Status)
	fmt.Printf("bank 1: %s   bank 2: %s\n", meta1.FlagsDescription(), meta2.FlagsDescription())
	return nil
}

func interactiveMenu(s *otaclient.Session) error {
	var t menu.Terminal
	if err := t.Open(os.Stdin, os.Stdout); err != nil {
		return err
	}

	items := []menu.Item{
		{Key: 's', Label: "report status", Action: func() error { return reportStatus(s) }},
		{Key: 'o', Label: "start OTA update", Action: func() error { return otaUpdate(s) }},
		{Key: 'b', Label: "drop to bootloader", Action: func() error { return toBootloader(s) }},
		{Key: 'w', Label: "switch active firmware bank", Action: func() error { return switchFirmware(s) }},
	}
	return t.Run(items)
}
