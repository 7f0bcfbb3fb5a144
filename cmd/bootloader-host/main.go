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

// bootloader-host drives a NUC1261 ISP bootloader session: it connects
// over UART, negotiates the flash bank offset the bootloader has chosen,
// relocates a firmware image to that offset, and streams it up.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/blin/nuc1261-fwreloc/config"
	"github.com/blin/nuc1261-fwreloc/fwclient"
	"github.com/blin/nuc1261-fwreloc/logger"
	"github.com/blin/nuc1261-fwreloc/modalflag"
	"github.com/blin/nuc1261-fwreloc/paths"
	"github.com/blin/nuc1261-fwreloc/statsview"
	"github.com/blin/nuc1261-fwreloc/transport"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("FLASH", "CONNECT-ONLY")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return
	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "FLASH":
		err = flash(md)
	case "CONNECT-ONLY":
		err = connectOnly(md)
	}
	if err != nil {
		fmt.Printf("* error in %s mode: %v\n", md.String(), err)
		os.Exit(20)
	}
}

// commonFlags registers the flags every submode needs to open a
// session: which config file to load, whether to echo the log, and
// whether to launch the statsview dashboard.
func commonFlags(md *modalflag.Modes) (cfgPath *string, echoLog *bool, dashboard *bool) {
	cfgPath = md.AddString("config", paths.ResourcePath("config.yaml"), "path to YAML config file")
	echoLog = md.AddBool("log", false, "echo debugging log to stdout")
	dashboard = md.AddBool("dashboard", false, "launch the statsview goroutine/memory dashboard")
	return
}

// openSession loads cfg, applies the -log/-dashboard flags, opens the
// serial transport, and returns a ready-to-use bootloader session. It
// must be called only after md.Parse() has already run for the mode.
func openSession(cfgPath string, echoLog, dashboard bool) (*fwclient.Session, config.Config, error) {
	if echoLog {
		logger.SetEcho(os.Stdout)
	}
	if dashboard && statsview.Available() {
		statsview.Launch(os.Stdout)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, config.Config{}, err
	}

	port, err := transport.Open(cfg.Port, cfg.Baud)
	if err != nil {
		return nil, config.Config{}, err
	}

	return fwclient.NewSession(port, cfg.CenterID), cfg, nil
}

func connectOnly(md *modalflag.Modes) error {
	md.NewMode()
	cfgPath, echoLog, dashboard := commonFlags(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	s, _, err := openSession(*cfgPath, *echoLog, *dashboard)
	if err != nil {
		return err
	}
	return s.Connect(2 * time.Second)
}

func flash(md *modalflag.Modes) error {
	md.NewMode()
	cfgPath, echoLog, dashboard := commonFlags(md)

	binPath := md.AddString("bin", "", "path to the firmware image to flash")
	mapPath := md.AddString("map", "", "path to the linker map file for -bin")
	fwVersion := md.AddUint("version", 1, "firmware version word reported to the bootloader")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *binPath == "" || *mapPath == "" {
		return fmt.Errorf("both -bin and -map are required for %s mode", md)
	}

	binBytes, err := os.ReadFile(*binPath)
	if err != nil {
		return fmt.Errorf("cannot read firmware image: %w", err)
	}

	s, cfg, err := openSession(*cfgPath, *echoLog, *dashboard)
	if err != nil {
		return err
	}

	if err := s.Connect(2 * time.Second); err != nil {
		return err
	}

	result, err := s.NegotiateAndUpload(binBytes, *binPath, *mapPath, cfg.OriginalBase, cfg.VectorTableSize, uint32(*fwVersion), 5*time.Second)
	if err != nil {
		return err
	}

	fmt.Printf("flashed %d bytes to %#08x (crc32=%#08x)\n", len(result.Relocated.Bytes), result.UpdateAddr, result.CRC32)
	if result.Relocated.OutputHint != "" {
		if err := os.WriteFile(result.Relocated.OutputHint, result.Relocated.Bytes, 0o644); err == nil {
			fmt.Printf("wrote relocated image to %s\n", result.Relocated.OutputHint)
		}
	}
	return nil
}
