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

package menu

import (
	"fmt"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// Terminal puts stdin into cbreak mode for the lifetime of an
// interactive menu, then restores it to its original, canonical state.
type Terminal struct {
	input  *os.File
	output *os.File

	canAttr    unix.Termios
	cbreakAttr unix.Termios
}

// Open prepares t to read from inputFile and write prompts to
// outputFile. It does not yet change the terminal mode; call
// CBreakMode for that.
func (t *Terminal) Open(inputFile, outputFile *os.File) error {
	if inputFile == nil {
		return fmt.Errorf("menu Terminal requires an input file")
	}
	if outputFile == nil {
		return fmt.Errorf("menu Terminal requires an output file")
	}

	t.input = inputFile
	t.output = outputFile

	termios.Tcgetattr(t.input.Fd(), &t.canAttr)
	termios.Cfmakecbreak(&t.cbreakAttr)

	return nil
}

// CBreakMode puts the terminal into cbreak mode: input is available to
// reads one keypress at a time, without waiting for Enter.
func (t *Terminal) CBreakMode() {
	termios.Tcsetattr(t.input.Fd(), termios.TCIFLUSH, &t.cbreakAttr)
}

// CanonicalMode restores the terminal's normal line-buffered mode.
func (t *Terminal) CanonicalMode() {
	termios.Tcsetattr(t.input.Fd(), termios.TCIFLUSH, &t.canAttr)
}

// ReadKey reads a single byte from the terminal. Call CBreakMode first
// or this will block until Enter is pressed.
func (t *Terminal) ReadKey() (byte, error) {
	buf := make([]byte, 1)
	if _, err := t.input.Read(buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// Print writes a formatted prompt to the terminal's output file.
func (t *Terminal) Print(format string, a ...interface{}) {
	fmt.Fprintf(t.output, format, a...)
}

// Item is one selectable entry in a Run loop: pressing Key runs Action.
type Item struct {
	Key    byte
	Label  string
	Action func() error
}

// Run puts t into cbreak mode, prints items as a menu, and dispatches
// keypresses to the matching Item's Action until 'q' is pressed or an
// Action returns an error. Canonical mode is always restored on return.
func (t *Terminal) Run(items []Item) error {
	t.CBreakMode()
	defer t.CanonicalMode()

	for {
		t.Print("\r\n")
		for _, it := range items {
			t.Print("  %c) %s\r\n", it.Key, it.Label)
		}
		t.Print("  q) quit\r\n> ")

		key, err := t.ReadKey()
		if err != nil {
			return err
		}
		t.Print("\r\n")

		if key == 'q' {
			return nil
		}

		var matched bool
		for _, it := range items {
			if it.Key == key {
				matched = true
				if err := it.Action(); err != nil {
					t.Print("! %v\r\n", err)
				}
				break
			}
		}
		if !matched {
			t.Print("! unrecognised key %q\r\n", key)
		}
	}
}
