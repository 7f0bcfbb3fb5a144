package mapfile

import (
	"bufio"
	"os"
	"regexp"
	"strconv"

	"github.com/blin/nuc1261-fwreloc/fwerrors"
)

// Kind classifies the purpose of a Section.
type Kind int

// The kinds recognised by the relocator. Anything the map file reports
// that isn't Code, Data or Zero collapses to Other and takes part in
// neither ExecRanges nor DataRanges.
const (
	Other Kind = iota
	Code
	Data
	Zero
)

func parseKind(word string) Kind {
	switch word {
	case "Code":
		return Code
	case "Data":
		return Data
	case "Zero":
		return Zero
	default:
		return Other
	}
}

// Section is a named region from the map file.
type Section struct {
	Name  string
	Start uint32
	Size  uint32
	Kind  Kind
}

// End returns the address one past the last byte of the section.
func (s Section) End() uint32 {
	return s.Start + s.Size
}

// Symbol is reserved for future use; the map file grammar for symbol
// entries is not yet implemented.
type Symbol struct {
	Name    string
	Address uint32
}

// sectionLine matches a single section-describing map file line:
//
//	<addr> <ignored> <size> <kind> <align> <n> <file> <section>
//
// e.g. "0x00000000   0x00000000   0x000000c0   Code   RO   1   *   RESET   startup.o"
var sectionLine = regexp.MustCompile(
	`^\s*(0x[0-9A-Fa-f]+)\s+(0x[0-9A-Fa-f-]+)\s+(0x[0-9A-Fa-f]+)\s+(\w+)\s+\w+\s+\d+\s+\S+\s+([.\w$]+)`,
)

// Parse scans a linker map file line by line, returning the classified
// section table. Lines that don't match the section grammar are skipped
// silently: map files carry many other kinds of listing (symbol tables,
// cross references) that this reader has no need to understand.
//
// Duplicate section names overwrite earlier entries, matching the
// toolchain convention that a later occurrence in the map supersedes an
// earlier one.
func Parse(path string) (map[string]Section, []Symbol, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fwerrors.Wrap(fwerrors.MapUnreadable, err, path)
	}
	defer f.Close()

	sections := make(map[string]Section)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := sectionLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}

		addr, err := strconv.ParseUint(m[1], 0, 32)
		if err != nil {
			continue
		}
		size, err := strconv.ParseUint(m[3], 0, 32)
		if err != nil {
			continue
		}

		name := m[5]
		sections[name] = Section{
			Name:  name,
			Start: uint32(addr),
			Size:  uint32(size),
			Kind:  parseKind(m[4]),
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fwerrors.Wrap(fwerrors.MapMalformed, err, path)
	}

	return sections, nil, nil
}

// AddressRange is a half-open interval [Start, End).
type AddressRange struct {
	Start uint32
	End   uint32
}

// Contains reports whether addr falls within the range.
func (r AddressRange) Contains(addr uint32) bool {
	return addr >= r.Start && addr < r.End
}

// ExecutableRanges selects the address ranges of every Code section —
// the region into which a valid code pointer may point.
func ExecutableRanges(sections map[string]Section) []AddressRange {
	var ranges []AddressRange
	for _, s := range sections {
		if s.Kind == Code {
			ranges = append(ranges, AddressRange{Start: s.Start, End: s.End()})
		}
	}
	return ranges
}

// DataRanges selects the address ranges of every Data or Zero section —
// the region into which a valid data pointer may point.
func DataRanges(sections map[string]Section) []AddressRange {
	var ranges []AddressRange
	for _, s := range sections {
		if s.Kind == Data || s.Kind == Zero {
			ranges = append(ranges, AddressRange{Start: s.Start, End: s.End()})
		}
	}
	return ranges
}

// Contains reports whether addr lies in any of ranges. A linear scan is
// acceptable: map files describe at most a few dozen sections.
func Contains(ranges []AddressRange, addr uint32) bool {
	for _, r := range ranges {
		if r.Contains(addr) {
			return true
		}
	}
	return false
}
