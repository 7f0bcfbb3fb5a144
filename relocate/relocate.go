package relocate

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/blin/nuc1261-fwreloc/armthumb"
	"github.com/blin/nuc1261-fwreloc/fwerrors"
	"github.com/blin/nuc1261-fwreloc/logger"
	"github.com/blin/nuc1261-fwreloc/mapfile"
)

// DefaultVectorTableSize is the Cortex-M vector table size assumed when
// the caller does not specify one: 48 vectors of 4 bytes each.
const DefaultVectorTableSize = 192

// Result is the outcome of a successful Relocate call. The caller is
// responsible for computing Bytes' CRC-32 (via crc32x) and for writing
// it to OutputHint if it chooses to persist the relocated image.
type Result struct {
	OutputHint string
	Bytes      []byte
	Ledger     *PatchLedger
}

// Relocate rebases binBytes, an image originally linked to run at
// originalBase, so it runs correctly at newBase instead. binName is used
// only to build Result.OutputHint; it need not be a real path.
//
// vectorTableSize is the size in bytes of the exception vector table at
// the start of the image; pass 0 to use DefaultVectorTableSize.
func Relocate(binBytes []byte, binName, mapPath string, originalBase, newBase, vectorTableSize uint32) (*Result, error) {
	if vectorTableSize == 0 {
		vectorTableSize = DefaultVectorTableSize
	}
	if uint32(len(binBytes)) < vectorTableSize {
		return nil, fwerrors.New(fwerrors.ImageTooSmall, len(binBytes), vectorTableSize)
	}

	sections, _, err := mapfile.Parse(mapPath)
	if err != nil {
		return nil, err
	}

	execRanges := mapfile.ExecutableRanges(sections)
	dataRanges := mapfile.DataRanges(sections)
	if len(execRanges) == 0 {
		logger.Logf(logger.Allow, "relocate", "warning: map file %s yielded no executable ranges", mapPath)
	}
	if len(dataRanges) == 0 {
		logger.Logf(logger.Allow, "relocate", "warning: map file %s yielded no data ranges", mapPath)
	}

	patched := make([]byte, len(binBytes))
	copy(patched, binBytes)

	delta := newBase - originalBase
	ledger := NewPatchLedger()
	imageLen := uint32(len(patched))

	patchVectorTable(patched, vectorTableSize, delta, ledger)

	instructions := armthumb.Disasm(patched, originalBase)
	if len(instructions) == 0 {
		logger.Log(logger.Allow, "relocate", "warning: disassembler produced no instructions")
	}

	patchBranchesAndCodeLiterals(patched, instructions, originalBase, imageLen, delta, ledger)
	patchDataLiterals(patched, instructions, originalBase, imageLen, delta, dataRanges, ledger)
	patchJumpTables(patched, delta, execRanges, ledger)

	return &Result{
		OutputHint: outputHint(binName, newBase),
		Bytes:      patched,
		Ledger:     ledger,
	}, nil
}

// outputHint builds the "<stem>_at_0x<new_base>.bin" suggested filename.
func outputHint(binName string, newBase uint32) string {
	stem := strings.TrimSuffix(binName, filepath.Ext(binName))
	return fmt.Sprintf("%s_at_0x%x.bin", stem, newBase)
}

func read32(b []byte, off uint32) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

func write32(b []byte, off, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// patchVectorTable is Pass 1. Word 0 (the initial stack pointer) is
// never inspected. Every non-sentinel entry is rewritten regardless of
// whether an identical handler address has already appeared in an
// earlier slot — the ledger only deduplicates which values are counted
// as "seen" for reporting, it never causes a slot to be skipped.
func patchVectorTable(patched []byte, vectorTableSize, delta uint32, ledger *PatchLedger) {
	for i := uint32(1); i < vectorTableSize/4; i++ {
		off := i * 4
		entry := read32(patched, off)
		if entry == 0 || entry == 0xFFFFFFFF {
			continue
		}
		if ledger.markVectorEntry(entry) {
			logger.Logf(logger.Allow, "relocate", "vector[%d] 0x%08x -> 0x%08x", i, entry, entry+delta)
		}
		write32(patched, off, entry+delta)
	}
}

// patchBranchesAndCodeLiterals is Pass 2. Direct branches are not
// rewritten in the bytes — their encoding is PC-relative and stays
// valid under rigid relocation — but their target is recorded so
// Pass 3 doesn't mistake it for a data literal. PC-relative loads whose
// literal value falls inside the (pre-relocation) image bounds are
// rewritten in place.
func patchBranchesAndCodeLiterals(patched []byte, instructions []armthumb.Instruction, originalBase, imageLen, delta uint32, ledger *PatchLedger) {
	imageEnd := originalBase + imageLen

	for _, ins := range instructions {
		if target, ok := ins.Branch(); ok {
			if target >= originalBase && target < imageEnd {
				ledger.markBranch(target)
			}
			continue
		}

		literalAddr, ok := ins.PCRelativeLoad()
		if !ok {
			continue
		}
		off, inBounds := imageOffset(literalAddr, originalBase, imageLen)
		if !inBounds {
			continue
		}
		val := read32(patched, off)
		if val < originalBase || val >= imageEnd {
			continue
		}
		write32(patched, off, val+delta)
		ledger.markBranch(literalAddr)
	}
}

// patchDataLiterals is Pass 3. It re-scans the same PC-relative loads
// Pass 2 saw, but only rewrites those whose literal value falls in a
// Data or Zero section — values in ExecRanges were already handled by
// Pass 2 and must not be adjusted again.
func patchDataLiterals(patched []byte, instructions []armthumb.Instruction, originalBase, imageLen, delta uint32, dataRanges []mapfile.AddressRange, ledger *PatchLedger) {
	for _, ins := range instructions {
		literalAddr, ok := ins.PCRelativeLoad()
		if !ok {
			continue
		}
		if _, already := ledger.PatchedBranches[literalAddr]; already {
			continue
		}
		off, inBounds := imageOffset(literalAddr, originalBase, imageLen)
		if !inBounds {
			continue
		}
		val := read32(patched, off)
		if _, done := ledger.PatchedConsts[val]; done {
			continue
		}
		if !mapfile.Contains(dataRanges, val) {
			continue
		}
		write32(patched, off, val+delta)
		ledger.markConst(val)
	}
}

// patchJumpTables is Pass 4. It sweeps the whole image at every 4-byte
// boundary looking for runs of at least 4 consecutive words that each
// look like a code pointer. Detection and rewriting happen in the same
// left-to-right pass: a word rewritten by an earlier iteration of this
// same sweep generally no longer resembles a code pointer at its new
// address, so the sweep does not need to skip ahead over matched runs.
func patchJumpTables(patched []byte, delta uint32, execRanges []mapfile.AddressRange, ledger *PatchLedger) {
	imageLen := uint32(len(patched))
	if imageLen < 40 {
		return
	}

	const maxRun = 10
	const minRun = 4

	for start := uint32(0); start+40 <= imageLen; start += 4 {
		var offsets []uint32
		for k := 0; k < maxRun; k++ {
			off := start + uint32(k)*4
			if off+4 > imageLen {
				break
			}
			word := read32(patched, off)
			if word == 0 || word == 0xFFFFFFFF {
				break
			}
			if !mapfile.Contains(execRanges, word) {
				break
			}
			offsets = append(offsets, off)
		}

		if len(offsets) < minRun {
			continue
		}
		for _, off := range offsets {
			word := read32(patched, off)
			if ledger.claimedByEarlierPass(word) {
				continue
			}
			write32(patched, off, word+delta)
			ledger.markJumpTarget(word)
		}
	}
}

// imageOffset converts an absolute address into an offset within an
// image of imageLen bytes loaded at base, reporting false if the
// address (or the word starting there) falls outside the image.
func imageOffset(addr, base, imageLen uint32) (offset uint32, ok bool) {
	if addr < base {
		return 0, false
	}
	off := addr - base
	if off+4 > imageLen {
		return 0, false
	}
	return off, true
}
