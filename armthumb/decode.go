package armthumb

import "encoding/binary"

// regPC is the pseudo-register id used for the implicit PC base of a
// literal load; it never denotes a real operand register elsewhere.
const regPC = 15

// Disasm decodes code as a stream of Thumb halfwords starting at baseAddr,
// returning one Instruction per decoded opcode. Encodings outside
// B/BL/LDR are yielded as Other with no operands, and always advance by
// 2 bytes — this package never speculatively resyncs the stream, since
// Thumb has no self-describing instruction boundaries to recover from a
// wrong guess.
func Disasm(code []byte, baseAddr uint32) []Instruction {
	var out []Instruction

	for i := 0; i+2 <= len(code); {
		addr := baseAddr + uint32(i)
		opcode := binary.LittleEndian.Uint16(code[i:])

		switch {
		case isUnconditionalBranch(opcode):
			out = append(out, decodeUnconditionalBranch(opcode, addr))
			i += 2

		case isLongBranchWithLinkHigh(opcode) && i+4 <= len(code):
			opcode2 := binary.LittleEndian.Uint16(code[i+2:])
			if isLongBranchWithLinkLow(opcode2) {
				out = append(out, decodeLongBranchWithLink(opcode, opcode2, addr))
				i += 4
				continue
			}
			out = append(out, Instruction{Address: addr, Mnemonic: Other, Size: 2})
			i += 2

		case isPCRelativeLoad(opcode):
			out = append(out, decodePCRelativeLoad(opcode, addr))
			i += 2

		default:
			out = append(out, Instruction{Address: addr, Mnemonic: Other, Size: 2})
			i += 2
		}
	}

	return out
}

// isUnconditionalBranch matches format 18 - Unconditional branch.
func isUnconditionalBranch(opcode uint16) bool {
	return opcode&0xF800 == 0xE000
}

// decodeUnconditionalBranch decodes format 18. The 11-bit offset is a
// two's complement halfword count; sign extension is done by setting
// the top bits directly rather than shifting, per the ARM7TDMI-S
// reference's own description of the encoding.
func decodeUnconditionalBranch(opcode uint16, addr uint32) Instruction {
	offset := uint32(opcode&0x07FF) << 1
	if offset&0x800 == 0x800 {
		offset |= 0xFFFFF800
	}
	offset += 4

	target := addr + offset
	return Instruction{
		Address:  addr,
		Mnemonic: B,
		Size:     2,
		Operands: []Operand{{Kind: OperandImmediate, Immediate: int64(target)}},
	}
}

// isLongBranchWithLinkHigh matches the high halfword of format 19,
// Long branch with link: 11110-offset11.
func isLongBranchWithLinkHigh(opcode uint16) bool {
	return opcode&0xF800 == 0xF000
}

// isLongBranchWithLinkLow matches the low halfword of format 19:
// 11111-offset11.
func isLongBranchWithLinkLow(opcode uint16) bool {
	return opcode&0xF800 == 0xF800
}

// decodeLongBranchWithLink decodes the two-halfword BL encoding (format
// 19). The high halfword carries bits 22:12 of the offset, the low
// halfword bits 11:1; sign extension again sets the top bits directly.
func decodeLongBranchWithLink(opcodeHigh, opcodeLow uint16, addr uint32) Instruction {
	offset := uint32(opcodeHigh&0x07FF) << 12
	if offset&0x400000 == 0x400000 {
		offset |= 0xFF800000
	}
	offset |= uint32(opcodeLow&0x07FF) << 1
	offset += 4

	target := addr + offset
	return Instruction{
		Address:  addr,
		Mnemonic: BL,
		Size:     4,
		Operands: []Operand{{Kind: OperandImmediate, Immediate: int64(target)}},
	}
}

// isPCRelativeLoad matches format 6 - PC-relative load:
// 01001-Rd-offset8 (LDR Rd, [PC, #imm]).
func isPCRelativeLoad(opcode uint16) bool {
	return opcode&0xF800 == 0x4800
}

// decodePCRelativeLoad decodes format 6. Bit 1 of the PC value is
// forced to zero for the purpose of this calculation, so the literal
// address is always word-aligned, per the ARM7TDMI-S reference's
// description of this instruction.
func decodePCRelativeLoad(opcode uint16, addr uint32) Instruction {
	rd := int((opcode >> 8) & 0x7)
	imm := uint32(opcode&0xFF) << 2

	literalAddr := ((addr + 4) &^ 3) + imm
	disp := int32(literalAddr) - int32(addr)

	return Instruction{
		Address:  addr,
		Mnemonic: LDR,
		Size:     2,
		Operands: []Operand{
			{Kind: OperandRegister, Reg: rd},
			{Kind: OperandMemory, Reg: regPC, Disp: disp},
		},
	}
}
