// Package armthumb decodes the narrow slice of 16-bit ARM Thumb
// instructions the relocator cares about: unconditional branches (B),
// branch-with-link (BL), and PC-relative literal loads (LDR Rd,
// [PC, #imm]). Every other encoding is yielded as an Other instruction
// with no decoded operands, so the relocator can skip it without the
// decoder needing to understand it.
//
// This is deliberately not a general-purpose disassembler. The upstream
// tooling this core descends from treated branch/link/load recognition
// as the full extent of its static analysis, and the redesign keeps that
// scope rather than growing into an instruction-set reference.
package armthumb
