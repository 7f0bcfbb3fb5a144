// Package mapfile parses an ARMCC/Keil linker map file into a table of
// named Sections, and derives the executable and data address ranges a
// relocation pass needs to classify literals and jump-table candidates.
//
// It does not attempt to understand the rest of a map file's content
// (symbol tables, cross-reference listings, memory maps) — only the
// per-section summary line described in the grammar below. Anything else
// is skipped silently, matching the toolchain's own tolerance for
// unrecognised map sections across compiler versions.
package mapfile
