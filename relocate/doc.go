// Package relocate rebases a flat Thumb firmware image from one flash
// address to another: the vector table, direct branch targets, absolute
// literal loads, and switch-case jump tables are all walked and adjusted
// by the same delta so the image runs correctly when the bootloader
// places it at a different bank offset.
//
// The four passes run in a fixed order and share a PatchLedger so a word
// touched by an earlier pass is never reinterpreted and rewritten again
// by a later one.
package relocate
