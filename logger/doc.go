// Package logger is a small central logging facility shared by every
// package in this toolkit. Rather than have each package decide for
// itself whether and where to print, callers log a tagged entry to the
// one central ring buffer; callers that want the entries as they happen
// (the CLI programs, in particular) attach an echo sink with SetEcho.
//
// The Relocator's warnings (NoExecRanges, NoDataRanges, NoInstructions)
// and the UART session's per-packet trace are both routed through this
// package instead of ad-hoc fmt.Println/os.Stderr calls, so tests can
// substitute a capturing sink and assert on warnings without scraping
// stdout.
package logger
