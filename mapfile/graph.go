package mapfile

import (
	"io"

	"github.com/bradleyjkemp/memviz"
)

// rangeSet is a plain, exported-field view of a classified map file,
// shaped purely so memviz has field names worth rendering in its graph
// (it walks exported struct fields via reflection).
type rangeSet struct {
	Sections    map[string]Section
	ExecRanges  []AddressRange
	DataRanges_ []AddressRange
}

// DumpGraph renders the parsed section table and its derived Exec/Data
// range sets as a Graphviz dot graph, for diagnosing a map file that
// produced an unexpectedly empty or overlapping range set.
func DumpGraph(w io.Writer, sections map[string]Section) {
	rs := rangeSet{
		Sections:    sections,
		ExecRanges:  ExecutableRanges(sections),
		DataRanges_: DataRanges(sections),
	}
	memviz.Map(w, &rs)
}
