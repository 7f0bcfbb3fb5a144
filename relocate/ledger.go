package relocate

// PatchLedger tracks, per pass, which original word values have already
// been accounted for so a later pass never reinterprets and re-rewrites
// a word an earlier one has already claimed. The four sets are disjoint
// in purpose but not enforced to be disjoint in membership: a value can
// legitimately appear in more than one set (e.g. a branch target that
// also happens to terminate a jump-table run), and passes consult the
// union of sets relevant to them rather than assuming exclusivity.
type PatchLedger struct {
	// PatchedVectorEntries records every distinct original vector table
	// entry seen, keyed by its original value. Membership here is used
	// only to deduplicate reporting: every occurrence of a repeated
	// handler address across multiple vector slots is still rewritten.
	PatchedVectorEntries map[uint32]struct{}

	// PatchedBranches records, by original value, both direct branch
	// targets (Pass 2) and the addresses of PC-relative literals that
	// Pass 2 rewrote because their value pointed back into the image.
	PatchedBranches map[uint32]struct{}

	// PatchedConsts records, by original value, PC-relative literals
	// that Pass 3 rewrote because their value pointed into a Data range.
	PatchedConsts map[uint32]struct{}

	// PatchedJumpTargets records, by original value, jump-table entries
	// that Pass 4 rewrote.
	PatchedJumpTargets map[uint32]struct{}
}

// NewPatchLedger returns an empty ledger.
func NewPatchLedger() *PatchLedger {
	return &PatchLedger{
		PatchedVectorEntries: make(map[uint32]struct{}),
		PatchedBranches:      make(map[uint32]struct{}),
		PatchedConsts:        make(map[uint32]struct{}),
		PatchedJumpTargets:   make(map[uint32]struct{}),
	}
}

func (l *PatchLedger) markVectorEntry(v uint32) (firstSeen bool) {
	_, seen := l.PatchedVectorEntries[v]
	l.PatchedVectorEntries[v] = struct{}{}
	return !seen
}

func (l *PatchLedger) markBranch(v uint32)     { l.PatchedBranches[v] = struct{}{} }
func (l *PatchLedger) markConst(v uint32)      { l.PatchedConsts[v] = struct{}{} }
func (l *PatchLedger) markJumpTarget(v uint32) { l.PatchedJumpTargets[v] = struct{}{} }

// claimedByEarlierPass reports whether v has already been accounted for
// by the vector table, branch, or jump-table passes — the union Pass 4
// consults before rewriting a jump-table entry.
func (l *PatchLedger) claimedByEarlierPass(v uint32) bool {
	if _, ok := l.PatchedJumpTargets[v]; ok {
		return true
	}
	if _, ok := l.PatchedVectorEntries[v]; ok {
		return true
	}
	if _, ok := l.PatchedBranches[v]; ok {
		return true
	}
	return false
}
