package ingest

import (
	"sort"
)

// Outcome accumulates the results of one ingestion run. Counters describe
// writes; the identifier sets drive the post-run reconciliation report.
type Outcome struct {
	SpatialWrites    int
	NonSpatialWrites int
	Skipped          int
	RepairFailures   int
	NullGeometries   int
	EmptyGeometries  int
	// Succeeded counts writes, not unique parcels: a duplicate identifier
	// written twice counts twice here and once in SucceededIDs.
	Succeeded int

	processed map[string]int
	succeeded map[string]struct{}
	failed    map[string]struct{}
	emptyIDs  int
}

// NewOutcome creates an empty Outcome.
func NewOutcome() *Outcome {
	return &Outcome{
		processed: make(map[string]int),
		succeeded: make(map[string]struct{}),
		failed:    make(map[string]struct{}),
	}
}

// Track records that a parcel identifier was seen. Records with an empty
// identifier are still written but cannot participate in reconciliation, so
// they are counted separately.
func (o *Outcome) Track(uid string) {
	if uid == "" {
		o.emptyIDs++
		return
	}
	o.processed[uid]++
}

// MarkSucceeded records that the identifier's row reached the table.
func (o *Outcome) MarkSucceeded(uid string) {
	if uid == "" {
		return
	}
	o.succeeded[uid] = struct{}{}
	delete(o.failed, uid)
}

// MarkFailed records that the identifier's write was rolled back. A later
// duplicate of the same identifier may still succeed.
func (o *Outcome) MarkFailed(uid string) {
	if uid == "" {
		return
	}
	if _, ok := o.succeeded[uid]; ok {
		return
	}
	o.failed[uid] = struct{}{}
}

// Demote moves identifiers that had been marked succeeded back to failed.
// Used when a batch commit fails after its per-record writes appeared to
// succeed.
func (o *Outcome) Demote(uids []string) {
	for _, uid := range uids {
		if uid == "" {
			continue
		}
		delete(o.succeeded, uid)
		o.failed[uid] = struct{}{}
	}
}

// SucceededIDs returns the sorted unique identifiers whose rows reached the
// table.
func (o *Outcome) SucceededIDs() []string {
	return sortedKeys(o.succeeded)
}

// FailedIDs returns the sorted unique identifiers that never reached the
// table.
func (o *Outcome) FailedIDs() []string {
	return sortedKeys(o.failed)
}

// Report is the reconciliation summary computed after all batches finish.
// Everything in it is advisory: discrepancies are logged, never fatal.
type Report struct {
	ProcessedUnique int
	SucceededCount  int
	FailedCount     int
	EmptyIDs        int
	// Duplicates maps each identifier seen more than once to how many times
	// it was seen.
	Duplicates map[string]int
	// Unresolved lists identifiers that were processed but ended up in
	// neither the succeeded nor the failed set. Should be empty; anything
	// here points at a bookkeeping bug.
	Unresolved []string
}

// Reconcile cross-checks the processed identifiers against the succeeded and
// failed sets and returns the summary.
func (o *Outcome) Reconcile() *Report {
	report := &Report{
		ProcessedUnique: len(o.processed),
		SucceededCount:  len(o.succeeded),
		FailedCount:     len(o.failed),
		EmptyIDs:        o.emptyIDs,
		Duplicates:      make(map[string]int),
	}

	for uid, n := range o.processed {
		if n > 1 {
			report.Duplicates[uid] = n
		}
		_, ok := o.succeeded[uid]
		if !ok {
			_, ok = o.failed[uid]
		}
		if !ok {
			report.Unresolved = append(report.Unresolved, uid)
		}
	}
	sort.Strings(report.Unresolved)

	return report
}

// DuplicateIDs returns the report's duplicate identifiers in sorted order.
func (r *Report) DuplicateIDs() []string {
	ids := make([]string, 0, len(r.Duplicates))
	for uid := range r.Duplicates {
		ids = append(ids, uid)
	}
	sort.Strings(ids)
	return ids
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for uid := range set {
		out = append(out, uid)
	}
	sort.Strings(out)
	return out
}
