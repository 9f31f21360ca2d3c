// Package tally folds candidate classifications into run-wide counters.
package tally

import (
	"github.com/decibelcooper/etabkg/truth"
)

// Tally accumulates classification results. The zero value is ready to use.
// Fold and Merge are associative and commutative, so partial tallies built
// over disjoint event shards can be merged in any order.
type Tally struct {
	Events      int // non-empty events
	EmptyEvents int
	Tags        int // every reconstructed tag, eta or not

	Candidates int // classified eta candidates
	Signal     int
	Background int

	Kinds [truth.NumKinds]int

	// Mismatches holds, per reconstructed-PID variant, the generator PIDs
	// found behind identity mismatches.
	Mismatches [truth.NumSpecies]PIDFreq

	Unresolvable      int // daughters with out-of-range generator index
	Truncated         int // candidates whose block stopped early
	OutsideAcceptance int // resolved daughters whose truth fails the fiducial cuts
	DecodeIssues      int
}

// AddTags records the number of reconstructed tags of one event.
func (t *Tally) AddTags(n int) {
	t.Tags += n
}

// Fold adds candidate results to the tally.
func (t *Tally) Fold(results ...truth.CandidateResult) {
	for _, res := range results {
		t.Candidates++
		if res.Signal {
			t.Signal++
		} else {
			t.Background++
		}
		if res.Truncated {
			t.Truncated++
		}
		if res.DimuonPIDMismatch {
			t.Kinds[truth.DimuonPIDMismatch]++
		}
		if res.DimuonError {
			t.Kinds[truth.DimuonError]++
		}

		for _, d := range res.Daughters {
			if d.Unresolvable {
				t.Unresolvable++
			}
			if d.OutsideAcceptance {
				t.OutsideAcceptance++
			}
			if d.Kind == truth.None {
				continue
			}
			t.Kinds[d.Kind]++
			if d.Kind.PIDMismatch() {
				s, _ := truth.SpeciesOfKind(d.Kind)
				t.Mismatches[s] = t.Mismatches[s].Add(d.GenPID, 1)
			}
		}
	}
}

// Merge adds the counters of o to t.
func (t *Tally) Merge(o *Tally) {
	t.Events += o.Events
	t.EmptyEvents += o.EmptyEvents
	t.Tags += o.Tags
	t.Candidates += o.Candidates
	t.Signal += o.Signal
	t.Background += o.Background
	for k, n := range o.Kinds {
		t.Kinds[k] += n
	}
	for s := range o.Mismatches {
		for pid, n := range o.Mismatches[s] {
			t.Mismatches[s] = t.Mismatches[s].Add(pid, n)
		}
	}
	t.Unresolvable += o.Unresolvable
	t.Truncated += o.Truncated
	t.OutsideAcceptance += o.OutsideAcceptance
	t.DecodeIssues += o.DecodeIssues
}

// Count returns the counter of kind k.
func (t *Tally) Count(k truth.ErrorKind) int {
	return t.Kinds[k]
}
