// Package truth matches reconstructed eta -> mu+ mu- gamma candidates to
// generator-level particles and classifies the mismatches.
package truth

import (
	"github.com/decibelcooper/etabkg"
	"github.com/decibelcooper/etabkg/event"
)

// DaughterMatch is the classification of one daughter slot.
type DaughterMatch struct {
	Slot     int // position in Event.Daughters
	PID      int
	GenIndex int

	// GenPID and GenParent are only meaningful when Resolved is true.
	GenPID    int
	GenParent int
	Resolved  bool

	Kind ErrorKind

	// Unresolvable marks a non-negative GenIndex outside the generator
	// particle list.
	Unresolvable bool

	// OutsideAcceptance marks a resolved truth particle that fails the
	// matcher's acceptance predicate.
	OutsideAcceptance bool
}

// Matched reports whether the daughter is correctly matched.
func (d DaughterMatch) Matched() bool { return d.Kind == None }

// CandidateResult is the classification of one reconstructed tag.
type CandidateResult struct {
	Entry int64
	Index int

	Daughters []DaughterMatch
	Signal    bool

	// Truncated is set when the 3-slot block stopped early because a slot
	// was missing or claimed by another candidate.
	Truncated bool

	DimuonPIDMismatch bool
	DimuonError       bool
}

// Warnings lists the input-contract violations met while classifying.
func (c CandidateResult) Warnings() []event.Issue {
	var issues []event.Issue
	for _, d := range c.Daughters {
		if d.Unresolvable {
			issues = append(issues, event.Issue{
				Entry:     c.Entry,
				Candidate: c.Index,
				Daughter:  d.Slot,
				Err:       event.ErrUnresolvedGen,
			})
		}
	}
	return issues
}

// Matcher classifies candidates. The zero value is ready to use.
type Matcher struct {
	// Acceptance, when set, flags resolved truth particles outside the
	// fiducial region. It does not change the classification.
	Acceptance func(event.GenParticle) bool
}

// Classify classifies every eta candidate of ev with the zero Matcher.
func Classify(ev *event.Event) []CandidateResult {
	var m Matcher
	return m.Classify(ev)
}

// Classify returns one result per tag with the eta PID, in tag order. Tags
// with other PIDs are skipped. Only the first generator particle is
// considered as the truth eta: events with several generator-level etas are
// not disambiguated.
func (m *Matcher) Classify(ev *event.Event) []CandidateResult {
	hasGenParent := len(ev.Gen) > 0 && ev.Gen[0].PID == etabkg.Eta

	var results []CandidateResult
	for i, tag := range ev.Tags {
		if tag != etabkg.Eta {
			continue
		}
		results = append(results, m.candidate(ev, i, hasGenParent))
	}
	return results
}

func (m *Matcher) candidate(ev *event.Event, i int, hasGenParent bool) CandidateResult {
	res := CandidateResult{
		Entry:     ev.Entry,
		Index:     i,
		Daughters: make([]DaughterMatch, 0, event.BlockSize),
	}

	block := ev.Block(i)
	matched := 0
	for k, dtr := range block {
		if dtr.Candidate != i {
			break
		}
		d := m.daughter(ev, i, i*event.BlockSize+k, dtr)
		if d.Matched() {
			matched++
		}
		res.Daughters = append(res.Daughters, d)
	}
	res.Truncated = len(res.Daughters) < event.BlockSize
	res.Signal = hasGenParent && !res.Truncated && matched == event.BlockSize

	var mismatch, errs [2]bool
	for _, d := range res.Daughters {
		switch d.Kind {
		case MuPlusPIDMismatch:
			mismatch[0] = true
		case MuMinusPIDMismatch:
			mismatch[1] = true
		case MuPlusError:
			errs[0] = true
		case MuMinusError:
			errs[1] = true
		}
	}
	res.DimuonPIDMismatch = mismatch[0] && mismatch[1]
	res.DimuonError = errs[0] && errs[1]

	return res
}

func (m *Matcher) daughter(ev *event.Event, cand, slot int, dtr event.Daughter) DaughterMatch {
	d := DaughterMatch{
		Slot:      slot,
		PID:       dtr.PID,
		GenIndex:  dtr.GenIndex,
		GenParent: -1,
	}
	species := SpeciesOf(dtr.PID)

	gp, ok := ev.Lookup(dtr.GenIndex)
	switch {
	case dtr.GenIndex < 0:
		// no truth match
		d.Kind = species.ErrorKind()
		return d
	case !ok:
		d.Unresolvable = true
		d.Kind = species.ErrorKind()
		return d
	}

	d.GenPID, d.GenParent, d.Resolved = gp.PID, gp.Parent, true
	if m.Acceptance != nil && !m.Acceptance(gp) {
		d.OutsideAcceptance = true
	}

	switch {
	case gp.PID != dtr.PID:
		d.Kind = species.PIDMismatchKind()
	case gp.Parent != cand:
		d.Kind = species.ErrorKind()
	default:
		d.Kind = None
	}
	return d
}
