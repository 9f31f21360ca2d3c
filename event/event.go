// Package event decodes one ntuple entry into bounds-checked candidate,
// daughter and generator-particle records.
package event

import (
	"errors"
	"fmt"
)

// BlockSize is the number of daughter slots owned by each reconstructed tag.
const BlockSize = 3

var (
	ErrLengthMismatch = errors.New("parallel arrays differ in length")
	ErrBlockSize      = errors.New("daughter count is not 3 per tag")
	ErrUnresolvedGen  = errors.New("generator index out of range")
)

// Daughter is one reconstructed decay product.
type Daughter struct {
	PID int
	// GenIndex links to Event.Gen; negative means no truth match.
	GenIndex int
	// Candidate is the tag index the reconstruction assigned this daughter to.
	Candidate int
}

// GenParticle is one generator-level (truth) particle.
type GenParticle struct {
	PID int
	// Parent indexes Event.Gen; -1 means no parent.
	Parent int

	Px, Py, Pz  float64
	HasMomentum bool
}

// Issue is an input-contract violation found while decoding or matching.
// Issues are warnings: the event is still processed.
type Issue struct {
	Entry     int64
	Candidate int // -1 when not tied to a candidate
	Daughter  int // -1 when not tied to a daughter slot
	Err       error
}

func (i Issue) Error() string {
	switch {
	case i.Daughter >= 0:
		return fmt.Sprintf("entry %d, candidate %d, daughter %d: %v", i.Entry, i.Candidate, i.Daughter, i.Err)
	case i.Candidate >= 0:
		return fmt.Sprintf("entry %d, candidate %d: %v", i.Entry, i.Candidate, i.Err)
	}
	return fmt.Sprintf("entry %d: %v", i.Entry, i.Err)
}

func (i Issue) Unwrap() error { return i.Err }

// Event is one decoded detector readout.
type Event struct {
	Entry     int64
	Tags      []int
	Daughters []Daughter
	Gen       []GenParticle
	Issues    []Issue
}

// Lookup resolves a generator index. It reports false for negative or
// out-of-range indices instead of defaulting.
func (e *Event) Lookup(idx int) (GenParticle, bool) {
	if idx < 0 || idx >= len(e.Gen) {
		return GenParticle{}, false
	}
	return e.Gen[idx], true
}

// Block returns the daughter slots of candidate i. The slice is shorter than
// BlockSize when the daughter arrays end early.
func (e *Event) Block(i int) []Daughter {
	lo := i * BlockSize
	if i < 0 || lo >= len(e.Daughters) {
		return nil
	}
	hi := lo + BlockSize
	if hi > len(e.Daughters) {
		hi = len(e.Daughters)
	}
	return e.Daughters[lo:hi]
}

// Empty reports whether the entry carries no reconstructed or generator data.
func (e *Event) Empty() bool {
	return len(e.Tags) == 0 && len(e.Daughters) == 0 && len(e.Gen) == 0
}
