package event

import "fmt"

// Raw holds the parallel branch values of one ntuple entry.
type Raw struct {
	TagPID []int

	PrtPID    []int
	PrtIdxGen []int
	PrtIdxMom []int

	MCPID    []int
	MCIdxMom []int
	MCPx     []float64
	MCPy     []float64
	MCPz     []float64
}

// Decode normalizes raw branch values into an Event. Parallel arrays of
// unequal length are truncated to the shortest one and every violation is
// recorded in Event.Issues.
func Decode(entry int64, raw Raw) Event {
	ev := Event{
		Entry: entry,
		Tags:  append([]int(nil), raw.TagPID...),
	}

	nd := min(len(raw.PrtPID), len(raw.PrtIdxGen), len(raw.PrtIdxMom))
	if nd != len(raw.PrtPID) || nd != len(raw.PrtIdxGen) || nd != len(raw.PrtIdxMom) {
		ev.issue(-1, -1, fmt.Errorf("%w: prt_pid=%d prt_idx_gen=%d prt_idx_mom=%d",
			ErrLengthMismatch, len(raw.PrtPID), len(raw.PrtIdxGen), len(raw.PrtIdxMom)))
	}
	if nd > 0 {
		ev.Daughters = make([]Daughter, nd)
		for i := range ev.Daughters {
			ev.Daughters[i] = Daughter{
				PID:       raw.PrtPID[i],
				GenIndex:  raw.PrtIdxGen[i],
				Candidate: raw.PrtIdxMom[i],
			}
		}
	}

	ng := min(len(raw.MCPID), len(raw.MCIdxMom))
	if ng != len(raw.MCPID) || ng != len(raw.MCIdxMom) {
		ev.issue(-1, -1, fmt.Errorf("%w: mc_pid=%d mc_idx_mom=%d",
			ErrLengthMismatch, len(raw.MCPID), len(raw.MCIdxMom)))
	}

	hasMomentum := len(raw.MCPx) > 0 || len(raw.MCPy) > 0 || len(raw.MCPz) > 0
	if hasMomentum && min(len(raw.MCPx), len(raw.MCPy), len(raw.MCPz)) < ng {
		ev.issue(-1, -1, fmt.Errorf("%w: mc_px=%d mc_py=%d mc_pz=%d for %d generator particles",
			ErrLengthMismatch, len(raw.MCPx), len(raw.MCPy), len(raw.MCPz), ng))
		hasMomentum = false
	}

	if ng > 0 {
		ev.Gen = make([]GenParticle, ng)
		for i := range ev.Gen {
			gp := GenParticle{PID: raw.MCPID[i], Parent: raw.MCIdxMom[i]}
			if hasMomentum {
				gp.Px, gp.Py, gp.Pz = raw.MCPx[i], raw.MCPy[i], raw.MCPz[i]
				gp.HasMomentum = true
			}
			ev.Gen[i] = gp
		}
	}

	if len(ev.Daughters) != BlockSize*len(ev.Tags) {
		ev.issue(-1, -1, fmt.Errorf("%w: %d daughters for %d tags",
			ErrBlockSize, len(ev.Daughters), len(ev.Tags)))
	}

	return ev
}

func (e *Event) issue(cand, dtr int, err error) {
	e.Issues = append(e.Issues, Issue{Entry: e.Entry, Candidate: cand, Daughter: dtr, Err: err})
}
