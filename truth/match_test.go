package truth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibelcooper/etabkg/event"
)

func signalEvent() *event.Event {
	ev := event.Decode(0, event.Raw{
		TagPID:    []int{221},
		PrtPID:    []int{-13, 13, 22},
		PrtIdxGen: []int{1, 2, 3},
		PrtIdxMom: []int{0, 0, 0},
		MCPID:     []int{221, -13, 13, 22},
		MCIdxMom:  []int{-1, 0, 0, 0},
	})
	return &ev
}

func kinds(res CandidateResult) []ErrorKind {
	var ks []ErrorKind
	for _, d := range res.Daughters {
		ks = append(ks, d.Kind)
	}
	return ks
}

func TestClassifySignal(t *testing.T) {
	results := Classify(signalEvent())

	require.Len(t, results, 1)
	res := results[0]
	assert.True(t, res.Signal)
	assert.False(t, res.Truncated)
	assert.Equal(t, []ErrorKind{None, None, None}, kinds(res))
	assert.False(t, res.DimuonPIDMismatch)
	assert.False(t, res.DimuonError)
	assert.Empty(t, res.Warnings())

	d := res.Daughters[2]
	assert.True(t, d.Resolved)
	assert.Equal(t, 22, d.GenPID)
	assert.Equal(t, 0, d.GenParent)
	assert.Equal(t, 2, d.Slot)
}

func TestClassifyIdentityFlip(t *testing.T) {
	ev := signalEvent()
	ev.Daughters[0].PID = 13

	res := Classify(ev)[0]

	assert.False(t, res.Signal)
	assert.Equal(t, []ErrorKind{MuMinusPIDMismatch, None, None}, kinds(res))
	assert.Equal(t, -13, res.Daughters[0].GenPID)
	assert.True(t, res.Daughters[0].Resolved)
	assert.False(t, res.DimuonPIDMismatch)
}

func TestClassifyNoMatch(t *testing.T) {
	for _, tc := range []struct {
		name string
		slot int
		pid  int
		want ErrorKind
	}{
		{"anti-muon", 0, -13, MuPlusError},
		{"muon", 1, 13, MuMinusError},
		{"photon", 2, 22, PhotonError},
		{"pion", 2, 211, OtherError},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ev := signalEvent()
			ev.Daughters[tc.slot].PID = tc.pid
			ev.Daughters[tc.slot].GenIndex = -1

			res := Classify(ev)[0]
			assert.False(t, res.Signal)
			d := res.Daughters[tc.slot]
			assert.Equal(t, tc.want, d.Kind)
			assert.False(t, d.Resolved)
			assert.False(t, d.Unresolvable)
			assert.Empty(t, res.Warnings())
		})
	}
}

func TestClassifyParentage(t *testing.T) {
	ev := signalEvent()
	ev.Gen[3].Parent = 2

	res := Classify(ev)[0]
	assert.False(t, res.Signal)
	assert.Equal(t, []ErrorKind{None, None, PhotonError}, kinds(res))
	assert.Equal(t, 2, res.Daughters[2].GenParent)
}

func TestClassifyOtherPIDMismatch(t *testing.T) {
	ev := signalEvent()
	ev.Daughters[2].PID = 111

	res := Classify(ev)[0]
	assert.Equal(t, OtherPIDMismatch, res.Daughters[2].Kind)
	assert.Equal(t, 22, res.Daughters[2].GenPID)
}

func TestClassifyDimuon(t *testing.T) {
	ev := signalEvent()
	ev.Gen[1].PID = 211
	ev.Gen[2].PID = -211

	res := Classify(ev)[0]
	assert.Equal(t, []ErrorKind{MuPlusPIDMismatch, MuMinusPIDMismatch, None}, kinds(res))
	assert.True(t, res.DimuonPIDMismatch)
	assert.False(t, res.DimuonError)

	ev = signalEvent()
	ev.Daughters[0].GenIndex = -1
	ev.Gen[2].Parent = 5

	res = Classify(ev)[0]
	assert.Equal(t, []ErrorKind{MuPlusError, MuMinusError, None}, kinds(res))
	assert.True(t, res.DimuonError)
	assert.False(t, res.DimuonPIDMismatch)

	// one mismatch and one error is neither dimuon kind
	ev = signalEvent()
	ev.Gen[1].PID = 211
	ev.Daughters[1].GenIndex = -1
	res = Classify(ev)[0]
	assert.False(t, res.DimuonPIDMismatch)
	assert.False(t, res.DimuonError)
}

func TestClassifyUnresolvable(t *testing.T) {
	ev := signalEvent()
	ev.Daughters[1].GenIndex = 9

	res := Classify(ev)[0]
	d := res.Daughters[1]
	assert.True(t, d.Unresolvable)
	assert.False(t, d.Resolved)
	assert.Equal(t, MuMinusError, d.Kind)
	assert.False(t, res.Signal)

	warnings := res.Warnings()
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], event.ErrUnresolvedGen)
	assert.Equal(t, 1, warnings[0].Daughter)
}

func TestClassifyNoGeneratorParent(t *testing.T) {
	ev := signalEvent()
	ev.Gen[0].PID = 111

	res := Classify(ev)[0]
	assert.False(t, res.Signal)
	assert.Equal(t, []ErrorKind{None, None, None}, kinds(res))

	ev.Gen = nil
	res = Classify(ev)[0]
	assert.False(t, res.Signal)
	for _, d := range res.Daughters {
		assert.True(t, d.Unresolvable)
	}
}

func TestClassifySkipsNonEtaTags(t *testing.T) {
	ev := signalEvent()
	ev.Tags = []int{310}
	assert.Empty(t, Classify(ev))
}

func TestClassifyTruncated(t *testing.T) {
	ev := signalEvent()
	ev.Daughters[1].Candidate = 1

	res := Classify(ev)[0]
	assert.True(t, res.Truncated)
	assert.False(t, res.Signal)
	assert.Len(t, res.Daughters, 1)

	ev = signalEvent()
	ev.Daughters = ev.Daughters[:2]
	res = Classify(ev)[0]
	assert.True(t, res.Truncated)
	assert.Len(t, res.Daughters, 2)
}

func TestClassifySecondCandidate(t *testing.T) {
	ev := event.Decode(4, event.Raw{
		TagPID:    []int{221, 221},
		PrtPID:    []int{-13, 13, 22, -13, 13, 22},
		PrtIdxGen: []int{1, 2, 3, 1, 2, 3},
		PrtIdxMom: []int{0, 0, 0, 1, 1, 1},
		MCPID:     []int{221, -13, 13, 22},
		MCIdxMom:  []int{-1, 0, 0, 0},
	})

	results := Classify(&ev)
	require.Len(t, results, 2)
	assert.True(t, results[0].Signal)
	assert.Equal(t, 1, results[1].Index)
	assert.Equal(t, int64(4), results[1].Entry)
	// daughters point to generator particles whose parent index is 0, not 1
	assert.Equal(t, []ErrorKind{MuPlusError, MuMinusError, PhotonError}, kinds(results[1]))
	assert.True(t, results[1].DimuonError)
	assert.Equal(t, 5, results[1].Daughters[2].Slot)
}

func TestMatcherAcceptance(t *testing.T) {
	m := Matcher{Acceptance: func(gp event.GenParticle) bool { return gp.PID != 22 }}

	res := m.Classify(signalEvent())[0]
	assert.True(t, res.Signal)
	assert.False(t, res.Daughters[0].OutsideAcceptance)
	assert.True(t, res.Daughters[2].OutsideAcceptance)
}

// Every daughter carries exactly one leaf kind or None, and the dimuon flags
// imply the matching per-daughter kinds.
func TestClassifyProperties(t *testing.T) {
	pids := []int{-13, 13, 22, 211}
	genIdx := []int{-1, 0, 1, 2, 3, 7}
	parents := []int{-1, 0, 1}

	for _, p0 := range pids {
		for _, p1 := range pids {
			for _, g0 := range genIdx {
				for _, g1 := range genIdx {
					for _, par := range parents {
						ev := signalEvent()
						ev.Daughters[0].PID, ev.Daughters[0].GenIndex = p0, g0
						ev.Daughters[1].PID, ev.Daughters[1].GenIndex = p1, g1
						ev.Gen[2].Parent = par

						res := Classify(ev)[0]
						for _, d := range res.Daughters {
							assert.True(t, d.Kind == None || d.Kind.Leaf(), "kind %v", d.Kind)
							if d.Kind == None {
								assert.True(t, d.Resolved)
							}
						}
						if res.DimuonPIDMismatch {
							ks := kinds(res)
							assert.Contains(t, ks, MuPlusPIDMismatch)
							assert.Contains(t, ks, MuMinusPIDMismatch)
						}
						if res.DimuonError {
							ks := kinds(res)
							assert.Contains(t, ks, MuPlusError)
							assert.Contains(t, ks, MuMinusError)
						}
						if res.Signal {
							assert.Equal(t, []ErrorKind{None, None, None}, kinds(res))
						}
					}
				}
			}
		}
	}
}
