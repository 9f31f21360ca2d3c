package fiducial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/decibelcooper/etabkg/event"
)

// momentum builds a vector with transverse momentum pt (along x) and
// pseudorapidity eta.
func momentum(pt, eta float64) (px, py, pz float64) {
	return pt, 0, pt * math.Sinh(eta)
}

func TestPseudorapidity(t *testing.T) {
	px, py, pz := momentum(1000, 3)
	assert.InDelta(t, 3.0, Pseudorapidity(px, py, pz), 1e-9)

	assert.Equal(t, 0.0, Pseudorapidity(0, 0, 0))
	assert.Equal(t, 1e10, Pseudorapidity(0, 0, 5))
	assert.Equal(t, -1e10, Pseudorapidity(0, 0, -5))
	assert.InDelta(t, 0.0, Pseudorapidity(3, 4, 0), 1e-12)
}

func TestPasses(t *testing.T) {
	for _, tc := range []struct {
		name    string
		pid     int
		pt, eta float64
		want    bool
	}{
		{"muon inside", 13, 1000, 3, true},
		{"anti-muon inside", -13, 1000, 3, true},
		{"muon low pt", 13, 400, 3, false},
		{"muon low p", 13, 600, 2.1, false},
		{"muon forward", -13, 1000, 4.6, false},
		{"muon backward", 13, 1000, 1.9, false},
		{"photon inside", 22, 600, 2.1, true},
		{"photon low pt", 22, 499, 3, false},
		{"photon outside eta", 22, 600, 4.7, false},
		{"eta parent", 221, 1, -3, true},
		{"pion", 211, 5000, 3, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			px, py, pz := momentum(tc.pt, tc.eta)
			assert.Equal(t, tc.want, Passes(tc.pid, px, py, pz))
		})
	}

	assert.False(t, Passes(221, 0, 0, 0), "zero momentum never passes")
}

func TestRequirementsCustomWindow(t *testing.T) {
	r := Default
	r.EtaMin, r.EtaMax = 1, 5
	px, py, pz := momentum(1000, 4.8)
	assert.True(t, r.Passes(13, px, py, pz))
	assert.False(t, Default.Passes(13, px, py, pz))
}

func gen(pid int, pt, eta float64) event.GenParticle {
	px, py, pz := momentum(pt, eta)
	return event.GenParticle{PID: pid, Parent: 0, Px: px, Py: py, Pz: pz, HasMomentum: true}
}

func TestEvent(t *testing.T) {
	good := []event.GenParticle{gen(221, 2000, 3), gen(-13, 1000, 3), gen(13, 1000, 3), gen(22, 600, 3)}
	bad := []event.GenParticle{gen(221, 2000, 3), gen(-13, 1000, 3), gen(13, 1000, 5), gen(22, 600, 3)}
	other := []event.GenParticle{gen(211, 10, 0), gen(211, 10, 0), gen(211, 10, 0), gen(211, 10, 0)}

	for _, tc := range []struct {
		name string
		gen  []event.GenParticle
		want bool
	}{
		{"empty", nil, true},
		{"signal passes", good, true},
		{"signal fails", bad, false},
		{"non-signal block ignored", other, true},
		{"every block must pass", append(append([]event.GenParticle{}, good...), bad...), false},
		{"trailing partial block ignored", append(append([]event.GenParticle{}, good...), gen(13, 1, 0)), true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ev := &event.Event{Gen: tc.gen}
			assert.Equal(t, tc.want, Default.Event(ev))
		})
	}
}

func TestAcceptsWithoutMomentum(t *testing.T) {
	assert.True(t, Default.Accepts(event.GenParticle{PID: 211}))

	ev := &event.Event{Gen: []event.GenParticle{gen(13, 1000, 3), gen(13, 100, 3), {PID: 22}}}
	assert.Equal(t, []bool{true, false, true}, Default.Flags(ev))
}
