// Package fiducial implements the kinematic acceptance requirements applied
// to generator-level particles.
package fiducial

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/decibelcooper/etabkg"
	"github.com/decibelcooper/etabkg/event"
)

// Requirements holds the acceptance thresholds. Momenta are in MeV.
type Requirements struct {
	EtaMin      float64
	EtaMax      float64
	MuonMinPT   float64
	MuonMinP    float64
	PhotonMinPT float64
}

// Default are the LHCb fiducial requirements.
var Default = Requirements{
	EtaMin:      2.0,
	EtaMax:      4.5,
	MuonMinPT:   500,
	MuonMinP:    3000,
	PhotonMinPT: 500,
}

// Passes applies the Default requirements.
func Passes(pid int, px, py, pz float64) bool {
	return Default.Passes(pid, px, py, pz)
}

// Passes reports whether a particle with the given PID and momentum is inside
// the acceptance. Only muons, photons and the eta parent can pass.
func (r Requirements) Passes(pid int, px, py, pz float64) bool {
	mom := r3.Vec{X: px, Y: py, Z: pz}
	p := r3.Norm(mom)
	if p == 0 {
		return false
	}
	pt := math.Hypot(px, py)
	eta := Pseudorapidity(px, py, pz)
	inEta := r.EtaMin < eta && eta < r.EtaMax

	switch {
	case pid == etabkg.MuMinus || pid == etabkg.MuPlus:
		return inEta && pt > r.MuonMinPT && p > r.MuonMinP
	case pid == etabkg.Photon:
		return inEta && pt > r.PhotonMinPT
	case pid == etabkg.Eta:
		return true
	}
	return false
}

// Accepts applies Passes to a generator particle. Particles without momentum
// information are accepted.
func (r Requirements) Accepts(gp event.GenParticle) bool {
	if !gp.HasMomentum {
		return true
	}
	return r.Passes(gp.PID, gp.Px, gp.Py, gp.Pz)
}

// Event reports whether every complete signal decay block of the event
// (generator PIDs 221, -13, 13, 22 in consecutive groups of 4) passes the
// requirements. Events without momentum information pass.
func (r Requirements) Event(ev *event.Event) bool {
	for i := 0; i+len(etabkg.SignalDecay) <= len(ev.Gen); i += len(etabkg.SignalDecay) {
		block := ev.Gen[i : i+len(etabkg.SignalDecay)]
		if !isSignalDecay(block) {
			continue
		}
		for _, gp := range block {
			if !r.Accepts(gp) {
				return false
			}
		}
	}
	return true
}

// Flags reports per generator particle whether it is inside the acceptance.
func (r Requirements) Flags(ev *event.Event) []bool {
	flags := make([]bool, len(ev.Gen))
	for i, gp := range ev.Gen {
		flags[i] = r.Accepts(gp)
	}
	return flags
}

func isSignalDecay(block []event.GenParticle) bool {
	for j, gp := range block {
		if gp.PID != etabkg.SignalDecay[j] {
			return false
		}
	}
	return true
}

// Pseudorapidity follows ROOT's TVector3::PseudoRapidity: particles along the
// beam axis get +/-1e10 and particles at rest get 0.
func Pseudorapidity(px, py, pz float64) float64 {
	p := r3.Norm(r3.Vec{X: px, Y: py, Z: pz})
	cosTheta := 1.0
	if p != 0 {
		cosTheta = pz / p
	}
	if cosTheta*cosTheta < 1 {
		return -0.5 * math.Log((1.0-cosTheta)/(1.0+cosTheta))
	}
	switch {
	case pz == 0:
		return 0
	case pz > 0:
		return 1e10
	}
	return -1e10
}
