package etabkg

// PDG particle codes used by the eta -> mu+ mu- gamma analysis.
const (
	Eta     = 221
	MuPlus  = -13
	MuMinus = 13
	Photon  = 22
)

// SignalDecay is the generator-level PID layout of one signal decay: the
// parent followed by its three daughters.
var SignalDecay = [4]int{Eta, MuPlus, MuMinus, Photon}

// SignalDaughters is the reconstructed daughter PID order of a signal triple.
var SignalDaughters = [3]int{MuPlus, MuMinus, Photon}
