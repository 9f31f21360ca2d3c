package truth

import (
	"fmt"

	"github.com/decibelcooper/etabkg"
)

// ErrorKind classifies why a daughter (or a candidate, for the dimuon kinds)
// is not part of a correctly matched signal decay. None means matched.
type ErrorKind int

const (
	None ErrorKind = iota
	MuPlusPIDMismatch
	MuMinusPIDMismatch
	PhotonPIDMismatch
	OtherPIDMismatch
	MuPlusError
	MuMinusError
	PhotonError
	OtherError
	DimuonPIDMismatch
	DimuonError

	numKinds
)

// NumKinds is the number of ErrorKind values including None.
const NumKinds = int(numKinds)

var kindNames = [...]string{
	None:               "NONE",
	MuPlusPIDMismatch:  "MUP_PID_MISMATCH",
	MuMinusPIDMismatch: "MUM_PID_MISMATCH",
	PhotonPIDMismatch:  "PHOTON_PID_MISMATCH",
	OtherPIDMismatch:   "OTHER_PID_MISMATCH",
	MuPlusError:        "MUP_ERROR",
	MuMinusError:       "MUM_ERROR",
	PhotonError:        "PHOTON_ERROR",
	OtherError:         "OTHER_ERROR",
	DimuonPIDMismatch:  "DIMUON_PID_MISMATCH",
	DimuonError:        "DIMUON_ERROR",
}

func (k ErrorKind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return kindNames[k]
}

// Leaf reports whether k is a per-daughter kind.
func (k ErrorKind) Leaf() bool {
	return k >= MuPlusPIDMismatch && k <= OtherError
}

// CandidateLevel reports whether k is derived from a pair of daughters.
func (k ErrorKind) CandidateLevel() bool {
	return k == DimuonPIDMismatch || k == DimuonError
}

// PIDMismatch reports whether k is one of the identity-mismatch kinds.
func (k ErrorKind) PIDMismatch() bool {
	return k >= MuPlusPIDMismatch && k <= OtherPIDMismatch
}

// Kinds lists every non-None kind in report order.
func Kinds() []ErrorKind {
	return []ErrorKind{
		MuPlusPIDMismatch,
		MuMinusPIDMismatch,
		DimuonPIDMismatch,
		PhotonPIDMismatch,
		OtherPIDMismatch,
		MuPlusError,
		MuMinusError,
		DimuonError,
		PhotonError,
		OtherError,
	}
}

// Species is the daughter variant selected by reconstructed PID.
type Species int

const (
	MuPlus Species = iota
	MuMinus
	Photon
	Other

	NumSpecies = 4
)

func (s Species) String() string {
	switch s {
	case MuPlus:
		return "MU+"
	case MuMinus:
		return "MU-"
	case Photon:
		return "PHOTON"
	case Other:
		return "OTHER"
	}
	return fmt.Sprintf("Species(%d)", int(s))
}

// SpeciesOf maps a reconstructed PID to its variant.
func SpeciesOf(pid int) Species {
	switch pid {
	case etabkg.MuPlus:
		return MuPlus
	case etabkg.MuMinus:
		return MuMinus
	case etabkg.Photon:
		return Photon
	}
	return Other
}

// PIDMismatchKind is the identity-mismatch kind for s.
func (s Species) PIDMismatchKind() ErrorKind {
	switch s {
	case MuPlus:
		return MuPlusPIDMismatch
	case MuMinus:
		return MuMinusPIDMismatch
	case Photon:
		return PhotonPIDMismatch
	case Other:
		return OtherPIDMismatch
	}
	panic(fmt.Sprintf("truth: unknown species %d", int(s)))
}

// ErrorKind is the no-match/parentage kind for s.
func (s Species) ErrorKind() ErrorKind {
	switch s {
	case MuPlus:
		return MuPlusError
	case MuMinus:
		return MuMinusError
	case Photon:
		return PhotonError
	case Other:
		return OtherError
	}
	panic(fmt.Sprintf("truth: unknown species %d", int(s)))
}

// SpeciesOfKind returns the variant of a leaf kind.
func SpeciesOfKind(k ErrorKind) (Species, bool) {
	switch k {
	case MuPlusPIDMismatch, MuPlusError:
		return MuPlus, true
	case MuMinusPIDMismatch, MuMinusError:
		return MuMinus, true
	case PhotonPIDMismatch, PhotonError:
		return Photon, true
	case OtherPIDMismatch, OtherError:
		return Other, true
	case None, DimuonPIDMismatch, DimuonError:
		return 0, false
	}
	panic(fmt.Sprintf("truth: unknown error kind %d", int(k)))
}
