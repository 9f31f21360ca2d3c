package report

import (
	"fmt"
	"io"
	"strings"

	"go-hep.org/x/hep/hbook"

	"github.com/decibelcooper/etabkg/tally"
	"github.com/decibelcooper/etabkg/truth"
)

// Histograms converts the tally into hbook histograms: one per mismatch
// table, binned by generator PID with unit-width bins over [pidMin, pidMax],
// and one with a bin per error kind in report order.
func Histograms(tl *tally.Tally, pidMin, pidMax int) []*hbook.H1D {
	var hists []*hbook.H1D
	for s := truth.Species(0); s < truth.NumSpecies; s++ {
		h := hbook.NewH1D(pidMax-pidMin+1, float64(pidMin)-0.5, float64(pidMax)+0.5)
		h.Annotation()["name"] = "/etabkg/mismatch_" + histName(s)
		h.Annotation()["title"] = fmt.Sprintf("Generator PID behind %s PID mismatches", s)
		for pid, n := range tl.Mismatches[s] {
			h.Fill(float64(pid), float64(n))
		}
		hists = append(hists, h)
	}

	kinds := truth.Kinds()
	h := hbook.NewH1D(len(kinds), 0, float64(len(kinds)))
	h.Annotation()["name"] = "/etabkg/error_kinds"
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
		h.Fill(float64(i)+0.5, float64(tl.Count(k)))
	}
	h.Annotation()["title"] = strings.Join(names, ",")
	hists = append(hists, h)

	return hists
}

// WriteYODA encodes Histograms in the YODA text format.
func WriteYODA(w io.Writer, tl *tally.Tally, pidMin, pidMax int) error {
	for _, h := range Histograms(tl, pidMin, pidMax) {
		raw, err := h.MarshalYODA()
		if err != nil {
			return fmt.Errorf("could not marshal %v: %w", h.Annotation()["name"], err)
		}
		if _, err := w.Write(raw); err != nil {
			return fmt.Errorf("could not write %v: %w", h.Annotation()["name"], err)
		}
	}
	return nil
}

func histName(s truth.Species) string {
	switch s {
	case truth.MuPlus:
		return "mup"
	case truth.MuMinus:
		return "mum"
	case truth.Photon:
		return "photon"
	}
	return "other"
}
