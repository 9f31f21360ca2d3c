// Package efficiency computes reconstruction and signal-matching
// efficiencies as exact integer ratios.
package efficiency

import (
	"fmt"

	"github.com/decibelcooper/etabkg"
	"github.com/decibelcooper/etabkg/event"
)

// GenBlockSize is the number of generator particles per true decay:
// the parent and its three daughters.
const GenBlockSize = 4

// Ratio is an efficiency kept as numerator and denominator.
type Ratio struct {
	Num int
	Den int
}

// Efficiency returns Num/Den, or 0 for an empty denominator.
func (r Ratio) Efficiency() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Add returns the component-wise sum.
func (r Ratio) Add(o Ratio) Ratio {
	return Ratio{Num: r.Num + o.Num, Den: r.Den + o.Den}
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d/%d = %.4f", r.Num, r.Den, r.Efficiency())
}

// Definition selects how one event contributes to a Ratio.
type Definition func(ev *event.Event) Ratio

// GenDecays counts the true decays of an event. The upstream producer stores
// exactly GenBlockSize generator particles per decay.
func GenDecays(ev *event.Event) int {
	return len(ev.Gen) / GenBlockSize
}

// Reconstruction counts the event as reconstructed when it has at least one
// tag.
func Reconstruction(ev *event.Event) Ratio {
	r := Ratio{Den: GenDecays(ev)}
	if len(ev.Tags) > 0 {
		r.Num = 1
	}
	return r
}

// SignalMatch counts reconstructed daughter triples ordered (mu+, mu-, gamma)
// whose muon and photon link to generator particles of the same PID with an
// eta parent.
func SignalMatch(ev *event.Event) Ratio {
	r := Ratio{Den: GenDecays(ev)}
	for i := 0; i+event.BlockSize <= len(ev.Daughters); i += event.BlockSize {
		if signalTriple(ev, ev.Daughters[i:i+event.BlockSize]) {
			r.Num++
		}
	}
	return r
}

func signalTriple(ev *event.Event, triple []event.Daughter) bool {
	for j, d := range triple {
		if d.PID != etabkg.SignalDaughters[j] {
			return false
		}
	}
	for _, d := range triple[1:] {
		gp, ok := ev.Lookup(d.GenIndex)
		if !ok || gp.PID != d.PID {
			return false
		}
		parent, ok := ev.Lookup(gp.Parent)
		if !ok || parent.PID != etabkg.Eta {
			return false
		}
	}
	return true
}

// ComputeRatio folds def over events.
func ComputeRatio(events []*event.Event, def Definition) Ratio {
	var r Ratio
	for _, ev := range events {
		r = r.Add(def(ev))
	}
	return r
}

// Calculator accumulates both efficiency definitions over a stream of events.
type Calculator struct {
	Reconstruction Ratio
	SignalMatch    Ratio
}

// Add folds one event.
func (c *Calculator) Add(ev *event.Event) {
	c.Reconstruction = c.Reconstruction.Add(Reconstruction(ev))
	c.SignalMatch = c.SignalMatch.Add(SignalMatch(ev))
}

// Merge adds the ratios of o.
func (c *Calculator) Merge(o *Calculator) {
	c.Reconstruction = c.Reconstruction.Add(o.Reconstruction)
	c.SignalMatch = c.SignalMatch.Add(o.SignalMatch)
}
