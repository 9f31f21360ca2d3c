// Package report renders run results as the plain-text background analysis
// summary.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/decibelcooper/etabkg/analysis"
	"github.com/decibelcooper/etabkg/tally"
	"github.com/decibelcooper/etabkg/truth"
)

const width = 80

// Report is everything Render needs.
type Report struct {
	RunID   string
	Inputs  []string
	Result  *analysis.Result
	Verbose bool
}

// Render writes the summary, and the per-candidate listing when Verbose is
// set, to w.
func Render(w io.Writer, rep Report) error {
	var b strings.Builder
	res := rep.Result
	tl := &res.Tally

	b.WriteString(strings.Repeat("=", 25) + " Background Analysis Results " + strings.Repeat("=", 26) + "\n")
	if rep.RunID != "" {
		fmt.Fprintf(&b, "Run: %s\n", rep.RunID)
	}
	for _, in := range rep.Inputs {
		fmt.Fprintf(&b, "Input: %s\n", in)
	}
	b.WriteString("*_MISMATCH: Daughter has MC match but reco pid does not match gen pid.\n")
	b.WriteString("*_ERROR: Daughter has no MC match or did not come from the candidate gen decay.\n")
	b.WriteString("Note: DIMUON_* errors do not overwrite single MU*_* errors.\n")
	rule(&b)

	fmt.Fprintf(&b, "Total entries read: %d (kept %d, empty %d)\n", res.Entries, res.Kept, tl.EmptyEvents)
	fmt.Fprintf(&b, "Total candidates processed: %d\n", tl.Tags)
	fmt.Fprintf(&b, "Total eta candidates classified: %d\n", tl.Candidates)
	fmt.Fprintf(&b, "Total signal candidates: %d\n", tl.Signal)
	fmt.Fprintf(&b, "Total background candidates: %d\n", tl.Background)
	rule(&b)

	b.WriteString("Background error counts:\n")
	for _, k := range truth.Kinds() {
		fmt.Fprintf(&b, "- %s: %d\n", k, tl.Count(k))
	}
	rule(&b)

	b.WriteString("List of PID mismatches (ranked by frequency):\n")
	for s := truth.Species(0); s < truth.NumSpecies; s++ {
		fmt.Fprintf(&b, "\n--- %s (%d total) ---\n", s, tl.Mismatches[s].Total())
		b.WriteString(FormatPIDTable(tl.Mismatches[s].MostCommon()))
	}
	rule(&b)

	fmt.Fprintf(&b, "Efficiency with fiducial requirements: %s\n", res.Efficiency.Reconstruction)
	fmt.Fprintf(&b, "Signal efficiency with fiducial requirements: %s\n", res.Efficiency.SignalMatch)
	rule(&b)

	fmt.Fprintf(&b, "Input warnings: %d malformed events, %d unresolvable generator indices, %d truncated candidates\n",
		tl.DecodeIssues, tl.Unresolvable, tl.Truncated)
	fmt.Fprintf(&b, "Matched daughters outside fiducial acceptance: %d\n", tl.OutsideAcceptance)
	rule(&b)

	if rep.Verbose {
		b.WriteString("Verbose candidate information:\n")
		for _, can := range res.Candidates {
			writeCandidate(&b, can)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func rule(b *strings.Builder) {
	b.WriteString(strings.Repeat("-", width) + "\n")
}

func writeCandidate(b *strings.Builder, can truth.CandidateResult) {
	status := "background"
	if can.Signal {
		status = "signal"
	}
	fmt.Fprintf(b, "\nEvent %d, Candidate %d (%s):\n", can.Entry, can.Index, status)
	for _, d := range can.Daughters {
		mcPID, mcMom := "-", "-"
		if d.Resolved {
			mcPID, mcMom = strconv.Itoa(d.GenPID), strconv.Itoa(d.GenParent)
		}
		kind := "None"
		if d.Kind != truth.None {
			kind = d.Kind.String()
		}
		fmt.Fprintf(b, "  Daughter PID %3d, Gen idx %2d, MC PID %5s, MC mom idx %2s, Error type: %s",
			d.PID, d.GenIndex, mcPID, mcMom, kind)
		if d.Unresolvable {
			b.WriteString(" (unresolvable)")
		}
		b.WriteString("\n")
	}
	if can.Truncated {
		b.WriteString("  (daughter block truncated)\n")
	}
	if can.DimuonPIDMismatch {
		fmt.Fprintf(b, "  %s\n", truth.DimuonPIDMismatch)
	}
	if can.DimuonError {
		fmt.Fprintf(b, "  %s\n", truth.DimuonError)
	}
}

// FormatPIDTable returns a plain text table of (PID, count) rows.
func FormatPIDTable(rows []tally.PIDCount) string {
	if len(rows) == 0 {
		return "(none)\n"
	}

	pidW, cntW := len("PID"), len("#")
	for _, row := range rows {
		pidW = max(pidW, len(strconv.Itoa(row.PID)))
		cntW = max(cntW, len(strconv.Itoa(row.Count)))
	}

	var b strings.Builder
	border := "+" + strings.Repeat("-", pidW+2) + "+" + strings.Repeat("-", cntW+2) + "+\n"
	b.WriteString(border)
	fmt.Fprintf(&b, "| %*s | %-*s |\n", pidW, "PID", cntW, "#")
	fmt.Fprintf(&b, "| %s | %s |\n", strings.Repeat("-", pidW), strings.Repeat("-", cntW))
	for _, row := range rows {
		fmt.Fprintf(&b, "| %*d | %-*d |\n", pidW, row.PID, cntW, row.Count)
	}
	b.WriteString(border)
	return b.String()
}
