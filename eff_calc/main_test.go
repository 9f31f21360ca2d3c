package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibelcooper/etabkg"
	"github.com/decibelcooper/etabkg/analysis"
	"github.com/decibelcooper/etabkg/efficiency"
	"github.com/decibelcooper/etabkg/event"
	"github.com/decibelcooper/etabkg/fiducial"
	"github.com/decibelcooper/etabkg/ntuple"
)

func newCmd(t *testing.T) *cobra.Command {
	t.Helper()
	configPath, treeName, workers, noFiducial = "", "", 1, false
	etaWindow = &etabkg.FloatArrayFlags{Array: []float64{2.0, 4.5}}
	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&configPath, "config", "", "")
	cmd.Flags().StringVar(&treeName, "tree", "", "")
	cmd.Flags().IntVar(&workers, "workers", 1, "")
	cmd.Flags().Var(etaWindow, "eta", "")
	return cmd
}

func TestLoadConfigEtaWindow(t *testing.T) {
	cmd := newCmd(t)
	require.NoError(t, cmd.Flags().Parse([]string{"--eta", "1.8", "--eta", "4.9"}))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 1.8, cfg.Fiducial.EtaMin)
	assert.Equal(t, 4.9, cfg.Fiducial.EtaMax)
	assert.Equal(t, 3000.0, cfg.Fiducial.MuonMinP)
}

func TestLoadConfigBadEtaWindow(t *testing.T) {
	cmd := newCmd(t)
	require.NoError(t, cmd.Flags().Parse([]string{"--eta", "3"}))

	_, err := loadConfig(cmd)
	assert.Error(t, err)
}

func TestPrintEfficiency(t *testing.T) {
	newCmd(t)
	var buf bytes.Buffer
	printEfficiency(&buf, "Efficiency", efficiency.Ratio{Num: 1, Den: 3})
	assert.Equal(t, "Efficiency with fiducial requirements: 0.333333 (1/3)\n", buf.String())

	buf.Reset()
	noFiducial = true
	printEfficiency(&buf, "Signal efficiency", efficiency.Ratio{})
	assert.Equal(t, "Signal efficiency without fiducial requirements: 0.000000 (0/0)\n", buf.String())
}


// signalRaw is one reconstructed and truth-matched decay. Both muons carry
// the given longitudinal momentum.
func signalRaw(muonPz float64) event.Raw {
	return event.Raw{
		TagPID:    []int{221},
		PrtPID:    []int{-13, 13, 22},
		PrtIdxGen: []int{1, 2, 3},
		PrtIdxMom: []int{0, 0, 0},
		MCPID:     []int{221, -13, 13, 22},
		MCIdxMom:  []int{-1, 0, 0, 0},
		MCPx:      []float64{0, 600, -600, 600},
		MCPy:      []float64{0, 0, 0, 0},
		MCPz:      []float64{20000, muonPz, muonPz, 10000},
	}
}

func TestWriteKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kept.root")
	w, err := ntuple.Create(path, "tree")
	require.NoError(t, err)

	req := fiducial.Default
	src := writeKept(analysis.Events(signalRaw(10000), signalRaw(1000)), w, req, req.Event)
	runner := analysis.Runner{Workers: 1, Filter: req.Event}
	res, err := runner.Run(context.Background(), src)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, int64(2), res.Entries)
	assert.Equal(t, int64(1), res.Kept)
	assert.Equal(t, int64(1), w.Entries())
	assert.Equal(t, efficiency.Ratio{Num: 1, Den: 1}, res.Efficiency.SignalMatch)

	var entries []int64
	var pz []float64
	err = ntuple.Scan(path, "tree", func(entry int64, raw event.Raw) error {
		entries = append(entries, entry)
		pz = append(pz, raw.MCPz...)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{0}, entries)
	assert.Equal(t, []float64{20000, 10000, 10000, 10000}, pz)
}

func TestWriteKeptWithoutFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "all.root")
	w, err := ntuple.Create(path, "tree")
	require.NoError(t, err)

	src := writeKept(analysis.Events(signalRaw(10000), signalRaw(1000), event.Raw{}), w, fiducial.Default, nil)
	runner := analysis.Runner{Workers: 1}
	_, err = runner.Run(context.Background(), src)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, int64(3), w.Entries())
}
