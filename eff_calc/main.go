package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/decibelcooper/etabkg"
	"github.com/decibelcooper/etabkg/analysis"
	"github.com/decibelcooper/etabkg/config"
	"github.com/decibelcooper/etabkg/efficiency"
	"github.com/decibelcooper/etabkg/event"
	"github.com/decibelcooper/etabkg/fiducial"
	"github.com/decibelcooper/etabkg/ntuple"
)

var (
	configPath string
	treeName   string
	workers    int
	noFiducial bool
	debug      bool
	cpuProfile string
	outFile    string
	etaWindow  = &etabkg.FloatArrayFlags{Array: []float64{2.0, 4.5}}

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "eff_calc [options] <root-input-files>...",
	Short: "Apply fiducial requirements and compute eta -> mu+ mu- gamma efficiencies",
	Long: `eff_calc keeps the entries whose generator-level signal decays pass the
fiducial requirements and reports the reconstruction and signal-matching
efficiencies of the kept sample.

The pseudorapidity window is given as two --eta values, e.g.
  eff_calc --eta 2 --eta 4.5 reduced.root`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = etabkg.NewLogger(debug, uuid.NewString())
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&treeName, "tree", "", "name of the ntuple tree (overrides config)")
	flags.IntVarP(&workers, "workers", "j", 1, "number of concurrent workers (overrides config)")
	flags.Var(etaWindow, "eta", "pseudorapidity window bound, given twice (overrides config)")
	flags.BoolVar(&noFiducial, "no-fiducial", false, "compute efficiencies without fiducial requirements")
	flags.BoolVar(&debug, "debug", false, "enable debug logging")
	flags.StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile to this directory")
	flags.StringVarP(&outFile, "outfile", "o", "", "write the kept entries to this ROOT file")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cpuProfile), profile.Quiet).Stop()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	runner := analysis.Runner{
		Workers:          cfg.Workers,
		ProgressInterval: cfg.ProgressInterval,
		Logger:           logger,
	}
	req := cfg.Requirements()
	if !noFiducial {
		runner.Filter = req.Event
	}

	out := cmd.OutOrStdout()
	src := analysis.Files(cfg.Tree, args...)
	var w *ntuple.Writer
	if outFile != "" {
		fmt.Fprintf(out, "Reading from %s, writing to %s.\n", strings.Join(args, ", "), outFile)
		w, err = ntuple.Create(outFile, cfg.Tree)
		if err != nil {
			return err
		}
		src = writeKept(src, w, req, runner.Filter)
	} else {
		fmt.Fprintf(out, "Reading from %s.\n", strings.Join(args, ", "))
	}

	res, err := runner.Run(cmd.Context(), src)
	if w != nil {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Total entries: %d\n", res.Entries)
	fmt.Fprintf(out, "Total kept entries: %d\n", res.Kept)
	if w != nil {
		fmt.Fprintf(out, "Done: wrote %d entries to %s.\n", w.Entries(), outFile)
	}
	printEfficiency(out, "Efficiency", res.Efficiency.Reconstruction)
	printEfficiency(out, "Signal efficiency", res.Efficiency.SignalMatch)
	return nil
}

// writeKept copies every entry accepted by keep (all entries when keep is
// nil) to w, with the per-particle acceptance flags of req, before handing it
// on.
func writeKept(src analysis.Source, w *ntuple.Writer, req fiducial.Requirements, keep func(*event.Event) bool) analysis.Source {
	return func(fn ntuple.ScanFunc) error {
		return src(func(entry int64, raw event.Raw) error {
			ev := event.Decode(entry, raw)
			if keep == nil || keep(&ev) {
				if err := w.Write(raw, req.Flags(&ev)); err != nil {
					return err
				}
			}
			return fn(entry, raw)
		})
	}
}

func printEfficiency(w io.Writer, label string, r efficiency.Ratio) {
	qualifier := "with fiducial requirements"
	if noFiducial {
		qualifier = "without fiducial requirements"
	}
	fmt.Fprintf(w, "%s %s: %.6f (%d/%d)\n", label, qualifier, r.Efficiency(), r.Num, r.Den)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("tree") {
		cfg.Tree = treeName
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if etaWindow.Changed() {
		low, high, err := etaWindow.Window()
		if err != nil {
			return nil, fmt.Errorf("invalid --eta: %w", err)
		}
		cfg.Fiducial.EtaMin, cfg.Fiducial.EtaMax = low, high
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}
