package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/decibelcooper/etabkg"
	"github.com/decibelcooper/etabkg/analysis"
	"github.com/decibelcooper/etabkg/config"
	"github.com/decibelcooper/etabkg/report"
)

var (
	configPath    string
	treeName      string
	workers       int
	verbose       bool
	debug         bool
	outfile       string
	yodaPath      string
	applyFiducial bool
	cpuProfile    string

	runID  string
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bkg_ana [options] <root-input-files>...",
	Short: "Classify eta -> mu+ mu- gamma candidates as signal or background",
	Long: `bkg_ana truth-matches every reconstructed eta candidate of the input
ntuples, classifies mis-reconstructed candidates by cause and reports the
reconstruction and signal-matching efficiencies.

Input files are read in order as one sample.`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		runID = uuid.NewString()
		var err error
		logger, err = etabkg.NewLogger(debug, runID)
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
	flags.IntVarP(&workers, "workers", "j", 1, "number of concurrent classification workers (overrides config)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "include per-candidate information")
	flags.BoolVar(&debug, "debug", false, "enable debug logging")
	flags.StringVarP(&outfile, "outfile", "o", "", "write the report to this file instead of stdout")
	flags.StringVar(&yodaPath, "yoda", "", "write mismatch histograms in YODA format to this file")
	flags.BoolVarP(&applyFiducial, "fiducial", "f", false, "apply the fiducial requirements before analysis")
	flags.StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile to this directory")
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

	req := cfg.Requirements()
	runner := analysis.Runner{
		Workers:          cfg.Workers,
		KeepCandidates:   verbose,
		ProgressInterval: cfg.ProgressInterval,
		Logger:           logger,
	}
	runner.Matcher.Acceptance = req.Accepts
	if applyFiducial {
		runner.Filter = req.Event
	}

	logger.Info("starting background analysis",
		zap.Strings("inputs", args),
		zap.String("tree", cfg.Tree),
		zap.Int("workers", cfg.Workers),
		zap.Bool("fiducial", applyFiducial))

	res, err := runner.Run(cmd.Context(), analysis.Files(cfg.Tree, args...))
	if err != nil {
		return err
	}

	rep := report.Report{RunID: runID, Inputs: args, Result: res, Verbose: verbose}
	if err := writeReport(cmd, rep); err != nil {
		return err
	}

	if yodaPath != "" {
		if err := writeYODA(res, cfg); err != nil {
			return err
		}
		logger.Info("wrote histograms", zap.String("path", yodaPath))
	}
	return nil
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
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

func writeReport(cmd *cobra.Command, rep report.Report) error {
	if outfile == "" {
		return report.Render(cmd.OutOrStdout(), rep)
	}

	f, err := os.Create(outfile)
	if err != nil {
		return fmt.Errorf("could not create report file: %w", err)
	}
	defer f.Close()

	if err := report.Render(f, rep); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close report file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Background analysis results written to %s.\n", outfile)
	return nil
}

func writeYODA(res *analysis.Result, cfg *config.Config) error {
	f, err := os.Create(yodaPath)
	if err != nil {
		return fmt.Errorf("could not create YODA file: %w", err)
	}
	defer f.Close()

	if err := report.WriteYODA(f, &res.Tally, cfg.Histogram.PIDMin, cfg.Histogram.PIDMax); err != nil {
		return err
	}
	return f.Close()
}
