// Package config holds the analysis settings shared by the commands.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decibelcooper/etabkg/fiducial"
)

// Config holds all analysis configuration.
type Config struct {
	// Tree is the name of the ntuple TTree in the input files.
	Tree string `yaml:"tree"`

	// Workers is the number of event shards classified concurrently.
	Workers int `yaml:"workers"`

	// ProgressInterval logs progress every N entries; 0 disables it.
	ProgressInterval int64 `yaml:"progress_interval"`

	Fiducial  FiducialConfig  `yaml:"fiducial"`
	Histogram HistogramConfig `yaml:"histogram"`
}

// FiducialConfig configures the acceptance requirements (MeV).
type FiducialConfig struct {
	EtaMin      float64 `yaml:"eta_min"`
	EtaMax      float64 `yaml:"eta_max"`
	MuonMinPT   float64 `yaml:"muon_min_pt"`
	MuonMinP    float64 `yaml:"muon_min_p"`
	PhotonMinPT float64 `yaml:"photon_min_pt"`
}

// HistogramConfig sets the PID range of the exported mismatch histograms.
type HistogramConfig struct {
	PIDMin int `yaml:"pid_min"`
	PIDMax int `yaml:"pid_max"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tree:             "tree",
		Workers:          1,
		ProgressInterval: 100000,
		Fiducial: FiducialConfig{
			EtaMin:      fiducial.Default.EtaMin,
			EtaMax:      fiducial.Default.EtaMax,
			MuonMinPT:   fiducial.Default.MuonMinPT,
			MuonMinP:    fiducial.Default.MuonMinP,
			PhotonMinPT: fiducial.Default.PhotonMinPT,
		},
		Histogram: HistogramConfig{
			PIDMin: -2500,
			PIDMax: 2500,
		},
	}
}

// Load reads a YAML file over the defaults. Fields absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("could not encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("could not write config %q: %w", path, err)
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Tree == "" {
		errs = append(errs, errors.New("tree name is empty"))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if c.ProgressInterval < 0 {
		errs = append(errs, fmt.Errorf("progress_interval must be >= 0, got %d", c.ProgressInterval))
	}
	if c.Fiducial.EtaMax <= c.Fiducial.EtaMin {
		errs = append(errs, fmt.Errorf("fiducial eta window (%g, %g) is empty", c.Fiducial.EtaMin, c.Fiducial.EtaMax))
	}
	if c.Histogram.PIDMax <= c.Histogram.PIDMin {
		errs = append(errs, fmt.Errorf("histogram PID range [%d, %d] is empty", c.Histogram.PIDMin, c.Histogram.PIDMax))
	}
	return errors.Join(errs...)
}

// Requirements converts the fiducial section.
func (c *Config) Requirements() fiducial.Requirements {
	return fiducial.Requirements{
		EtaMin:      c.Fiducial.EtaMin,
		EtaMax:      c.Fiducial.EtaMax,
		MuonMinPT:   c.Fiducial.MuonMinPT,
		MuonMinP:    c.Fiducial.MuonMinP,
		PhotonMinPT: c.Fiducial.PhotonMinPT,
	}
}
