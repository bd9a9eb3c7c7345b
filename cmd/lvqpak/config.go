package main

import (
	"fmt"
	"os"

	"github.com/hupe1980/lvqgo/codebook"
	"github.com/hupe1980/lvqgo/train"
	"gopkg.in/yaml.v3"
)

// Fine-tuning defaults of the run pipeline.
const (
	DefaultFineTuneAlpha = 0.03
	// DefaultTrainFactor times the codebook size gives the OLVQ1 length.
	DefaultTrainFactor = 40
	// DefaultFineTuneFactor times the number of training entries gives the
	// fine-tuning length.
	DefaultFineTuneFactor = 5
)

// RunConfig describes a classifier built by the run pipeline.
type RunConfig struct {
	// Name is the base name of every file the run writes.
	Name string `yaml:"name"`
	// Data is the training data file.
	Data string `yaml:"data"`
	// Test is the file accuracy is measured on. Defaults to Data.
	Test string `yaml:"test,omitempty"`

	Codebooks  int    `yaml:"codebooks"`
	Allocation string `yaml:"allocation"`
	KNN        int    `yaml:"knn"`
	// BalanceRounds is the number of balancing passes after initialization.
	BalanceRounds int `yaml:"balance_rounds"`

	Train    TrainConfig    `yaml:"train"`
	FineTune FineTuneConfig `yaml:"finetune"`
}

// TrainConfig configures the OLVQ1 stage.
type TrainConfig struct {
	// Length defaults to DefaultTrainFactor times the codebook size.
	Length int64 `yaml:"length"`
}

// FineTuneConfig configures the LVQ1, LVQ2.1 or LVQ3 stage.
type FineTuneConfig struct {
	// Algorithm is lvq1, lvq2 or lvq3. Empty skips fine-tuning.
	Algorithm string `yaml:"algorithm"`
	// Length defaults to DefaultFineTuneFactor times the training entries.
	Length  int64   `yaml:"length"`
	Alpha   float32 `yaml:"alpha"`
	Window  float32 `yaml:"window"`
	Epsilon float32 `yaml:"epsilon"`
}

// DefaultRunConfig returns a configuration with every optional field set.
// Name, Data and Codebooks still have to be filled in.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Allocation: codebook.Even.String(),
		KNN:        codebook.DefaultKNN,
		FineTune: FineTuneConfig{
			Algorithm: train.LVQ1.String(),
			Alpha:     DefaultFineTuneAlpha,
			Window:    train.DefaultWindow,
			Epsilon:   train.DefaultEpsilon,
		},
	}
}

// LoadRunConfig reads a YAML file on top of DefaultRunConfig.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read run config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse run config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration.
func (c RunConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("run config: name is required")
	}
	if c.Data == "" {
		return fmt.Errorf("run config: data is required")
	}
	if c.Codebooks < 1 {
		return fmt.Errorf("run config: codebooks must be positive (got %d)", c.Codebooks)
	}
	if _, err := codebook.ParseAllocation(c.Allocation); err != nil {
		return fmt.Errorf("run config: %w", err)
	}
	if c.KNN < 1 {
		return fmt.Errorf("run config: knn must be positive (got %d)", c.KNN)
	}
	if c.BalanceRounds < 0 {
		return fmt.Errorf("run config: balance_rounds cannot be negative (got %d)", c.BalanceRounds)
	}
	if c.Train.Length < 0 {
		return fmt.Errorf("run config: train length cannot be negative (got %d)", c.Train.Length)
	}
	return c.FineTune.Validate()
}

// Validate checks the fine-tuning stage. OLVQ1 is not a fine-tuning algorithm.
func (f FineTuneConfig) Validate() error {
	if f.Algorithm == "" {
		return nil
	}
	algo, err := train.ParseAlgorithm(f.Algorithm)
	if err != nil {
		return fmt.Errorf("run config: %w", err)
	}
	if algo == train.OLVQ1 {
		return fmt.Errorf("run config: olvq1 cannot be used for fine-tuning")
	}
	if f.Length < 0 {
		return fmt.Errorf("run config: finetune length cannot be negative (got %d)", f.Length)
	}
	if f.Alpha <= 0 || f.Alpha >= 1 {
		return fmt.Errorf("run config: finetune alpha must be in (0, 1) (got %g)", f.Alpha)
	}
	if f.Window <= 0 || f.Window >= 1 {
		return fmt.Errorf("run config: finetune window must be in (0, 1) (got %g)", f.Window)
	}
	return nil
}

// TestFile returns the file accuracy is measured on.
func (c RunConfig) TestFile() string {
	if c.Test != "" {
		return c.Test
	}
	return c.Data
}
