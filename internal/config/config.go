// Package config provides the application configuration for eegprep.
//
// Configuration is resolved in three layers: built-in defaults, an optional
// YAML file, then EEGPREP_* environment variables. Later layers win.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Sampling SamplingSpec  `yaml:"sampling" envconfig:"SAMPLING"`
	Batch    BatchConfig   `yaml:"batch" envconfig:"BATCH"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// SamplingSpec describes the acquisition and band-limiting parameters of a
// recording. The filter is well-posed only when
// 0 < Lowcut < Highcut < SamplingRate/2; the filter engine clamps the band
// into that interval and rejects it outright when clamping cannot help.
type SamplingSpec struct {
	SamplingRate float64 `yaml:"sampling_rate_hz" envconfig:"RATE_HZ" validate:"gt=0"`
	Lowcut       float64 `yaml:"lowcut_hz" envconfig:"LOWCUT_HZ" validate:"gt=0"`
	Highcut      float64 `yaml:"highcut_hz" envconfig:"HIGHCUT_HZ" validate:"gt=0"`
	Order        int     `yaml:"order" envconfig:"ORDER" validate:"gte=1"`
}

// Nyquist returns half the sampling rate
func (s SamplingSpec) Nyquist() float64 {
	return s.SamplingRate / 2
}

// BatchConfig contains batch processing configuration
type BatchConfig struct {
	// TargetFiles is the set of per-task recording file names processed by
	// the diagnose and filter operations.
	TargetFiles []string `yaml:"target_files" envconfig:"TARGET_FILES"`
	// OutputSuffix is inserted before the extension of filtered outputs.
	OutputSuffix string `yaml:"output_suffix" envconfig:"OUTPUT_SUFFIX"`
	// ExpectedChannels is the channel count a well-formed recording carries.
	// Deviations are reported, not fatal.
	ExpectedChannels int `yaml:"expected_channels" envconfig:"EXPECTED_CHANNELS" validate:"gte=1"`
	// Workers bounds per-file parallelism. 1 keeps the batch fully
	// sequential.
	Workers int `yaml:"workers" envconfig:"WORKERS" validate:"gte=1"`
}

// Default returns the default configuration for the standard EEG use case:
// 250 Hz sampling, 0.5-40 Hz pass band, order 4, 19-channel recordings.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/eegprep.log",
		},
		Sampling: SamplingSpec{
			SamplingRate: 250,
			Lowcut:       0.5,
			Highcut:      40,
			Order:        4,
		},
		Batch: BatchConfig{
			TargetFiles:      []string{"task1_memorize.csv", "task2_viewing.csv", "task3_recall.csv"},
			OutputSuffix:     "_filtered",
			ExpectedChannels: 19,
			Workers:          1,
		},
	}
}

// DefaultRenameMap maps raw recording file base names to their canonical
// task names, used by the rename operation.
func DefaultRenameMap() map[string]string {
	return map[string]string{
		"EC": "eyes_closed",
		"EO": "eyes_open",
		"H":  "happy",
		"C":  "calm",
		"S":  "sad",
		"F":  "fear",
		"M":  "task1_memorize",
		"ET": "task2_viewing",
		"R":  "task3_recall",
	}
}

// Load loads configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := envconfig.Process("EEGPREP", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Sampling.Lowcut >= c.Sampling.Highcut {
		return fmt.Errorf("lowcut %.2f Hz must be below highcut %.2f Hz",
			c.Sampling.Lowcut, c.Sampling.Highcut)
	}

	switch c.Logging.Output {
	case "stdout", "file", "both":
	default:
		return fmt.Errorf("invalid logging output %q (want stdout, file or both)", c.Logging.Output)
	}

	if len(c.Batch.TargetFiles) == 0 {
		return fmt.Errorf("at least one target file name must be configured")
	}

	return nil
}
