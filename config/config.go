// Package config loads run configuration from YAML. Every knob has a usable
// zero-value default so a batch run works with no config file at all.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML can carry values like "30s" or "2m".
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Oracle names an optional external analyzer to run beside the structural
// one. Empty Command disables the oracle.
type Oracle struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// Run holds the settings of one batch run.
type Run struct {
	CorpusDir      string   `yaml:"corpus_dir"`
	Pattern        string   `yaml:"pattern"`
	Concurrency    int      `yaml:"concurrency"`
	PerFileTimeout Duration `yaml:"per_file_timeout"`
	BatchSize      int      `yaml:"batch_size"`
	ProgressEvery  int      `yaml:"progress_every"`
	CheckpointFile string   `yaml:"checkpoint_file"`
	ReportFile     string   `yaml:"report_file"`
	MaxIssues      int      `yaml:"max_issues"`
	Oracle         Oracle   `yaml:"oracle"`
}

func Default() Run {
	return Run{
		Pattern:        "*.pdf",
		Concurrency:    4,
		PerFileTimeout: Duration(30 * time.Second),
		BatchSize:      50,
		ProgressEvery:  10,
		CheckpointFile: "pdf_analysis_checkpoint.json",
		MaxIssues:      100,
	}
}

// Load reads a YAML config file over the defaults. Fields absent from the
// file keep their default values.
func Load(path string) (Run, error) {
	r := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("parse config: %w", err)
	}
	return r, nil
}

func (r Run) Validate() error {
	if r.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", r.Concurrency)
	}
	if r.BatchSize < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", r.BatchSize)
	}
	if r.PerFileTimeout <= 0 {
		return fmt.Errorf("per-file timeout must be positive, got %s", r.PerFileTimeout.Std())
	}
	if r.ProgressEvery < 1 {
		return fmt.Errorf("progress interval must be at least 1, got %d", r.ProgressEvery)
	}
	if r.Pattern == "" {
		return fmt.Errorf("file pattern must not be empty")
	}
	return nil
}
