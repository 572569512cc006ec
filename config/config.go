package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config drives a batched run. CaseFiles, when set, wins over the random
// generator fields.
type Config struct {
	BatchSize   int      `yaml:"batch_size"`
	NumJobs     int      `yaml:"num_jobs"`
	NumMachines int      `yaml:"num_machines"`
	Seed        int64    `yaml:"seed"`
	Rule        string   `yaml:"rule"`
	CaseFiles   []string `yaml:"case_files"`

	Generator GeneratorConfig `yaml:"generator"`

	ReportDir string    `yaml:"report_dir"`
	Log       LogConfig `yaml:"log"`
	Gantt     bool      `yaml:"gantt"`
	Parallel  bool      `yaml:"parallel"`
}

type GeneratorConfig struct {
	OpesPerJobMin int `yaml:"opes_per_job_min"`
	OpesPerJobMax int `yaml:"opes_per_job_max"`
	ProcTimeMax   int `yaml:"proc_time_max"`
}

type LogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

func Default() *Config {
	return &Config{
		BatchSize:   4,
		NumJobs:     6,
		NumMachines: 4,
		Seed:        42,
		Rule:        "spt",
		ReportDir:   ".",
		Parallel:    true,
	}
}

// Load reads a YAML file over the defaults. Fields absent from the file
// keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(bs, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.CaseFiles) == 0 {
		if c.BatchSize <= 0 {
			return fmt.Errorf("config: batch_size must be positive, got %d", c.BatchSize)
		}
		if c.NumJobs <= 0 || c.NumMachines <= 0 {
			return fmt.Errorf("config: num_jobs and num_machines must be positive, got %d and %d",
				c.NumJobs, c.NumMachines)
		}
	}
	if c.Rule == "" {
		return fmt.Errorf("config: rule must be set")
	}
	return nil
}
