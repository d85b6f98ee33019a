// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package config loads and validates the planning/execution session's
// configuration surface: cost-model weights, solver search budget,
// executor tuning, and the static agent pool, all from one YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"intentforge/internal/costmodel"
	"intentforge/internal/executor"
	"intentforge/internal/solver"
	"intentforge/pkg/types"
)

// Config is the complete intentforge configuration surface of spec.md
// §6: cost-model weights, solver budget and overrides, executor
// tuning, and the static agent pool a session's Registry is built from.
type Config struct {
	Project ProjectConfig `yaml:"project"`
	Cost    CostConfig    `yaml:"cost"`
	Solver  SolverConfig  `yaml:"solver"`
	Wave    WaveConfig    `yaml:"wave"`

	// ProfileModels optionally pins a preferred model family per Agent
	// Profile; keys must be one of the seven declared profiles.
	ProfileModels map[types.Profile]string `yaml:"profile_models"`

	Agents []AgentConfig `yaml:"agents"`
}

// ProjectConfig holds session identity, the one field of the teacher's
// original ProjectConfig this domain still needs.
type ProjectConfig struct {
	Name             string `yaml:"name"`
	WorkingDirectory string `yaml:"working_directory"`
}

// CostConfig mirrors costmodel.Weights, spec.md §6's
// overkill_weight/latency_weight/deadline_weight/context_bonus knobs.
type CostConfig struct {
	OverkillWeight float64 `yaml:"overkill_weight"`
	LatencyWeight  float64 `yaml:"latency_weight"`
	DeadlineWeight float64 `yaml:"deadline_weight"`
	ContextBonus   float64 `yaml:"context_bonus"`
	TimePerWave    float64 `yaml:"time_per_wave"`
}

// SolverConfig carries the Assignment Solver's search budget and the
// two optional overrides §6 names.
type SolverConfig struct {
	TimeLimitSeconds     float64  `yaml:"solver_time_limit_seconds"`
	BudgetCap            *float64 `yaml:"budget_cap"`
	QualityFloorOverride *float64 `yaml:"quality_floor_override"`
	RandomSeed           int64    `yaml:"random_seed"`
}

// WaveConfig carries the Wave Executor's tuning knobs.
type WaveConfig struct {
	MaxWorkers            int      `yaml:"max_workers"`
	MaxRetries            int      `yaml:"max_retries"`
	MinWaveQuality        float64  `yaml:"min_wave_quality"`
	StrictWaveGate        bool     `yaml:"strict_wave_gate"`
	SessionTimeoutSeconds *float64 `yaml:"session_timeout_seconds"`
}

// AgentConfig is the YAML shape of one static Agent Registry entry.
type AgentConfig struct {
	Name         string             `yaml:"name"`
	ModelFamily  string             `yaml:"model_family"`
	Quality      float64            `yaml:"quality"`
	TokenRate    float64            `yaml:"token_rate"`
	Capabilities []types.Complexity `yaml:"capabilities"`
	Capacity     int                `yaml:"capacity"`
	Latency      float64            `yaml:"latency"`
	IsLocal      bool               `yaml:"is_local"`
	Throughput   float64            `yaml:"throughput"`
}

// ToAgent converts the YAML shape into pkg/types.Agent.
func (a AgentConfig) ToAgent() types.Agent {
	caps := make(map[types.Complexity]bool, len(a.Capabilities))
	for _, c := range a.Capabilities {
		caps[c] = true
	}
	return types.Agent{
		Name:         a.Name,
		ModelFamily:  a.ModelFamily,
		Quality:      a.Quality,
		TokenRate:    a.TokenRate,
		Capabilities: caps,
		Capacity:     a.Capacity,
		Latency:      a.Latency,
		IsLocal:      a.IsLocal,
		Throughput:   a.Throughput,
	}
}

// Default returns the spec-documented defaults (spec.md §6), with no
// project name/agents — callers must still supply those.
func Default() Config {
	w := costmodel.DefaultWeights()
	return Config{
		Cost: CostConfig{
			OverkillWeight: w.OverkillWeight,
			LatencyWeight:  w.LatencyWeight,
			DeadlineWeight: w.DeadlineWeight,
			ContextBonus:   w.ContextBonus,
			TimePerWave:    w.TimePerWave,
		},
		Solver: SolverConfig{
			TimeLimitSeconds: 10,
		},
		Wave: WaveConfig{
			MaxWorkers:     8,
			MaxRetries:     4,
			MinWaveQuality: 0.70,
		},
	}
}

// Load reads and parses the configuration file at path. Unset numeric
// fields are filled from Default() before validation so a minimal
// config file only has to name what it overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Project.WorkingDirectory == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.Project.WorkingDirectory = cwd
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefaultPath looks for the config file at ./.intentforge/config.yaml
// under the current working directory, the teacher's "well-known relative
// path" idiom generalized past opencode.yaml's fixed name.
func LoadDefaultPath() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return Load(filepath.Join(cwd, ".intentforge", "config.yaml"))
}

// Validate checks the Configuration errors of spec.md §7: negative
// weights, non-positive max_workers/max_retries, and profile_models
// keys outside the seven declared profiles.
func (c *Config) Validate() error {
	if c.Project.Name == "" {
		return fmt.Errorf("project name is required")
	}

	if c.Cost.OverkillWeight < 0 || c.Cost.LatencyWeight < 0 || c.Cost.DeadlineWeight < 0 || c.Cost.ContextBonus < 0 {
		return fmt.Errorf("cost weights must be non-negative")
	}

	if c.Wave.MaxWorkers <= 0 {
		return fmt.Errorf("wave.max_workers must be positive")
	}
	if c.Wave.MaxRetries <= 0 {
		return fmt.Errorf("wave.max_retries must be positive")
	}

	for profile := range c.ProfileModels {
		if !profile.Valid() {
			return fmt.Errorf("profile_models: unknown profile %q", profile)
		}
	}

	for _, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("agents: name is required")
		}
	}

	return nil
}

// CostWeights returns the costmodel.Weights equivalent of c.Cost.
func (c *Config) CostWeights() costmodel.Weights {
	return costmodel.Weights{
		OverkillWeight: c.Cost.OverkillWeight,
		LatencyWeight:  c.Cost.LatencyWeight,
		DeadlineWeight: c.Cost.DeadlineWeight,
		ContextBonus:   c.Cost.ContextBonus,
		TimePerWave:    c.Cost.TimePerWave,
	}
}

// SolverConfig returns the solver.Config equivalent of c.Solver/c.Cost.
func (c *Config) SolverConfig() solver.Config {
	return solver.Config{
		Weights:              c.CostWeights(),
		TimeLimit:            time.Duration(c.Solver.TimeLimitSeconds * float64(time.Second)),
		BudgetCap:            c.Solver.BudgetCap,
		QualityFloorOverride: c.Solver.QualityFloorOverride,
		Seed:                 c.Solver.RandomSeed,
	}
}

// ExecutorConfig returns the executor.Config equivalent of c.Wave.
func (c *Config) ExecutorConfig() executor.Config {
	return executor.Config{
		MaxWorkers:     c.Wave.MaxWorkers,
		MaxRetries:     c.Wave.MaxRetries,
		MinWaveQuality: c.Wave.MinWaveQuality,
		StrictWaveGate: c.Wave.StrictWaveGate,
	}
}

// AgentPool converts every configured AgentConfig to pkg/types.Agent.
func (c *Config) AgentPool() []types.Agent {
	out := make([]types.Agent, 0, len(c.Agents))
	for _, a := range c.Agents {
		out = append(out, a.ToAgent())
	}
	return out
}

// SessionTimeout returns the configured session timeout, or 0 (no
// timeout) if unset.
func (c *Config) SessionTimeout() time.Duration {
	if c.Wave.SessionTimeoutSeconds == nil {
		return 0
	}
	return time.Duration(*c.Wave.SessionTimeoutSeconds * float64(time.Second))
}
