// Package config loads experiment settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"pursuit/game"

	"gopkg.in/yaml.v3"
)

// ErrInvalid marks every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Seed     uint64  `yaml:"seed"` // 0 draws a fresh seed
	Trials   int     `yaml:"trials"`
	MaxSteps int     `yaml:"maxSteps"`
	World    World   `yaml:"world"`
	Agents   []Agent `yaml:"agents"`
	Planner  Planner `yaml:"planner"`
}

type World struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Capture string `yaml:"capture"`
}

type Agent struct {
	Behavior string  `yaml:"behavior"`
	Epsilon  float64 `yaml:"epsilon,omitempty"` // greedy-probabilistic only
}

type Planner struct {
	Rollouts      int           `yaml:"rollouts"`
	Duration      time.Duration `yaml:"duration"`
	Depth         int           `yaml:"depth"`
	DepthFactor   int           `yaml:"depthFactor"`
	Exploration   float64       `yaml:"exploration"`
	Gamma         float64       `yaml:"gamma"`
	Reuse         bool          `yaml:"reuse"`         // Keep statistics between real-world steps
	TeammateModel string        `yaml:"teammateModel"` // Behavior assumed for other planning agents
	Transfer      *Transfer     `yaml:"transfer,omitempty"`
}

// Transfer enables the dual estimator.
type Transfer struct {
	B           float64 `yaml:"b"`
	Abstraction string  `yaml:"abstraction"`
	CoarseCell  int     `yaml:"coarseCell"`
}

const (
	AbstractionCenterPrey = "center-prey"
	AbstractionCoarse     = "coarse"
)

// Behaviors maps every accepted behavior name to its canonical name.
var Behaviors = map[string]string{
	"prey":                "random",
	"random":              "random",
	"preyrandom":          "random",
	"greedy":              "greedy",
	"gr":                  "greedy",
	"greedyprobabilistic": "greedyprob",
	"greedyprob":          "greedyprob",
	"gp":                  "greedyprob",
	"mcts":                "mcts",
	"uct":                 "mcts",
	"dual":                "dual",
}

// Default is the 5x5 one-predator pursuit setting.
func Default() Config {
	return Config{
		Seed:     1,
		Trials:   10,
		MaxSteps: 500,
		World: World{
			Width:   5,
			Height:  5,
			Capture: "adjacent",
		},
		Agents: []Agent{
			{Behavior: "prey"},
			{Behavior: "mcts"},
		},
		Planner: Planner{
			Rollouts:      1000,
			DepthFactor:   5,
			Exploration:   1.0,
			Gamma:         0.95,
			Reuse:         true,
			TeammateModel: "greedy",
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Canonical returns the canonical behavior name and whether it is known.
func Canonical(behavior string) (string, bool) {
	name, ok := Behaviors[strings.ToLower(behavior)]
	return name, ok
}

func (c Config) Validate() error {
	if c.Trials <= 0 {
		return fmt.Errorf("%w: trials must be positive, got %d", ErrInvalid, c.Trials)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("%w: maxSteps must be positive, got %d", ErrInvalid, c.MaxSteps)
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("%w: world size must be positive, got %dx%d", ErrInvalid, c.World.Width, c.World.Height)
	}
	if _, err := game.ParseCaptureRule(c.World.Capture); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if len(c.Agents) < 2 {
		return fmt.Errorf("%w: need a prey and at least one predator, got %d agents", ErrInvalid, len(c.Agents))
	}
	if len(c.Agents) > game.MaxAgents {
		return fmt.Errorf("%w: at most %d agents, got %d", ErrInvalid, game.MaxAgents, len(c.Agents))
	}
	if len(c.Agents) > c.World.Width*c.World.Height {
		return fmt.Errorf("%w: %d agents do not fit a %dx%d world", ErrInvalid, len(c.Agents), c.World.Width, c.World.Height)
	}
	planners := 0
	for i, agent := range c.Agents {
		name, ok := Canonical(agent.Behavior)
		if !ok {
			return fmt.Errorf("%w: agent %d: unknown behavior %q", ErrInvalid, i, agent.Behavior)
		}
		if i == 0 && name != "random" {
			return fmt.Errorf("%w: agent 0 must be the prey, got %q", ErrInvalid, agent.Behavior)
		}
		if i > 0 && name == "random" {
			return fmt.Errorf("%w: agent %d: only agent 0 may be the prey", ErrInvalid, i)
		}
		if agent.Epsilon < 0 || agent.Epsilon > 1 {
			return fmt.Errorf("%w: agent %d: epsilon must be in [0, 1], got %g", ErrInvalid, i, agent.Epsilon)
		}
		if name == "dual" && c.Planner.Transfer == nil {
			return fmt.Errorf("%w: agent %d: dual behavior needs planner.transfer", ErrInvalid, i)
		}
		if name == "mcts" || name == "dual" {
			planners++
		}
	}

	if planners > 0 {
		if err := c.Planner.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (p Planner) validate() error {
	if p.Rollouts < 0 || p.Duration < 0 {
		return fmt.Errorf("%w: planner budget must not be negative", ErrInvalid)
	}
	if p.Rollouts == 0 && p.Duration == 0 {
		return fmt.Errorf("%w: planner needs rollouts or a duration", ErrInvalid)
	}
	if p.Depth < 0 || p.DepthFactor < 0 {
		return fmt.Errorf("%w: planner depth must not be negative", ErrInvalid)
	}
	if p.Exploration < 0 {
		return fmt.Errorf("%w: exploration must not be negative, got %g", ErrInvalid, p.Exploration)
	}
	if p.Gamma <= 0 || p.Gamma > 1 {
		return fmt.Errorf("%w: gamma must be in (0, 1], got %g", ErrInvalid, p.Gamma)
	}
	if name, ok := Canonical(p.TeammateModel); !ok || name == "mcts" || name == "dual" {
		return fmt.Errorf("%w: teammate model must be a scripted behavior, got %q", ErrInvalid, p.TeammateModel)
	}

	if t := p.Transfer; t != nil {
		if t.B < 0 {
			return fmt.Errorf("%w: transfer b must not be negative, got %g", ErrInvalid, t.B)
		}
		switch t.Abstraction {
		case AbstractionCenterPrey:
		case AbstractionCoarse:
			if t.CoarseCell <= 0 {
				return fmt.Errorf("%w: coarse abstraction needs a positive coarseCell, got %d", ErrInvalid, t.CoarseCell)
			}
		default:
			return fmt.Errorf("%w: unknown abstraction %q", ErrInvalid, t.Abstraction)
		}
	}
	return nil
}

// PlanningDepth is the explicit depth, or depthFactor times the world's half perimeter.
func (c Config) PlanningDepth() int {
	if c.Planner.Depth > 0 {
		return c.Planner.Depth
	}
	return c.Planner.DepthFactor * (c.World.Width + c.World.Height)
}
