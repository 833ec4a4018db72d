// Package config loads the agent configuration from YAML with environment
// overrides for deployment-specific knobs.
package config

// #region imports
import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// #endregion

// #region config-struct

// Config is the full agent configuration. Interval fields are in
// milliseconds; distances are in blocks.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Executor  ExecutorConfig  `yaml:"executor"`
	Behavior  BehaviorConfig  `yaml:"behavior"`
	History   HistoryConfig   `yaml:"history"`
	Policy    PolicyConfig    `yaml:"policy"`
	Inspect   InspectConfig   `yaml:"inspect"`
	Priority  []PriorityRule  `yaml:"priority_rules"`
}

// EngineConfig controls the decision cycle loop.
type EngineConfig struct {
	CycleIntervalMs int  `yaml:"cycle_interval_ms"`
	SyncExecution   bool `yaml:"sync_execution"` // skip cycles while an action is in flight
}

// SchedulerConfig controls the goal scheduler.
type SchedulerConfig struct {
	TickIntervalMs int `yaml:"tick_interval_ms"`
	MaxActiveGoals int `yaml:"max_active_goals"`
	GoalTimeoutMs  int `yaml:"goal_timeout_ms"` // hard persistence cutoff per activation
}

// ExecutorConfig controls action execution and per-kind edge policies.
type ExecutorConfig struct {
	HorizonMinMs   int     `yaml:"horizon_min_ms"`
	HorizonMaxMs   int     `yaml:"horizon_max_ms"`
	ArriveRadius   float64 `yaml:"arrive_radius"`    // navigation success tolerance
	StallEpsilon   float64 `yaml:"stall_epsilon"`    // min progress per poll window
	StallWindowMs  int     `yaml:"stall_window_ms"`  // no-progress window before a nudge
	StallGraceMs   int     `yaml:"stall_grace_ms"`   // post-nudge window before hard failure
	MaxReach       float64 `yaml:"max_reach"`        // mining reach check
	PollIntervalMs int     `yaml:"poll_interval_ms"` // navigation position poll
	MaxVeinNodes   int     `yaml:"max_vein_nodes"`   // flood-fill bound
}

// BehaviorConfig controls stuck detection and override selection.
type BehaviorConfig struct {
	WindowSize       int     `yaml:"window_size"`       // signature ring buffer length
	StuckThreshold   int     `yaml:"stuck_threshold"`   // identical signatures → stuck
	FailedMineLimit  int     `yaml:"failed_mine_limit"`
	OverrideWindowMs int     `yaml:"override_window_ms"`
	ResourceRadius   float64 `yaml:"resource_radius"`   // direct-mine override search radius
	RelocateDistance float64 `yaml:"relocate_distance"` // default randomized relocation
	EscapeDistance   float64 `yaml:"escape_distance"`   // failure-loop relocation
}

// HistoryConfig controls the execution history store.
type HistoryConfig struct {
	Cap    int    `yaml:"cap"`
	DBPath string `yaml:"db_path"`
}

// PolicyConfig points at the external advisor.
type PolicyConfig struct {
	URL       string `yaml:"url"`
	Model     string `yaml:"model"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// InspectConfig controls the local inspection server.
type InspectConfig struct {
	Addr string `yaml:"addr"`
}

// PriorityRule boosts a goal's dynamic priority when its expression holds
// against the current snapshot. Expressions are compiled at startup.
type PriorityRule struct {
	Goal  string `yaml:"goal"`
	When  string `yaml:"when"`
	Boost int    `yaml:"boost"`
}

// #endregion

// #region durations

func (c EngineConfig) CycleInterval() time.Duration    { return msDur(c.CycleIntervalMs) }
func (c SchedulerConfig) TickInterval() time.Duration  { return msDur(c.TickIntervalMs) }
func (c SchedulerConfig) GoalTimeout() time.Duration   { return msDur(c.GoalTimeoutMs) }
func (c ExecutorConfig) HorizonMin() time.Duration     { return msDur(c.HorizonMinMs) }
func (c ExecutorConfig) HorizonMax() time.Duration     { return msDur(c.HorizonMaxMs) }
func (c ExecutorConfig) StallWindow() time.Duration    { return msDur(c.StallWindowMs) }
func (c ExecutorConfig) StallGrace() time.Duration     { return msDur(c.StallGraceMs) }
func (c ExecutorConfig) PollInterval() time.Duration   { return msDur(c.PollIntervalMs) }
func (c BehaviorConfig) OverrideWindow() time.Duration { return msDur(c.OverrideWindowMs) }
func (c PolicyConfig) Timeout() time.Duration          { return msDur(c.TimeoutMs) }

func msDur(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }

// #endregion

// #region defaults

// Default returns the documented default configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			CycleIntervalMs: 5000,
			SyncExecution:   true,
		},
		Scheduler: SchedulerConfig{
			TickIntervalMs: 1000,
			MaxActiveGoals: 2,
			GoalTimeoutMs:  90000,
		},
		Executor: ExecutorConfig{
			HorizonMinMs:   2000,
			HorizonMaxMs:   60000,
			ArriveRadius:   1.5,
			StallEpsilon:   0.35,
			StallWindowMs:  4000,
			StallGraceMs:   8000,
			MaxReach:       4.5,
			PollIntervalMs: 500,
			MaxVeinNodes:   128,
		},
		Behavior: BehaviorConfig{
			WindowSize:       16,
			StuckThreshold:   3,
			FailedMineLimit:  3,
			OverrideWindowMs: 60000,
			ResourceRadius:   12,
			RelocateDistance: 24,
			EscapeDistance:   64,
		},
		History: HistoryConfig{
			Cap:    200,
			DBPath: "agent_history.db",
		},
		Policy: PolicyConfig{
			URL:       "http://localhost:11434/api/generate",
			Model:     "llama3.1",
			TimeoutMs: 30000,
		},
		Inspect: InspectConfig{
			Addr: "127.0.0.1:8077",
		},
		Priority: []PriorityRule{
			{Goal: "survive", When: "health < 8 || food < 6", Boost: 5},
			{Goal: "defend", When: "hostiles > 0 && nearest_hostile < 8", Boost: 4},
			{Goal: "mine", When: "ore_visible && food >= 6", Boost: 2},
		},
	}
}

// #endregion

// #region load

// Load reads a YAML config file, falling back to defaults for absent fields.
// Environment overrides: AGENT_ADVISOR_URL, AGENT_DB.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("AGENT_ADVISOR_URL"); v != "" {
		cfg.Policy.URL = v
	}
	if v := os.Getenv("AGENT_DB"); v != "" {
		cfg.History.DBPath = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// #endregion

// #region validate

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.Engine.CycleIntervalMs <= 0 {
		return fmt.Errorf("config: cycle_interval_ms must be positive, got %d", c.Engine.CycleIntervalMs)
	}
	if c.Scheduler.TickIntervalMs <= 0 {
		return fmt.Errorf("config: tick_interval_ms must be positive, got %d", c.Scheduler.TickIntervalMs)
	}
	if c.Scheduler.MaxActiveGoals < 1 {
		return fmt.Errorf("config: max_active_goals must be at least 1, got %d", c.Scheduler.MaxActiveGoals)
	}
	if c.Executor.HorizonMinMs <= 0 || c.Executor.HorizonMaxMs < c.Executor.HorizonMinMs {
		return fmt.Errorf("config: horizon range [%d, %d] is invalid",
			c.Executor.HorizonMinMs, c.Executor.HorizonMaxMs)
	}
	if c.Behavior.StuckThreshold < 2 {
		return fmt.Errorf("config: stuck_threshold must be at least 2, got %d", c.Behavior.StuckThreshold)
	}
	if c.Behavior.WindowSize < c.Behavior.StuckThreshold {
		return fmt.Errorf("config: window_size %d smaller than stuck_threshold %d",
			c.Behavior.WindowSize, c.Behavior.StuckThreshold)
	}
	if c.History.Cap < 1 {
		return fmt.Errorf("config: history cap must be positive, got %d", c.History.Cap)
	}
	return nil
}

// #endregion
