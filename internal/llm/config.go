package llm

import (
	"github.com/spf13/viper"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	// TaskSuggestPlan drafts objectives, methods, resources and assessment
	// for one teaching session.
	TaskSuggestPlan TaskType = "suggest_plan"
)

// TaskConfig holds per-task generation parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides the global timeout when > 0
}

type LLMConfig struct {
	Enabled    bool
	LogCalls   bool
	Endpoint   string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns the built-in settings. Suggestions are off by default.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:    false,
		LogCalls:   false,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  10000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskSuggestPlan: {Temperature: 0.4, MaxTokens: 768, TimeoutMs: 15000},
		},
	}
}

// SetDefaults registers the llm.* keys on v so environment overrides resolve
// with the right types.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("llm.enabled", d.Enabled)
	v.SetDefault("llm.log_calls", d.LogCalls)
	v.SetDefault("llm.endpoint", d.Endpoint)
	v.SetDefault("llm.model", d.Model)
	v.SetDefault("llm.timeout_ms", d.TimeoutMs)
	v.SetDefault("llm.max_retries", d.MaxRetries)
	v.SetDefault("llm.suggest_timeout_ms", d.Tasks[TaskSuggestPlan].TimeoutMs)
}

// LoadConfig reads the llm.* keys from v. Out-of-range numbers keep their
// defaults.
func LoadConfig(v *viper.Viper) LLMConfig {
	cfg := DefaultConfig()
	cfg.Enabled = v.GetBool("llm.enabled")
	cfg.LogCalls = v.GetBool("llm.log_calls")
	if s := v.GetString("llm.endpoint"); s != "" {
		cfg.Endpoint = s
	}
	if s := v.GetString("llm.model"); s != "" {
		cfg.Model = s
	}
	if n := v.GetInt("llm.timeout_ms"); n > 0 {
		cfg.TimeoutMs = n
	}
	if n := v.GetInt("llm.max_retries"); n >= 0 {
		cfg.MaxRetries = n
	}
	if n := v.GetInt("llm.suggest_timeout_ms"); n > 0 {
		tc := cfg.Tasks[TaskSuggestPlan]
		tc.TimeoutMs = n
		cfg.Tasks[TaskSuggestPlan] = tc
	}
	return cfg
}

// TaskTimeout returns the task-specific timeout, falling back to the global one.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}
