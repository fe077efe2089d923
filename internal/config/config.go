// Package config resolves runtime settings from defaults, an optional .env
// file, and SYLLABUS_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/alexanderramin/syllabus/internal/llm"
)

const EnvPrefix = "SYLLABUS"

type Config struct {
	DBPath    string
	TeacherID string
	// LoadTimeout is the soft timeout after which a slow scheme load stops
	// blocking the caller. The load itself keeps running.
	LoadTimeout time.Duration
	// SparsePayloads makes the local scheme source omit sessions without a
	// stored plan, as the remote source does.
	SparsePayloads bool
	LogUseCases    bool
	LLM            llm.LLMConfig
}

// New returns a viper instance bound to the SYLLABUS_ environment with every
// key defaulted. Nested keys map to underscores: llm.model -> SYLLABUS_LLM_MODEL.
func New() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("db_path", defaultDBPath())
	v.SetDefault("teacher_id", "teacher-1")
	v.SetDefault("load_timeout", 60*time.Second)
	v.SetDefault("sparse_payloads", true)
	v.SetDefault("log_use_cases", false)
	llm.SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads dotEnvPath when it exists and resolves the configuration. A
// missing file is not an error; an unreadable one is.
func Load(dotEnvPath string) (*Config, error) {
	if dotEnvPath != "" {
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, fmt.Errorf("loading %s: %w", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("checking %s: %w", dotEnvPath, err)
		}
	}
	return FromViper(New())
}

// FromViper resolves a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DBPath:         v.GetString("db_path"),
		TeacherID:      strings.TrimSpace(v.GetString("teacher_id")),
		LoadTimeout:    v.GetDuration("load_timeout"),
		SparsePayloads: v.GetBool("sparse_payloads"),
		LogUseCases:    v.GetBool("log_use_cases"),
		LLM:            llm.LoadConfig(v),
	}
	if cfg.TeacherID == "" {
		return nil, fmt.Errorf("teacher_id must not be empty")
	}
	if cfg.LoadTimeout <= 0 {
		return nil, fmt.Errorf("load_timeout must be positive, got %s", cfg.LoadTimeout)
	}
	return cfg, nil
}

func defaultDBPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "syllabus", "syllabus.db")
	}
	return "syllabus.db"
}
