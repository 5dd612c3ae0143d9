// Package config loads service and CLI settings from defaults, an optional
// config/.env.<env> file and INHERITANCE_* environment variables.
package config

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"inheritance-engine/internal/engine"
	"inheritance-engine/internal/faraid"
	"inheritance-engine/internal/perdata"
	"inheritance-engine/internal/share"
)

const envPrefix = "INHERITANCE"

type Config struct {
	Env              string
	Port             int
	LogLevel         string
	FaraidRadd       bool
	PerdataSpouseCap string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	MaxBodySize      int
}

// Load reads the configuration. ENV (dev by default) selects the dotenv file
// under dir/config; a missing file is not an error.
func Load(dir string) (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("faraid_radd", false)
	v.SetDefault("perdata_spouse_cap", "")
	v.SetDefault("read_timeout", 10*time.Second)
	v.SetDefault("write_timeout", 10*time.Second)
	v.SetDefault("max_body_size", 1<<20)

	env := strings.ToLower(os.Getenv("ENV")) // dev (default), test, prod
	if env == "" {
		env = "dev"
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(dir, "config", ".env."+env)
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "config: load %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "config: stat %s", dotEnvPath)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	_ = v.BindEnv("log_level", envPrefix+"_LOG_LEVEL", "LOG_LEVEL")

	cfg := &Config{
		Env:              env,
		Port:             v.GetInt("port"),
		LogLevel:         v.GetString("log_level"),
		FaraidRadd:       v.GetBool("faraid_radd"),
		PerdataSpouseCap: v.GetString("perdata_spouse_cap"),
		ReadTimeout:      v.GetDuration("read_timeout"),
		WriteTimeout:     v.GetDuration("write_timeout"),
		MaxBodySize:      v.GetInt("max_body_size"),
	}
	if _, err := cfg.spouseCap(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) spouseCap() (*big.Rat, error) {
	r, ok := share.Parse(strings.TrimSpace(c.PerdataSpouseCap))
	if !ok {
		return nil, errors.Errorf("config: perdata_spouse_cap %q is not a fraction", c.PerdataSpouseCap)
	}
	if r != nil && (r.Sign() <= 0 || r.Cmp(share.One()) > 0) {
		return nil, errors.Errorf("config: perdata_spouse_cap %q must be in (0, 1]", c.PerdataSpouseCap)
	}
	return r, nil
}

// EngineOptions maps the rule switches onto calculator options.
func (c *Config) EngineOptions() engine.Options {
	capRat, _ := c.spouseCap()
	return engine.Options{
		Faraid:  faraid.Options{Radd: c.FaraidRadd},
		Perdata: perdata.Options{SpouseCap: capRat},
	}
}
