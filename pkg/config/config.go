// Copyright 2026 Benoit Pereira da Silva
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads pipeline settings from defaults, an optional YAML
// file, an optional .env file and TEXTPIPE_* environment variables, in
// increasing order of precedence.
//
//	cfg, err := config.Load(config.Options{File: "textpipe.yml"})
//	if err != nil {
//	    return err
//	}
//	log, closer, err := cfg.Logging.NewLogger()
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
//	src := textual.NewSource(text, textual.WithSettings(cfg.Pipe), textual.WithLogger(log))
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/benoit-pereira-da-silva/textpipe/pkg/match"
)

// EnvPrefix prefixes every environment override, e.g. TEXTPIPE_PIPE_CAPACITY.
const EnvPrefix = "TEXTPIPE"

// Settings tune a single stage.
type Settings struct {
	// Capacity is the byte capacity of the stage's output connector.
	Capacity int `mapstructure:"capacity" yaml:"capacity" validate:"min=1"`
	// ChunkSize bounds the size of a single source write. Zero writes one line at a time.
	ChunkSize int `mapstructure:"chunk_size" yaml:"chunk_size" validate:"min=0"`
	// MaxLine is the longest line a line stage accepts.
	MaxLine int `mapstructure:"max_line" yaml:"max_line" validate:"min=1"`
	// Engine names the regular expression engine: "re2" or "backtracking".
	Engine string `mapstructure:"engine" yaml:"engine" validate:"oneof=re2 backtracking"`
	// MatchTimeout bounds a single backtracking search, e.g. "250ms". Zero disables it.
	MatchTimeout time.Duration `mapstructure:"match_timeout" yaml:"match_timeout" validate:"min=0"`
}

// MatchEngine returns the parsed Engine.
func (s Settings) MatchEngine() match.Engine {
	e, err := match.ParseEngine(s.Engine)
	if err != nil {
		return match.RE2
	}
	return e
}

// Config is the root document.
type Config struct {
	Pipe    Settings `mapstructure:"pipe" yaml:"pipe" validate:"required"`
	Logging Logging  `mapstructure:"logging" yaml:"logging" validate:"required"`
}

// Options locate the sources Load reads from.
type Options struct {
	// File is an optional YAML configuration file.
	File string
	// EnvFile is an optional dotenv file loaded into the process environment.
	EnvFile string
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Pipe: Settings{
			Capacity:     1024,
			ChunkSize:    0,
			MaxLine:      1 << 20,
			Engine:       string(match.RE2),
			MatchTimeout: match.DefaultTimeout,
		},
		Logging: Logging{
			Level:  "warn",
			Format: "json",
			Output: "stderr",
		},
	}
}

// Load reads and validates the configuration.
func Load(opts Options) (Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return Config{}, fmt.Errorf("config: load env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v, Defaults())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", opts.File, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("pipe.capacity", d.Pipe.Capacity)
	v.SetDefault("pipe.chunk_size", d.Pipe.ChunkSize)
	v.SetDefault("pipe.max_line", d.Pipe.MaxLine)
	v.SetDefault("pipe.engine", d.Pipe.Engine)
	v.SetDefault("pipe.match_timeout", d.Pipe.MatchTimeout)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.no_color", d.Logging.NoColor)
}

func (c *Config) normalize() {
	c.Pipe.Engine = strings.ToLower(strings.TrimSpace(c.Pipe.Engine))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s (got: %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("config: invalid: %s", strings.Join(msgs, "; "))
}
