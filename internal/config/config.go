package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/ctagd/internal/logging"
	"github.com/danmuck/ctagd/internal/protocol/frame"
	"github.com/danmuck/ctagd/internal/protocol/session"
)

var ErrInvalidConfig = errors.New("config: invalid")

// ServerConfig is the resolved configuration for one ctagd process.
type ServerConfig struct {
	Name              string
	Version           string
	LogLevel          string
	MaxLineBytes      uint64
	MaxPayloadBytes   uint64
	MetricsAddr       string
	LexicalFallback   bool
	DisabledLanguages []string
}

type fileConfig struct {
	Name              string   `toml:"name"`
	Version           string   `toml:"version"`
	LogLevel          string   `toml:"log_level"`
	MaxLineBytes      int64    `toml:"max_line_bytes"`
	MaxPayloadBytes   int64    `toml:"max_payload_bytes"`
	MetricsAddr       string   `toml:"metrics_addr"`
	LexicalFallback   bool     `toml:"lexical_fallback"`
	DisabledLanguages []string `toml:"disabled_languages"`
}

func DefaultServerConfig() ServerConfig {
	limits := frame.DefaultLimits()
	return ServerConfig{
		Name:            session.DefaultProgramName,
		Version:         session.DefaultProgramVersion,
		LogLevel:        "info",
		MaxLineBytes:    limits.MaxLineBytes,
		MaxPayloadBytes: limits.MaxPayloadBytes,
		LexicalFallback: true,
	}
}

// LoadServerConfig overlays the keys present in the TOML file at path onto
// the defaults.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return ServerConfig{}, fmt.Errorf("%w: unknown key %q in %s", ErrInvalidConfig, undecoded[0].String(), path)
	}

	if meta.IsDefined("name") {
		cfg.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("version") {
		cfg.Version = strings.TrimSpace(raw.Version)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("max_line_bytes") {
		if raw.MaxLineBytes < 0 {
			return ServerConfig{}, fmt.Errorf("%w: max_line_bytes must not be negative", ErrInvalidConfig)
		}
		cfg.MaxLineBytes = uint64(raw.MaxLineBytes)
	}
	if meta.IsDefined("max_payload_bytes") {
		if raw.MaxPayloadBytes < 0 {
			return ServerConfig{}, fmt.Errorf("%w: max_payload_bytes must not be negative", ErrInvalidConfig)
		}
		cfg.MaxPayloadBytes = uint64(raw.MaxPayloadBytes)
	}
	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}
	if meta.IsDefined("lexical_fallback") {
		cfg.LexicalFallback = raw.LexicalFallback
	}
	if meta.IsDefined("disabled_languages") {
		cfg.DisabledLanguages = normalizeList(raw.DisabledLanguages)
	}

	if err := ValidateServerConfig(cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

func ValidateServerConfig(cfg ServerConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.Version) == "" {
		return fmt.Errorf("%w: missing version", ErrInvalidConfig)
	}
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok && strings.TrimSpace(cfg.LogLevel) != "" {
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, cfg.LogLevel)
	}
	if cfg.MaxLineBytes != 0 && cfg.MaxLineBytes < 64 {
		return fmt.Errorf("%w: max_line_bytes too small: %d", ErrInvalidConfig, cfg.MaxLineBytes)
	}
	return nil
}

// Limits converts the size settings into reader limits.
func (c ServerConfig) Limits() frame.Limits {
	return frame.Limits{
		MaxLineBytes:    c.MaxLineBytes,
		MaxPayloadBytes: c.MaxPayloadBytes,
	}
}

func normalizeList(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, item := range in {
		v := strings.TrimSpace(item)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
