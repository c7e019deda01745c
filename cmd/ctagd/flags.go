package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/ctagd/internal/config"
	"github.com/spf13/pflag"
)

type options struct {
	configPath      string
	name            string
	programVersion  string
	logLevel        string
	metricsAddr     string
	maxPayloadBytes uint64
	lexicalFallback bool
	disable         []string
	printVersion    bool

	flags *pflag.FlagSet
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("ctagd", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to a TOML config file")
	fs.StringVar(&opts.name, "name", "", "program name announced at startup")
	fs.StringVar(&opts.programVersion, "program-version", "", "program version announced at startup")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: trace|debug|info|warn|error|off")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve /metrics and /health on this address")
	fs.Uint64Var(&opts.maxPayloadBytes, "max-payload-bytes", 0, "reject payloads larger than this (0 = unlimited)")
	fs.BoolVar(&opts.lexicalFallback, "lexical-fallback", true, "tag non-Go files with the lexical tagger")
	fs.StringSliceVar(&opts.disable, "disable-language", nil, "language to emit no tags for (repeatable)")
	fs.BoolVar(&opts.printVersion, "version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: ctagd [flags] < requests > replies\n\nFlags:\n%s", fs.FlagUsages())
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	opts.flags = fs
	return opts, nil
}

// resolve layers defaults, the config file, then explicitly set flags.
func (o *options) resolve() (config.ServerConfig, error) {
	cfg := config.DefaultServerConfig()
	if o.configPath != "" {
		loaded, err := config.LoadServerConfig(o.configPath)
		if err != nil {
			return config.ServerConfig{}, err
		}
		cfg = loaded
	}
	if o.flags.Changed("name") {
		cfg.Name = strings.TrimSpace(o.name)
	}
	if o.flags.Changed("program-version") {
		cfg.Version = strings.TrimSpace(o.programVersion)
	}
	if o.flags.Changed("log-level") {
		cfg.LogLevel = strings.TrimSpace(o.logLevel)
	}
	if o.flags.Changed("metrics-addr") {
		cfg.MetricsAddr = strings.TrimSpace(o.metricsAddr)
	}
	if o.flags.Changed("max-payload-bytes") {
		cfg.MaxPayloadBytes = o.maxPayloadBytes
	}
	if o.flags.Changed("lexical-fallback") {
		cfg.LexicalFallback = o.lexicalFallback
	}
	if o.flags.Changed("disable-language") {
		cfg.DisabledLanguages = append(cfg.DisabledLanguages, o.disable...)
	}
	if err := config.ValidateServerConfig(cfg); err != nil {
		return config.ServerConfig{}, err
	}
	return cfg, nil
}
