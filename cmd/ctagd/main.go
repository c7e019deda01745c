// ctagd speaks the ctags request/reply protocol on stdin/stdout: it announces
// itself, then answers each GenerateTags request with the file's tags and a
// Completed reply until stdin closes.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/danmuck/ctagd/internal/observability"
	"github.com/danmuck/ctagd/internal/protocol"
	"github.com/danmuck/ctagd/internal/protocol/session"
	"github.com/danmuck/ctagd/internal/tags"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "ctagd: %v\n", err)
		return 2
	}
	if opts.printVersion {
		fmt.Fprintf(stdout, "ctagd %s\n", session.DefaultProgramVersion)
		return 0
	}

	cfg, err := opts.resolve()
	if err != nil {
		fmt.Fprintf(stderr, "ctagd: %v\n", err)
		return 2
	}

	logger := observability.InitLogger("ctagd", stderr, cfg.LogLevel)

	analyzer, err := tags.DefaultRegistry(tags.Options{
		LexicalFallback:   cfg.LexicalFallback,
		DisabledLanguages: cfg.DisabledLanguages,
	})
	if err != nil {
		logger.Error().Err(err).Msg("analyzer setup failed")
		return 1
	}

	scfg := session.DefaultConfig()
	scfg.Program = protocol.Program{Name: cfg.Name, Version: cfg.Version}
	scfg.Limits = cfg.Limits()
	scfg.Logger = logger
	if err := scfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "ctagd: %v\n", err)
		return 2
	}

	if cfg.MetricsAddr != "" {
		scfg.Observer = observability.NewSessionMetrics()
	}
	s := session.New(stdin, bufio.NewWriter(stdout), analyzer, scfg)

	if cfg.MetricsAddr != "" {
		srv := observability.NewServer(cfg.MetricsAddr, cfg.Version, logger, func() map[string]uint64 {
			stats := s.Stats()
			return map[string]uint64{
				"requests":      stats.Requests,
				"records":       stats.Records,
				"payload_bytes": stats.PayloadBytes,
			}
		})
		if _, err := srv.Start(); err != nil {
			logger.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics listener failed")
			return 1
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	logger.Info().
		Str("name", cfg.Name).
		Str("version", cfg.Version).
		Strs("extensions", analyzer.Extensions()).
		Bool("lexical_fallback", cfg.LexicalFallback).
		Msg("ctagd started")

	if err := s.Serve(); err != nil {
		return session.ExitCode(err)
	}
	stats := s.Stats()
	logger.Info().
		Uint64("requests", stats.Requests).
		Uint64("records", stats.Records).
		Msg("ctagd stopped")
	return 0
}
