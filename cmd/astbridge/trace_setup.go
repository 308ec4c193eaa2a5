package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"astbridge/internal/trace"
)

// traceFlags reads the persistent --trace* flags into a tracer config.
// An output path alone turns tracing on at phase level.
func traceFlags(cmd *cobra.Command) (trace.Config, error) {
	var cfg trace.Config
	flags := cmd.Root().PersistentFlags()
	out, errOut := flags.GetString("trace")
	levelName, errLevel := flags.GetString("trace-level")
	modeName, errMode := flags.GetString("trace-mode")
	ringSize, errRing := flags.GetInt("trace-ring-size")
	heartbeat, errBeat := flags.GetDuration("trace-heartbeat")
	if err := errors.Join(errOut, errLevel, errMode, errRing, errBeat); err != nil {
		return cfg, fmt.Errorf("reading trace flags: %w", err)
	}
	cfg.OutputPath, cfg.RingSize, cfg.Heartbeat = out, ringSize, heartbeat

	var err error
	if cfg.Level, err = trace.ParseLevel(levelName); err != nil {
		return cfg, err
	}
	if cfg.Level == trace.LevelOff && cfg.OutputPath != "" {
		cfg.Level = trace.LevelPhase
	}
	if cfg.Mode, err = trace.ParseMode(modeName); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// setupTracing attaches a tracer to the command context and returns its
// cleanup. In ring mode the retained events are written to --trace (or
// stderr) on cleanup.
func setupTracing(cmd *cobra.Command) (func(), error) {
	cfg, err := traceFlags(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	session := trace.Begin(tracer, trace.ScopeDriver, cmd.CommandPath(), 0)
	session.WithExtra("session", uuid.NewString())
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: session.ID()})
	cmd.SetContext(ctx)

	stopHeartbeat := trace.StartHeartbeat(ctx, tracer, cfg.Heartbeat)

	return func() {
		stopHeartbeat()
		session.End("")
		// stream modes have written everything already
		if ring, ok := trace.Ring(tracer); ok && cfg.Mode == trace.ModeRing {
			if err := dumpRing(ring, cfg.OutputPath); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}

func dumpRing(ring *trace.RingTracer, path string) error {
	format := trace.FormatForPath(path)
	var w io.Writer = os.Stderr
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return ring.Dump(w, format)
}
