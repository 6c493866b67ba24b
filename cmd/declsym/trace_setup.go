package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"declsym/internal/config"
	"declsym/internal/trace"
)

// setupTracing builds the tracer from declsym.toml, letting explicit flags win.
// It returns the tracer and a cleanup function.
func setupTracing(cmd *cobra.Command, cfg config.Config) (trace.Tracer, func(), error) {
	flags := cmd.Root().PersistentFlags()
	tcfg := cfg.TraceConfig()

	if flags.Changed("trace") {
		output, err := flags.GetString("trace")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace flag: %w", err)
		}
		tcfg.OutputPath = output
		tcfg.Mode = trace.ModeStream
		// --trace без уровня включает phase
		if tcfg.Level == trace.LevelOff {
			tcfg.Level = trace.LevelPhase
		}
	}
	if flags.Changed("trace-level") {
		levelStr, err := flags.GetString("trace-level")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-level flag: %w", err)
		}
		level, err := trace.ParseLevel(levelStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid trace level: %w", err)
		}
		tcfg.Level = level
	}
	if flags.Changed("trace-mode") {
		modeStr, err := flags.GetString("trace-mode")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
		}
		mode, err := trace.ParseMode(modeStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid trace mode: %w", err)
		}
		tcfg.Mode = mode
	}

	if tcfg.Level == trace.LevelOff {
		return trace.Nop, func() {}, nil
	}

	tracer, err := trace.New(tcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cleanup := func() {
		// кольцо выводим целиком в конце команды
		if ring, ok := tracer.(*trace.RingTracer); ok {
			if err := ring.Dump(cmd.ErrOrStderr(), trace.FormatText); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}
