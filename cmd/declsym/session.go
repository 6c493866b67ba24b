package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"declsym/internal/config"
	"declsym/internal/observ"
	"declsym/internal/trace"
	"declsym/internal/workspace"
)

type sessionKey struct{}

// session is the per-invocation state shared by subcommands.
type session struct {
	cfg      config.Config
	tracer   trace.Tracer
	span     *trace.Span
	timer    *observ.Timer
	timings  bool
	useColor bool
	cleanup  func()
}

func startSession(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	useColor, err := colorEnabled(cmd)
	if err != nil {
		return err
	}
	color.NoColor = !useColor

	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	tracer, cleanup, err := setupTracing(cmd, cfg)
	if err != nil {
		return err
	}
	s := &session{
		cfg:      cfg,
		tracer:   tracer,
		timer:    observ.NewTimer(),
		timings:  timings,
		useColor: useColor,
		cleanup:  cleanup,
	}
	s.span = trace.Begin(tracer, trace.ScopeSession, "declsym "+cmd.Name(), 0)

	ctx := context.WithValue(trace.WithTracer(cmd.Context(), tracer), sessionKey{}, s)
	cmd.SetContext(ctx)
	return nil
}

func finishSession(cmd *cobra.Command) {
	s := sessionFrom(cmd.Context())
	s.span.End("")
	if s.timings {
		fmt.Fprint(cmd.ErrOrStderr(), s.timer.Summary())
	}
	s.cleanup()
}

func sessionFrom(ctx context.Context) *session {
	if s, ok := ctx.Value(sessionKey{}).(*session); ok {
		return s
	}
	return &session{cfg: config.Default(), tracer: trace.Nop, timer: observ.NewTimer(), cleanup: func() {}}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.Discover(wd)
}

func colorEnabled(cmd *cobra.Command) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(os.Stdout), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected: auto|on|off)", colorFlag)
	}
}

// loadWorkspace loads path as one traced and timed phase.
func (s *session) loadWorkspace(path string) (*workspace.Workspace, error) {
	span := trace.Begin(s.tracer, trace.ScopeProvider, "load workspace", s.span.ID())
	var ws *workspace.Workspace
	err := s.timer.Measure("load workspace", func() (err error) {
		ws, err = workspace.Load(path)
		return err
	})
	if err != nil {
		span.End("failed")
		return nil, err
	}
	span.WithExtra("files", strconv.Itoa(len(ws.FileIDs()))).End("")
	return ws, nil
}
