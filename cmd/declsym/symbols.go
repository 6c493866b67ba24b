package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"declsym/internal/resolve"
	"declsym/internal/symbols"
	"declsym/internal/trace"
)

type symbolsOptions struct {
	warm bool
}

func newSymbolsCmd() *cobra.Command {
	var opts symbolsOptions
	cmd := &cobra.Command{
		Use:   "symbols <workspace.toml> <file>",
		Short: "Show the resolved symbols of one file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSymbols(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.warm, "warm", false, "bind every workspace file before answering")
	return cmd
}

func runSymbols(cmd *cobra.Command, args []string, opts symbolsOptions) error {
	s := sessionFrom(cmd.Context())
	ctx := cmd.Context()

	ws, err := s.loadWorkspace(args[0])
	if err != nil {
		return err
	}
	file, ok := ws.FileByPath(args[1])
	if !ok {
		return fmt.Errorf("%s: no file %q in workspace", args[0], args[1])
	}

	cache := resolve.NewCachingProvider(ws.Files, ws.Binder(), resolve.WithTracer(s.tracer))
	router := resolve.NewRouter(ws.Files, cache, resolve.ExtensionClassifier(s.cfg.Resolve.MiscExtensions))
	if opts.warm {
		err := s.timer.Measure("warm", func() error {
			return cache.Warm(ctx, ws.FileIDs(), s.cfg.Resolve.WarmJobs)
		})
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	kind := router.Kind(file)
	var syms resolve.FileSymbols
	s.timer.Track("resolve", func() {
		syms = router.ResolvedSymbols(ctx, file)
	})
	fmt.Fprintf(out, "%s (%s)\n", args[1], kind)
	if syms.Len() == 0 {
		if kind == resolve.FileMisc {
			fmt.Fprintln(out, color.HiBlackString("misc file: no resolved symbols"))
		} else {
			fmt.Fprintln(out, "no symbols")
		}
		return nil
	}

	tbl := newTable("SPAN", "NAME", "KIND", "ELEMENT", "ROLE")
	for _, use := range append(syms.Declared(), syms.Resolved()...) {
		role := "use"
		if use.IsDeclaration {
			role = color.GreenString("decl")
		}
		tbl.add(use.Span.String(), use.Name, elementKind(use.Element), describe(use.Element), role)
	}
	tbl.render(out, s.useColor)

	st := cache.Stats()
	trace.Point(s.tracer, trace.ScopeSession, "cache", "hits="+strconv.FormatUint(st.Hits, 10)+" misses="+strconv.FormatUint(st.Misses, 10))
	return nil
}

func elementKind(el symbols.DeclaredElement) string {
	if el == nil {
		return "-"
	}
	return el.Kind().String()
}

func describe(el symbols.DeclaredElement) string {
	if el == nil {
		return "-"
	}
	if s, ok := el.(fmt.Stringer); ok {
		return s.String()
	}
	return el.ShortName()
}
