package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"declsym/internal/symbols"
	"declsym/internal/trace"
	"declsym/internal/workspace"
)

type handleOptions struct {
	decode string
}

func newHandleCmd() *cobra.Command {
	var opts handleOptions
	cmd := &cobra.Command{
		Use:   "handle <workspace.toml> [Union.Case]",
		Short: "Encode a tag member handle and resolve it back",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHandle(cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.decode, "decode", "", "resolve a previously printed hex handle instead of Union.Case")
	return cmd
}

func runHandle(cmd *cobra.Command, args []string, opts handleOptions) error {
	s := sessionFrom(cmd.Context())
	ws, err := s.loadWorkspace(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if opts.decode != "" {
		var el symbols.DeclaredElement
		err := s.timer.Measure("decode", func() error {
			var err error
			el, err = decodeHandle(ws, opts.decode)
			return err
		})
		if err != nil {
			trace.Failure(s.tracer, trace.ScopeSession, "decode handle", err.Error())
			return err
		}
		fmt.Fprintf(out, "resolves: %s\n", describe(el))
		return nil
	}

	if len(args) != 2 {
		return errors.New("expected Union.Case or --decode")
	}
	unionName, caseName, err := parseCaseRef(args[1])
	if err != nil {
		return err
	}
	origin := symbols.UnionCasePointer{UnionName: unionName, CaseName: caseName}
	tag, ok := (&symbols.UnionCaseTagPointer{Origin: origin}).ResolveTag(ws.Types)
	if !ok {
		return fmt.Errorf("no case %s.%s", unionName, caseName)
	}

	span := trace.Begin(s.tracer, trace.ScopeSession, "round-trip "+tag.String(), s.span.ID())
	var data []byte
	err = s.timer.Measure("round-trip", func() error {
		var err error
		data, err = symbols.EncodePointer(tag.CreatePointer())
		if err != nil {
			return err
		}
		back, err := decodeHandle(ws, hex.EncodeToString(data))
		if err != nil {
			return err
		}
		if !back.Equal(tag) {
			return errors.New("handle did not round-trip")
		}
		return nil
	})
	if err != nil {
		span.End("failed")
		return err
	}
	span.WithExtra("bytes", fmt.Sprint(len(data))).End("")

	fmt.Fprintf(out, "handle:   %s\n", hex.EncodeToString(data))
	fmt.Fprintf(out, "resolves: %s = %s\n", tag, tag.ConstantValue())
	return nil
}

func decodeHandle(ws *workspace.Workspace, text string) (symbols.DeclaredElement, error) {
	data, err := hex.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("invalid handle: %w", err)
	}
	ptr, err := symbols.DecodePointer(data)
	if err != nil {
		return nil, err
	}
	el, ok := ptr.Resolve(ws.Types)
	if !ok {
		return nil, errors.New("handle no longer resolves")
	}
	return el, nil
}

// parseCaseRef splits "Union.Case"; names are NFC-normalised like the
// workspace does.
func parseCaseRef(ref string) (union, uc string, err error) {
	ref = workspace.Name(ref)
	union, uc, ok := strings.Cut(ref, ".")
	if !ok || union == "" || uc == "" || strings.Contains(uc, ".") {
		return "", "", fmt.Errorf("expected Union.Case, got %q", ref)
	}
	return union, uc, nil
}
