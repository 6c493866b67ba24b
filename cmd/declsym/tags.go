package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"declsym/internal/symbols"
	"declsym/internal/types"
)

func newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags <workspace.toml>",
		Short: "List the synthetic tag constants of every union",
		Args:  cobra.ExactArgs(1),
		RunE:  runTags,
	}
}

func runTags(cmd *cobra.Command, args []string) error {
	s := sessionFrom(cmd.Context())
	ws, err := s.loadWorkspace(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	unions := ws.Unions()
	if len(unions) == 0 {
		fmt.Fprintln(out, "no unions")
		return nil
	}
	tbl := newTable("MEMBER", "INDEX", "VALUE", "TYPE", "KIND")
	for _, u := range unions {
		for _, tag := range symbols.TagMembers(ws.Types, u) {
			tbl.add(tagRow(ws.Types, tag)...)
		}
	}
	tbl.render(out, s.useColor)
	return nil
}

func tagRow(in *types.Interner, tag *symbols.UnionCaseTag) []string {
	index := color.YellowString("undefined")
	if idx, ok := tag.Index(); ok {
		index = strconv.Itoa(idx)
	}
	return []string{
		tag.String(),
		index,
		tag.ConstantValue().String(),
		types.Label(in, tag.DeclaredType()),
		tag.Kind().String(),
	}
}
