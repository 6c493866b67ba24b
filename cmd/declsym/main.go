package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"declsym/internal/version"
)

// newRootCmd builds the command tree. Flag values live in the returned
// commands, so every tree starts from defaults.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "declsym",
		Short:         "Inspect union tag members and resolved symbols",
		Long:          `declsym materialises a workspace description and shows the synthetic tag constants of its unions and the resolved symbols of its files`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return startSession(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			finishSession(cmd)
		},
	}

	rootCmd.AddCommand(newTagsCmd())
	rootCmd.AddCommand(newSymbolsCmd())
	rootCmd.AddCommand(newHandleCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	addPersistentFlags(rootCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	cmd.PersistentFlags().String("config", "", "path to declsym.toml (default: search upwards from the working directory)")
	cmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	cmd.PersistentFlags().String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	cmd.PersistentFlags().String("trace-mode", "", "trace storage mode (stream|ring|both)")
	cmd.PersistentFlags().Bool("timings", false, "print phase timings to stderr")
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
