package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lumen/internal/consteval"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "List the builtins and operators the evaluator folds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		name := color.New(color.FgCyan)
		for _, b := range consteval.Builtins() {
			fmt.Fprintf(out, "%-20s %d  %s\n", name.Sprint(b.Name), b.Arity, b.Families)
		}
		fmt.Fprintf(out, "\nunary:  %s\n", strings.Join(consteval.UnaryOps(), " "))
		fmt.Fprintf(out, "binary: %s\n", strings.Join(consteval.BinaryOps(), " "))
		return nil
	},
}
