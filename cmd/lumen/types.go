package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lumen/internal/constant"
	"lumen/internal/types"
)

var typesCmd = &cobra.Command{
	Use:   "types [flags] <type>...",
	Short: "Describe shading-language type names",
	Long:  `Parse type names such as vec3<f32> or array<mat2x2<f16>, 4> and print their canonical name, shape, element type and zero value`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTypes,
}

func init() {
	typesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type typeInfo struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Arity   uint32 `json:"arity"`
	Element string `json:"element,omitempty"`
	Leaf    string `json:"leaf"`
	Zero    string `json:"zero"`
}

func describeType(in *types.Interner, arena *constant.Arena, name string) (typeInfo, error) {
	id, err := in.Parse(name)
	if err != nil {
		return typeInfo{}, err
	}
	tt := in.MustLookup(id)
	info := typeInfo{
		Name: in.FriendlyName(id),
		Kind: tt.Kind.String(),
		Leaf: in.FriendlyName(in.DeepestElementOf(id)),
		Zero: arena.Format(arena.ZeroValue(id)),
	}
	elem, n := in.ElementOf(id)
	info.Arity = n
	if !in.IsScalar(id) && elem != types.NoTypeID {
		info.Element = in.FriendlyName(elem)
	}
	return info, nil
}

func runTypes(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	in := types.NewInterner()
	arena := constant.NewArena(in)
	infos := make([]typeInfo, 0, len(args))
	for _, name := range args {
		info, err := describeType(in, arena, name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		infos = append(infos, info)
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}
	for _, info := range infos {
		renderTypePretty(cmd.OutOrStdout(), info)
	}
	return nil
}

func renderTypePretty(out io.Writer, info typeInfo) {
	bold := color.New(color.Bold)
	fmt.Fprintf(out, "%s (%s)\n", bold.Sprint(info.Name), info.Kind)
	if info.Element != "" {
		fmt.Fprintf(out, "  element: %s x %d\n", info.Element, info.Arity)
	}
	fmt.Fprintf(out, "  leaf:    %s\n", info.Leaf)
	fmt.Fprintf(out, "  zero:    %s\n", strings.TrimSpace(info.Zero))
}
