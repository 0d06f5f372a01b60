package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/dimension"
	"github.com/matzehuels/lineage/pkg/transformer"
)

// transformersCommand lists the registered transformers, or one
// transformer's parameters.
func (c *CLI) transformersCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "transformers [id]",
		Aliases: []string{"ls"},
		Short:   "List available transformers or describe one",
		Args:    cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return c.newRunner().Registry.IDs(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := c.newRunner().Registry
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), transformersTable(reg.List()))
				return nil
			}
			cfg, err := reg.Lookup(args[0])
			if err != nil {
				return err
			}
			printTransformer(cmd.OutOrStdout(), cfg)
			return nil
		},
	}
}

// dimensionsCommand lists individual and edge dimensions.
func (c *CLI) dimensionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dimensions",
		Short: "List dimensions transformers can map onto visual properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, StyleTitle.Render("Individual dimensions"))
			fmt.Fprintln(out, dimensionsTable(dimension.List()))
			fmt.Fprintln(out, StyleTitle.Render("Edge dimensions"))
			fmt.Fprintln(out, edgeDimensionsTable(dimension.ListEdges()))
			return nil
		},
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if col == 0 {
				return lipgloss.NewStyle().Padding(0, 1).Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func transformersTable(cfgs []*transformer.Config) string {
	t := newTable("ID", "Name", "Category", "Dimensions", "Repeatable")
	for _, cfg := range cfgs {
		dims := "—"
		if !cfg.DefaultDimensions.IsZero() {
			dims = formatDimensions(cfg.DefaultDimensions)
		}
		repeat := ""
		if cfg.MultiInstance {
			repeat = iconSuccess
		}
		t.Row(cfg.ID, cfg.Name, string(cfg.Category), dims, repeat)
	}
	return t.Render()
}

func printTransformer(w io.Writer, cfg *transformer.Config) {
	fmt.Fprintln(w, StyleTitle.Render(cfg.Name)+" "+StyleDim.Render("("+cfg.ID+")"))
	if cfg.Description != "" {
		fmt.Fprintln(w, cfg.Description)
	}
	if !cfg.DefaultDimensions.IsZero() {
		kind := "individual"
		if cfg.EdgeDimensions {
			kind = "edge"
		}
		fmt.Fprintf(w, "%s %s\n", StyleDim.Render("Default "+kind+" dimensions:"), formatDimensions(cfg.DefaultDimensions))
	}
	if len(cfg.Params) == 0 {
		return
	}

	t := newTable("Parameter", "Kind", "Default", "Allowed", "Description")
	for _, p := range cfg.Params {
		kind := string(p.Kind)
		if p.Integer {
			kind = "integer"
		}
		t.Row(p.Name, kind, formatValue(p.Default), allowedValues(p), p.Label)
	}
	fmt.Fprintln(w, t.Render())
}

func dimensionsTable(dims []dimension.Dimension) string {
	t := newTable("ID", "Name", "Category", "Default", "Description")
	for _, d := range dims {
		t.Row(d.ID, d.Name, string(d.Category), formatValue(d.Default), d.Description)
	}
	return t.Render()
}

func edgeDimensionsTable(dims []dimension.EdgeDimension) string {
	t := newTable("ID", "Name", "Scale", "Description")
	for _, d := range dims {
		scale := "normalized"
		if d.Bounded {
			scale = "bounded"
		}
		t.Row(d.ID, d.Name, scale, d.Description)
	}
	return t.Render()
}

func formatDimensions(d transformer.Dimensions) string {
	if d.Secondary == "" || d.Secondary == d.Primary {
		return d.Primary
	}
	return d.Primary + " + " + d.Secondary
}

func allowedValues(p transformer.ParamSpec) string {
	switch {
	case len(p.Options) > 0:
		return strings.Join(p.Options, " | ")
	case p.Min != nil && p.Max != nil:
		return fmt.Sprintf("%s – %s", formatValue(*p.Min), formatValue(*p.Max))
	case p.Kind == transformer.KindColor:
		return "#rrggbb"
	}
	return ""
}

func formatValue(v any) string {
	switch v := v.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		if v == "" {
			return `""`
		}
		return v
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
