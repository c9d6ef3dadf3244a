package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/mapfile"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/navgrid"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/navsystem"
)

// mapFlags are shared by every subcommand that builds a graph.
type mapFlags struct {
	path string
	jump int
	body int
}

func (f *mapFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.path, "map", "", "map file (.yaml, .yml, .hjson or .json)")
	c.Flags().IntVar(&f.jump, "jump", -1, "jump height in rows, overrides the map file")
	c.Flags().IntVar(&f.body, "body", -1, "body height in rows, overrides the map file")
	c.MarkFlagRequired("map")
}

func (f *mapFlags) load(ctx context.Context, cfg navsystem.Config) (mapfile.Document, *navsystem.System, error) {
	doc, err := mapfile.Load(f.path)
	if err != nil {
		return doc, nil, err
	}
	if f.jump >= 0 {
		doc.JumpHeight = f.jump
	}
	if f.body >= 0 {
		doc.BodyHeight = f.body
	}
	m, err := doc.CollisionMap()
	if err != nil {
		return doc, nil, err
	}
	sys := navsystem.New(cfg)
	if err := sys.Build(ctx, m, doc.Params()); err != nil {
		return doc, nil, err
	}
	return doc, sys, nil
}

func GraphCmd() *cobra.Command {
	var flags mapFlags
	c := &cobra.Command{
		Use:   "graph",
		Short: "classify a map and print its link counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, sys, err := flags.load(cmd.Context(), navsystem.Config{})
			if err != nil {
				return err
			}
			printGraph(cmd.OutOrStdout(), doc.Name, sys.Graph())
			return nil
		},
	}
	flags.register(c)
	return c
}

func printGraph(w io.Writer, name string, g *navgrid.Graph) {
	stats := g.Stats()
	fmt.Fprintf(w, "map %s %dx%d jump=%d body=%d\n", name, stats.Width, stats.Height, stats.JumpHeight, stats.BodyHeight)
	fmt.Fprintf(w, "cells: navigable=%d left=%d middle=%d right=%d lone=%d\n",
		stats.Navigable,
		stats.ByType[navgrid.NavLeftEdge],
		stats.ByType[navgrid.NavMiddle],
		stats.ByType[navgrid.NavRightEdge],
		stats.ByType[navgrid.NavLone],
	)
	fmt.Fprintf(w, "links: run=%d fall=%d jump=%d\n", stats.RunLinks, stats.FallLinks, stats.JumpLinks)
	for _, row := range g.Render() {
		fmt.Fprintln(w, row)
	}
}
