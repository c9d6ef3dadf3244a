package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/navgrid"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/navsystem"
)

func PathCmd() *cobra.Command {
	var flags mapFlags
	var from, to string
	var world bool
	var budget int
	c := &cobra.Command{
		Use:   "path",
		Short: "find a route between two positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startX, startZ, err := parsePair(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			goalX, goalZ, err := parsePair(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			_, sys, err := flags.load(cmd.Context(), navsystem.Config{StepBudget: budget})
			if err != nil {
				return err
			}

			start := navsystem.Vec2{X: startX, Z: startZ}
			goal := navsystem.Vec2{X: goalX, Z: goalZ}
			if !world {
				start = sys.StandingPosition(navgrid.Point{X: int(startX), Z: int(startZ)})
				goal = sys.CellCenter(navgrid.Point{X: int(goalX), Z: int(goalZ)})
			}

			anchor, found := sys.FindPath(cmd.Context(), start, goal)
			if !found {
				return fmt.Errorf("no path: %s", sys.LastReason())
			}
			printPath(cmd.OutOrStdout(), sys, anchor, world)
			return nil
		},
	}
	flags.register(c)
	c.Flags().StringVar(&from, "from", "", "start as X,Z (grid cell, or world position with --world)")
	c.Flags().StringVar(&to, "to", "", "goal as X,Z (grid cell, or world position with --world)")
	c.Flags().BoolVar(&world, "world", false, "read and print world coordinates instead of grid cells")
	c.Flags().IntVar(&budget, "budget", 0, "maximum search expansions, 0 for no limit")
	c.MarkFlagRequired("from")
	c.MarkFlagRequired("to")
	return c
}

func parsePair(raw string) (float64, float64, error) {
	left, right, ok := strings.Cut(raw, ",")
	if !ok {
		return 0, 0, fmt.Errorf("expected X,Z, got %q", raw)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(left), 64)
	if err != nil {
		return 0, 0, err
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(right), 64)
	if err != nil {
		return 0, 0, err
	}
	return x, z, nil
}

func printPath(w io.Writer, sys *navsystem.System, anchor navsystem.Vec3, world bool) {
	path := sys.Path()
	fmt.Fprintf(w, "anchor x=%g y=%g z=%g\n", anchor.X, anchor.Y, anchor.Z)
	fmt.Fprintf(w, "waypoints=%d cost=%.3f expanded=%d\n", len(path), path[len(path)-1].Cost, sys.Expanded())
	for i, wp := range path {
		line := fmt.Sprintf("%2d %-5s %s cost=%.3f", i, wp.Edge, formatPoint(sys, navgrid.Point{X: wp.X, Z: wp.Z}, world), wp.Cost)
		if len(wp.Cells) > 0 {
			cells := make([]string, 0, len(wp.Cells))
			for _, cell := range wp.Cells {
				cells = append(cells, formatPoint(sys, cell, world))
			}
			line += " via " + strings.Join(cells, " ")
		}
		if len(wp.CurveAnchors) == 2 {
			line += " curve " + formatPoint(sys, wp.CurveAnchors[0], world) + " " + formatPoint(sys, wp.CurveAnchors[1], world)
		}
		fmt.Fprintln(w, line)
	}
}

func formatPoint(sys *navsystem.System, p navgrid.Point, world bool) string {
	if world {
		center := sys.CellCenter(p)
		return fmt.Sprintf("(%g,%g)", center.X, center.Z)
	}
	return fmt.Sprintf("(%d,%d)", p.X, p.Z)
}
