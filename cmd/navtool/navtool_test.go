package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var stepsMap = filepath.Join("..", "..", "internal", "mapfile", "testdata", "steps.hjson")

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestGraphCommand(t *testing.T) {
	out, err := run(t, "graph", "--map", stepsMap)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, "map steps 7x6 jump=3 body=1", lines[0])
	require.Equal(t, "cells: navigable=6 left=2 middle=2 right=2 lone=0", lines[1])
	require.True(t, strings.HasPrefix(lines[2], "links: run=8 fall=0 jump="), lines[2])
	require.Equal(t, []string{
		".......",
		".......",
		"....LMR",
		"....###",
		"LMR.###",
		"###.###",
	}, lines[3:])
}

func TestGraphCommandRequiresMap(t *testing.T) {
	_, err := run(t, "graph")
	require.Error(t, err)

	_, err = run(t, "graph", "--map", "missing.yaml")
	require.Error(t, err)
}

func TestPathCommandGridCoordinates(t *testing.T) {
	out, err := run(t, "path", "--map", stepsMap, "--from", "0,1", "--to", "5,3")
	require.NoError(t, err)
	require.Contains(t, out, "anchor x=176 y=32 z=128")
	require.Contains(t, out, "waypoints=5 cost=5.828")
	require.Contains(t, out, "via (2,1) (3,2) (4,3) curve (2,3) (4,3)")
}

func TestPathCommandWorldCoordinates(t *testing.T) {
	out, err := run(t, "path", "--map", stepsMap, "--from", "16,70", "--to", "176,101", "--world")
	require.NoError(t, err)
	require.Contains(t, out, "anchor x=176 y=32 z=128")
	require.Contains(t, out, "(176,112)")
}

func TestPathCommandFailures(t *testing.T) {
	_, err := run(t, "path", "--map", stepsMap, "--from", "0,1", "--to", "5,3", "--jump", "1")
	require.ErrorContains(t, err, "no path: exhausted")

	_, err = run(t, "path", "--map", stepsMap, "--from", "0;1", "--to", "5,3")
	require.ErrorContains(t, err, "--from")

	_, err = run(t, "path", "--map", stepsMap, "--from", "0,1", "--to", "5,3", "--budget", "1")
	require.ErrorContains(t, err, "no path: step_budget")
}
