package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	c := &cobra.Command{
		Use:           "navtool",
		Short:         "inspect platformer navigation graphs and paths",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.AddCommand(GraphCmd(), PathCmd())
	return c
}

func main() {
	if err := RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
