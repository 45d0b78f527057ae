// Package cmd is the uopath command-line interface, grounded on
// arl-go-detour's cmd/recast/cmd package: a RootCmd plus per-subcommand
// files each registering themselves via init().
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dataDir string

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "uopath",
	Short: "spatial query and pathfinding service for a tile-based game world",
	Long: `uopath loads an Ultima Online client asset directory and serves
spatial queries and A* pathfinding over its tile-based, multi-layered,
toroidal world maps, either as a long-running HTTP/JSON service, a
one-shot command for scripting, or a terminal viewer.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(); it only needs to happen
// once.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&dataDir, "data", envOr("UOPATH_DATA", ""), "path to the Ultima Online client directory (env UOPATH_DATA)")
}
