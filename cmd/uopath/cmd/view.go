package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kelindar/uopath/internal/viewer"
)

var (
	viewWorld             uint8
	viewLeft, viewTop     int
	viewRight, viewBottom int
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "render a region of a loaded world to the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(serveLogLevel)
		model, err := openModel(dataDir, log)
		if err != nil {
			return err
		}

		dw := model.World(viewWorld)
		if dw == nil {
			return fmt.Errorf("world %d not present", viewWorld)
		}

		right, bottom := viewRight, viewBottom
		dims := dw.Dimensions()
		if right == 0 {
			right = min(viewLeft+120, dims.WidthTiles)
		}
		if bottom == 0 {
			bottom = min(viewTop+40, dims.HeightTiles)
		}

		return viewer.Render(os.Stdout, dw, viewLeft, viewTop, right, bottom)
	},
}

func init() {
	RootCmd.AddCommand(viewCmd)

	viewCmd.Flags().Uint8Var(&viewWorld, "world", 0, "world id")
	viewCmd.Flags().IntVar(&viewLeft, "left", 0, "left tile bound")
	viewCmd.Flags().IntVar(&viewTop, "top", 0, "top tile bound")
	viewCmd.Flags().IntVar(&viewRight, "right", 0, "right tile bound (0 = left+120)")
	viewCmd.Flags().IntVar(&viewBottom, "bottom", 0, "bottom tile bound (0 = top+40)")
}
