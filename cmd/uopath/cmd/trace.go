package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kelindar/uopath/pathfind"
)

var (
	traceWorld  uint8
	traceFrom   string
	traceTo     string
	traceFormat string

	traceAllowDiagonal bool
	traceAllPoints     bool
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "trace one A* path against a loaded world",
	Long: `Runs a single A* pathfind against --world, printed as JSON or CSV,
for scripting and tests without standing up the HTTP server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(serveLogLevel)
		model, err := openModel(dataDir, log)
		if err != nil {
			return err
		}

		dw := model.World(traceWorld)
		if dw == nil {
			return fmt.Errorf("world %d not present", traceWorld)
		}

		sx, sy, sz, err := parseCoord(traceFrom)
		if err != nil {
			return fmt.Errorf("--from: %w", err)
		}
		dx, dy, dz, err := parseCoord(traceTo)
		if err != nil {
			return fmt.Errorf("--to: %w", err)
		}

		dims := dw.Dimensions()
		opts := pathfind.NewTraceOptions(dims.WidthTiles, dims.HeightTiles)
		opts.AllowDiagonalMove = traceAllowDiagonal
		opts.AllPoints = traceAllPoints

		oracle := pathfind.NewOracle(dw, opts.Walkable, opts.Ignore)
		points, err := pathfind.TraceAStar(oracle, sx, sy, sz, 0, dx, dy, dz, opts)
		if err != nil {
			return err
		}

		return printPoints(points, traceFormat)
	},
}

func init() {
	RootCmd.AddCommand(traceCmd)

	traceCmd.Flags().Uint8Var(&traceWorld, "world", 0, "world id")
	traceCmd.Flags().StringVar(&traceFrom, "from", "", "source x,y,z")
	traceCmd.Flags().StringVar(&traceTo, "to", "", "destination x,y,z")
	traceCmd.Flags().StringVar(&traceFormat, "format", "json", "output format: json or csv")
	traceCmd.Flags().BoolVar(&traceAllowDiagonal, "diagonal", true, "allow diagonal moves")
	traceCmd.Flags().BoolVar(&traceAllPoints, "all-points", false, "emit every visited node, not just the final path")
	traceCmd.MarkFlagRequired("from")
	traceCmd.MarkFlagRequired("to")
}

func parseCoord(s string) (x, y int, z int8, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("expected x,y,z, got %q", s)
	}
	xi, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, err
	}
	yi, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, err
	}
	zi, err := strconv.ParseInt(parts[2], 10, 8)
	if err != nil {
		return 0, 0, 0, err
	}
	return xi, yi, int8(zi), nil
}

func printPoints(points []pathfind.Point, format string) error {
	switch format {
	case "csv":
		w := csv.NewWriter(os.Stdout)
		for _, p := range points {
			if err := w.Write([]string{strconv.Itoa(p.X), strconv.Itoa(p.Y), strconv.Itoa(int(p.Z)), strconv.FormatInt(p.W, 10)}); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	default:
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(points)
	}
}
