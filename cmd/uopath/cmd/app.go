package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kelindar/uopath"
	"github.com/kelindar/uopath/world"
)

// openModel opens the client directory and probes its worlds, the
// bootstrap shared by serve, trace and view.
func openModel(dir string, log *slog.Logger) (*world.Model, error) {
	if dir == "" {
		return nil, fmt.Errorf("missing --data (or UOPATH_DATA)")
	}
	sdk, err := ultima.Open(dir)
	if err != nil {
		return nil, err
	}
	return world.Open(sdk, log)
}

func newLogger(levelFlag string) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelFlag)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
