package cmd

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/kelindar/uopath/httpapi"
)

var (
	serveAddr     string
	servePoolSize int
	serveLogLevel string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the HTTP/JSON spatial query and pathfinding service",
	Long: `Loads the client asset directory given by --data, probes its worlds,
and serves spatial queries and A* pathfinding over HTTP/JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(serveLogLevel)
		model, err := openModel(dataDir, log)
		if err != nil {
			return err
		}

		srv := httpapi.NewServer(model, log, servePoolSize)
		log.Info("listening", "addr", serveAddr)
		return http.ListenAndServe(serveAddr, srv)
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", envOr("UOPATH_ADDR", ":8080"), "HTTP listen address (env UOPATH_ADDR)")
	serveCmd.Flags().IntVar(&servePoolSize, "workers", 4, "max concurrent trace_path/render_area requests")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", envOr("UOPATH_LOG_LEVEL", "info"), "log level: debug, info, warn, error (env UOPATH_LOG_LEVEL)")
}
