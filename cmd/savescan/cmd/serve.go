package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/witcherai/savescan/internal/database"
	"github.com/witcherai/savescan/internal/httpapi"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only save listing over HTTP",
	Long: `Serve starts the HTTP listing endpoint. It runs until interrupted.

Endpoints:
  GET /api/saves?title=<key>   saves of one title (default witcher2)
  GET /api/titles              configured titles
  GET /healthz                 liveness

Example:
  savescan serve
  savescan serve --listen 0.0.0.0:8000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Override the listen address (http.listen)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if serveListen != "" {
		cfg.HTTP.Listen = serveListen
	}

	ctx := database.SetupSignalHandlerWithCallback(func(sig os.Signal) {
		log.Infof("Received %s, stopping", sig)
	})
	return httpapi.Serve(ctx, cfg, log)
}
