package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"evalgo.org/tessella/internal/api"
	"evalgo.org/tessella/models"
	"evalgo.org/tessella/vault"
)

var serveLoadFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the HTTP API server with the REST surface and the WebSocket
change feed. Optionally pre-load an IIIF document with --load.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveLoadFile, "load", "", "IIIF document to load at startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	v := vault.New()

	if serveLoadFile != "" {
		tree, err := readDocument(serveLoadFile)
		if err != nil {
			return err
		}
		if err := v.Load(tree); err != nil {
			return fmt.Errorf("failed to load %s: %w", serveLoadFile, err)
		}
		log.Info().Str("file", serveLoadFile).
			Int("entities", vault.GetTotalEntityCount(v.State())).
			Msg("document pre-loaded")
	}

	server := api.New(cfg, v, log)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	log.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).
		Msg("starting server")

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// readDocument parses a nested IIIF document from a file.
func readDocument(path string) (*models.Entity, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var tree models.Entity
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &tree, nil
}
