package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lookalike-app/lookalike/internal/catalog"
	"github.com/lookalike-app/lookalike/internal/config"
	"github.com/lookalike-app/lookalike/internal/embed"
	"github.com/lookalike-app/lookalike/internal/match"
	"github.com/lookalike-app/lookalike/internal/scanner"
	"github.com/lookalike-app/lookalike/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lookalike web server",
	Long: `Start the HTTP server with the scan and match API plus the browser UI.

The catalog starts empty unless SNAPSHOT_PATH points to a snapshot saved
by a previous run, in which case it is loaded on startup and saved again
on shutdown.`,
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() {
	cfg := config.Load()

	cat := catalog.New(cfg.Match.HNSWThreshold)
	oracle := embed.NewClient(cfg.Oracle.URL, cfg.Oracle.Timeout())
	sc := scanner.New(cat, oracle, cfg.Scan.Workers)
	engine := match.New(cat)

	if cfg.Scan.SnapshotPath != "" {
		if _, err := os.Stat(cfg.Scan.SnapshotPath); err == nil {
			if err := cat.LoadSnapshot(cfg.Scan.SnapshotPath); err != nil {
				log.Printf("Warning: failed to load snapshot from %s: %v", cfg.Scan.SnapshotPath, err)
			} else {
				st := cat.Status()
				log.Printf("Loaded snapshot: %d identities (%d embedded)", st.IdentityCount, st.EmbeddedCount)
			}
		}
	}

	server := web.NewServer(cfg, cat, sc, engine, oracle)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down...", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}

		if cfg.Scan.SnapshotPath != "" && cat.Status().IdentityCount > 0 {
			if err := cat.SaveSnapshot(cfg.Scan.SnapshotPath); err != nil {
				log.Printf("Failed to save snapshot to %s: %v", cfg.Scan.SnapshotPath, err)
			} else {
				log.Printf("Saved snapshot to %s", cfg.Scan.SnapshotPath)
			}
		}
	}
}
