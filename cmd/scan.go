package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/lookalike-app/lookalike/internal/catalog"
	"github.com/lookalike-app/lookalike/internal/config"
	"github.com/lookalike-app/lookalike/internal/embed"
	"github.com/lookalike-app/lookalike/internal/scanner"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "Scan a celebrity photo archive",
	Long: `Scan a directory of identity folders, compute a face embedding for one
representative image per folder, and report the result.

Pass --snapshot to save the scanned catalog for "lookalike match" or for
preloading "lookalike serve".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workers := mustGetInt(cmd, "workers")
		snapshotPath := mustGetString(cmd, "snapshot")
		return runScan(args[0], workers, snapshotPath)
	},
}

func init() {
	scanCmd.Flags().IntP("workers", "w", 0, "number of concurrent embedding workers (0 = config default)")
	scanCmd.Flags().StringP("snapshot", "s", "", "save the scanned catalog to this snapshot file")
	rootCmd.AddCommand(scanCmd)
}

func runScan(root string, workers int, snapshotPath string) error {
	cfg := config.Load()
	if workers < 1 {
		workers = cfg.Scan.Workers
	}

	cat := catalog.New(cfg.Match.HNSWThreshold)
	oracle := embed.NewClient(cfg.Oracle.URL, cfg.Oracle.Timeout())
	sc := scanner.New(cat, oracle, workers)

	job, err := sc.Start(root)
	if err != nil {
		return err
	}

	// The scan runs in the background; poll the job for progress.
	var bar *progressbar.ProgressBar
	for {
		view := job.View()
		if bar == nil && view.TotalIdentities > 0 {
			bar = progressbar.NewOptions(view.TotalIdentities,
				progressbar.OptionSetDescription("Scanning identities"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(30),
			)
		}
		if bar != nil {
			_ = bar.Set(view.ProcessedCount)
		}
		if view.Status.Terminal() {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Println()
	}

	view := job.View()
	switch view.Status {
	case scanner.JobStatusFailed:
		return fmt.Errorf("scan failed: %s", view.Error)
	case scanner.JobStatusCancelled:
		return fmt.Errorf("scan cancelled")
	}

	fmt.Printf("Scanned %d identities, %d embedded, %d skipped\n",
		view.TotalIdentities, view.SuccessCount, len(view.Errors))

	if len(view.Errors) > 0 {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "IDENTITY\tREASON")
		for _, scanErr := range view.Errors {
			fmt.Fprintf(w, "%s\t%s\n", scanErr.Name, scanErr.Reason)
		}
		w.Flush()
	}

	if snapshotPath != "" {
		if err := cat.SaveSnapshot(snapshotPath); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		fmt.Printf("Snapshot saved to %s\n", snapshotPath)
	}
	return nil
}
