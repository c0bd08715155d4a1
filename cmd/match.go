package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/lookalike-app/lookalike/internal/catalog"
	"github.com/lookalike-app/lookalike/internal/config"
	"github.com/lookalike-app/lookalike/internal/constants"
	"github.com/lookalike-app/lookalike/internal/embed"
	"github.com/lookalike-app/lookalike/internal/match"
	"github.com/lookalike-app/lookalike/internal/scanner"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match <photo>",
	Short: "Match a photo against a scanned catalog",
	Long: `Compute a face embedding for the given photo and rank the catalog
identities by similarity.

The catalog comes either from a snapshot file saved by "lookalike scan"
(--snapshot, or SNAPSHOT_PATH) or from a fresh scan of --dir.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		top := mustGetInt(cmd, "top")
		asJSON := mustGetBool(cmd, "json")
		snapshotPath := mustGetString(cmd, "snapshot")
		dir := mustGetString(cmd, "dir")
		return runMatch(args[0], top, asJSON, snapshotPath, dir)
	},
}

func init() {
	matchCmd.Flags().IntP("top", "t", 0, "number of matches to print (0 = config default)")
	matchCmd.Flags().Bool("json", false, "print matches as JSON")
	matchCmd.Flags().StringP("snapshot", "s", "", "snapshot file to match against (defaults to SNAPSHOT_PATH)")
	matchCmd.Flags().StringP("dir", "d", "", "scan this directory instead of loading a snapshot")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(photoPath string, top int, asJSON bool, snapshotPath, dir string) error {
	cfg := config.Load()
	if top < 1 {
		top = cfg.Match.TopK
	}
	if snapshotPath == "" {
		snapshotPath = cfg.Scan.SnapshotPath
	}

	cat := catalog.New(cfg.Match.HNSWThreshold)
	oracle := embed.NewClient(cfg.Oracle.URL, cfg.Oracle.Timeout())

	switch {
	case dir != "":
		if err := scanInto(cat, oracle, cfg, dir); err != nil {
			return err
		}
	case snapshotPath != "":
		if err := cat.LoadSnapshot(snapshotPath); err != nil {
			return err
		}
	default:
		return fmt.Errorf("no catalog source: pass --snapshot, --dir, or set SNAPSHOT_PATH")
	}

	data, err := os.ReadFile(photoPath)
	if err != nil {
		return fmt.Errorf("failed to read photo: %w", err)
	}
	resized, err := embed.ResizeImage(data, constants.MaxImageSize)
	if err != nil {
		return fmt.Errorf("not a valid image: %w", err)
	}

	query, err := oracle.ComputeFaceEmbedding(context.Background(), resized)
	if err != nil {
		if errors.Is(err, embed.ErrNoFace) {
			return fmt.Errorf("no face found in %s", photoPath)
		}
		return fmt.Errorf("embedding failed: %w", err)
	}

	results, err := match.MatchSnapshot(cat.Snapshot(), query, top)
	if err != nil {
		if errors.Is(err, match.ErrEmptyCatalog) {
			return fmt.Errorf("catalog has no embedded identities, nothing to match against")
		}
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tNAME\tSIMILARITY\tDISTANCE")
	for i, res := range results {
		fmt.Fprintf(w, "%d\t%s\t%.1f%%\t%.4f\n", i+1, res.Name, res.Similarity, res.Distance)
	}
	return w.Flush()
}

// scanInto runs a synchronous scan of dir into cat, without progress output.
func scanInto(cat *catalog.Catalog, oracle scanner.Oracle, cfg *config.Config, dir string) error {
	sc := scanner.New(cat, oracle, cfg.Scan.Workers)
	job, err := sc.Start(dir)
	if err != nil {
		return err
	}
	for !job.GetStatus().Terminal() {
		time.Sleep(50 * time.Millisecond)
	}
	view := job.View()
	if view.Status == scanner.JobStatusFailed {
		return fmt.Errorf("scan failed: %s", view.Error)
	}
	return nil
}
