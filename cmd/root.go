package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lookalike",
	Short: "Find out which celebrity you look like",
	Long: `Lookalike scans a local celebrity photo archive, computes a face
embedding for one representative photo per person, and ranks everyone
against an uploaded photo by embedding distance.

The face embeddings themselves come from an external embedding server
(EMBEDDING_URL); this tool handles the archive scan, the embedding cache,
and the matching.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
