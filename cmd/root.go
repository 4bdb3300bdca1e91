/*
Copyright © 2024 Emmand87
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ricomu-knowledge-service",
	Short: "Document ingestion and similarity search service",
	Long: `ricomu-knowledge-service ingests documents (inline text, HTML or PDF
from remote URLs) into embedded text chunks stored in Postgres with pgvector,
and serves batched natural-language similarity search over them.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
