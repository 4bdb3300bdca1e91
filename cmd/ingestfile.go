package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Emmand87/ricomu-knowledge-service/src/core/knowledge"
)

// ingestFileCmd represents the ingestfile command
var ingestFileCmd = &cobra.Command{
	Use:   "ingestfile",
	Short: "Bulk-ingest documents from a JSON file",
	Long:  `The ingestfile command reads a JSON array of document descriptors and runs the ingestion pipeline for each, document by document.`,
	RunE:  runIngestFile,
}

func init() {
	rootCmd.AddCommand(ingestFileCmd)
	settingDefaultConfig()

	ingestFileCmd.Flags().StringP("input", "i", "", "Input JSON file path")
	ingestFileCmd.MarkFlagRequired("input")
	ingestFileCmd.Flags().Int("chunk-size", 0, "Chunk size override")
}

func runIngestFile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	inputPath, _ := cmd.Flags().GetString("input")
	chunkSize, _ := cmd.Flags().GetInt("chunk-size")
	if chunkSize <= 0 {
		chunkSize = viper.GetInt("knowledge.chunk_size")
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %v", err)
	}

	var items []knowledge.DocumentDescriptor
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to parse input file: %v", err)
	}
	if len(items) == 0 {
		fmt.Println("Nothing to ingest")
		return nil
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}

	store, err := newDocumentStore(ctx, db)
	if err != nil {
		return err
	}

	pipeline, err := newIngestionPipeline(ctx, embedder, store)
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(items)), "ingesting")

	inserted := 0
	skipped := 0
	for _, item := range items {
		result, err := pipeline.Ingest(ctx, []knowledge.DocumentDescriptor{item}, chunkSize)
		if err != nil {
			return fmt.Errorf("failed to ingest %q: %w", item.Key(), err)
		}
		inserted += result.Inserted
		skipped += len(result.Skipped)
		bar.Add(1)
	}

	fmt.Printf("Inserted %d chunks (%d documents skipped)\n", inserted, skipped)
	return nil
}
