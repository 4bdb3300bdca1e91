package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	jobctrl "github.com/Emmand87/ricomu-knowledge-service/src/infrastructure/job"
	"github.com/Emmand87/ricomu-knowledge-service/src/storage/postgres/documentctrl"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Provision the database schema",
	Long:  `The migrate command creates the pgvector extension, the documents table with its cosine index, and the jobs table.`,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	settingDefaultConfig()
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	db, err := openDatabase()
	if err != nil {
		return err
	}

	store, err := documentctrl.NewDocumentService(db)
	if err != nil {
		return fmt.Errorf("failed to create document service: %v", err)
	}

	if err := store.EnsureSchema(ctx, viper.GetInt("embedding.dimension")); err != nil {
		return err
	}

	if err := jobctrl.NewPostgresJobRepository(db).Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate jobs table: %v", err)
	}

	fmt.Println("Schema is up to date")
	return nil
}
