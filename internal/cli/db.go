package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dbClearYes bool

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the vector database",
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runDbStats,
}

var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all indexed data",
	RunE:  runDbClear,
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbStatsCmd)
	dbCmd.AddCommand(dbClearCmd)
	dbClearCmd.Flags().BoolVar(&dbClearYes, "yes", false, "confirm removal of all indexed data")
}

func runDbStats(cmd *cobra.Command, args []string) error {
	a, err := openExistingApp()
	if err != nil {
		return err
	}
	defer a.Close()

	rows, err := a.Store.CountRows()
	if err != nil {
		return fmt.Errorf("cli: count rows: %w", err)
	}
	files, err := a.Store.CountFiles()
	if err != nil {
		return fmt.Errorf("cli: count files: %w", err)
	}

	fmt.Printf("files:          %d\n", files)
	fmt.Printf("chunks:         %d\n", rows)
	fmt.Printf("embedding dim:  %d\n", a.Config.Db.EmbeddingDim)
	fmt.Printf("table:          %s\n", a.Config.Db.TableName)
	fmt.Printf("model:          %s\n", a.Config.Embed.ModelID)
	return nil
}

func runDbClear(cmd *cobra.Command, args []string) error {
	if !dbClearYes {
		return fmt.Errorf("cli: refusing to clear the index without --yes")
	}

	a, err := openExistingApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Store.Clear(); err != nil {
		return fmt.Errorf("cli: clear: %w", err)
	}
	fmt.Println("index cleared")
	return nil
}
