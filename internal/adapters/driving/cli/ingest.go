package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-docchat/internal/core/domain"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Index a document",
	Long:  `Extracts, chunks and embeds a local file and prints the new document id.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	return withApp(cmd.Context(), func(app *App) error {
		if app.Ingestion == nil {
			return errors.New("ingestion service not configured")
		}

		result, err := app.Ingestion.Ingest(cmd.Context(), domain.IngestRequest{
			Filename: filepath.Base(path),
			Data:     data,
		})
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}

		if ingestJSON {
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal result: %w", err)
			}
			cmd.Println(string(out))
			return nil
		}

		cmd.Printf("Document: %s\n", result.DocumentID)
		cmd.Printf("Chunks:   %d\n", result.ChunkCount)
		return nil
	})
}
