package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/datareef/reef/conf"
	"github.com/datareef/reef/walrus"
)

// UploadCmd uploads a file to Walrus as a raw blob
var UploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a file to Walrus as a raw blob",
	Long: `Upload a file to Walrus storage as an opaque blob.

The content is stored byte-for-byte and hashed over the raw bytes.
Use 'reef verify --raw' with the printed content hash to check
integrity later.

Examples:
  reef upload data.csv
  reef upload report.json --epochs 10`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	UploadCmd.Flags().IntP("epochs", "e", 0, "Storage duration in epochs (default from config)")
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := conf.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	epochs, _ := cmd.Flags().GetInt("epochs")
	if epochs <= 0 {
		epochs = cfg.Walrus.Epochs
	}

	store := walrus.NewClient(walrus.Config{
		PublisherURL:  cfg.Walrus.PublisherURL,
		AggregatorURL: cfg.Walrus.AggregatorURL,
	})

	blob, err := store.Store(cmd.Context(), content, epochs)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Printf("Uploaded %s (%d bytes, %d epochs)\n", filepath.Base(path), blob.SizeBytes, epochs)
	fmt.Printf("  Blob ID:      %s\n", blob.BlobID)
	fmt.Printf("  Content hash: %s\n", blob.ContentHash)
	fmt.Printf("  Status:       %s\n", blob.Status)
	fmt.Printf("  URL:          %s\n", blob.URL)
	return nil
}
