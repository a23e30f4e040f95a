package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datareef/reef/conf"
	"github.com/datareef/reef/walrus"
)

// VerifyCmd re-downloads a blob and checks its content hash
var VerifyCmd = &cobra.Command{
	Use:   "verify <blob-id> <content-hash>",
	Short: "Verify a blob against a content hash",
	Long: `Download a blob from the aggregator and verify its content hash
matches the expected value.

JSON blobs stored with 'reef ruleset push' or the data upload API are
canonicalized (sorted keys, compact form) before hashing, so a hash
recorded at store time keeps matching regardless of whitespace
differences. Blobs stored as raw bytes ('reef upload', the file upload
API) are hashed byte-for-byte instead; pass --raw for those. Exits
non-zero on mismatch.`,
	Args: cobra.ExactArgs(2),
	RunE: runVerify,
}

func init() {
	VerifyCmd.Flags().Bool("raw", false, "Hash the raw bytes instead of the canonical JSON form")
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := conf.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	blobID, expectedHash := args[0], args[1]

	store := walrus.NewClient(walrus.Config{
		PublisherURL:  cfg.Walrus.PublisherURL,
		AggregatorURL: cfg.Walrus.AggregatorURL,
	})

	raw, _ := cmd.Flags().GetBool("raw")

	var ok bool
	if raw {
		ok, err = store.VerifyRaw(cmd.Context(), blobID, expectedHash)
	} else {
		ok, err = store.Verify(cmd.Context(), blobID, expectedHash)
	}
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if !ok {
		return fmt.Errorf("hash mismatch: blob %s does not match %s", blobID, expectedHash)
	}

	fmt.Printf("OK: blob %s matches %s\n", blobID, expectedHash)
	return nil
}
