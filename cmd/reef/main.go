package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/datareef/reef/cmd/reef/commands"
	"github.com/datareef/reef/logger"
)

var rootCmd = &cobra.Command{
	Use:   "reef",
	Short: "Reef - verifiable dataset analytics on Walrus",
	Long: `Reef - verifiable dataset analytics on Walrus decentralized storage.

Reef stores tabular datasets as content-addressed blobs, validates and
profiles them on the way in, and executes AI/SQL/Python rulesets against
stored data with verifiable result hashes.

Available commands:
  serve    - Start the Reef API server
  upload   - Upload a file to Walrus as a raw blob
  ruleset  - Manage rulesets (push YAML definitions to Walrus)
  verify   - Verify a blob against a content hash
  conf     - Show configuration
  version  - Show version information

Examples:
  reef serve                          # Start the API server
  reef upload data.csv --epochs 5     # Store a file on Walrus
  reef ruleset push whales.yaml       # Store a ruleset definition
  reef verify <blob-id> <hash>        # Re-download and verify a blob
  reef conf show                      # Show effective configuration`,
}

func init() {
	// .env is optional; the original deployment configures secrets this way
	_ = godotenv.Load()

	if err := logger.Initialize(false); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to initialize logger: %v\n", err)
	}

	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.UploadCmd)
	rootCmd.AddCommand(commands.RulesetCmd)
	rootCmd.AddCommand(commands.VerifyCmd)
	rootCmd.AddCommand(commands.ConfCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
