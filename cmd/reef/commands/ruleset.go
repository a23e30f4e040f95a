package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/datareef/reef/conf"
	"github.com/datareef/reef/rules"
	"github.com/datareef/reef/walrus"
)

// RulesetCmd groups ruleset management subcommands
var RulesetCmd = &cobra.Command{
	Use:   "ruleset",
	Short: "Manage rulesets",
	Long: `Manage analysis rulesets stored on Walrus.

A ruleset is defined in a YAML file and stored as a JSON blob; the
printed blob ID is what execution requests reference.

Example ruleset file:
  name: Whale Detector
  prompt: |
    Identify whales (high spenders) in this data.
    Return JSON with whale_count and whale_ids.
  model_params:
    temperature: 0.3
    max_tokens: 2000`,
}

var rulesetPushCmd = &cobra.Command{
	Use:   "push <yaml-file>",
	Short: "Store a ruleset definition on Walrus",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesetPush,
}

func init() {
	rulesetPushCmd.Flags().IntP("epochs", "e", 0, "Storage duration in epochs (default from config)")
	RulesetCmd.AddCommand(rulesetPushCmd)
}

func runRulesetPush(cmd *cobra.Command, args []string) error {
	cfg, err := conf.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	var ruleset rules.Ruleset
	if err := yaml.Unmarshal(raw, &ruleset); err != nil {
		return fmt.Errorf("invalid ruleset YAML: %w", err)
	}
	if ruleset.Prompt == "" && ruleset.Query == "" && ruleset.Code == "" {
		return fmt.Errorf("ruleset must define one of prompt, query, or code")
	}

	epochs, _ := cmd.Flags().GetInt("epochs")
	if epochs <= 0 {
		epochs = cfg.Walrus.Epochs
	}

	store := walrus.NewClient(walrus.Config{
		PublisherURL:  cfg.Walrus.PublisherURL,
		AggregatorURL: cfg.Walrus.AggregatorURL,
	})

	blob, err := store.StoreJSON(cmd.Context(), &ruleset, epochs)
	if err != nil {
		return fmt.Errorf("failed to store ruleset: %w", err)
	}

	fmt.Printf("Stored ruleset %q\n", ruleset.DisplayName())
	fmt.Printf("  Blob ID:      %s\n", blob.BlobID)
	fmt.Printf("  Content hash: %s\n", blob.ContentHash)
	fmt.Printf("  URL:          %s\n", blob.URL)
	return nil
}
