package commands

import (
	"encoding/json"
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/datareef/reef/conf"
)

// ConfCmd groups configuration subcommands
var ConfCmd = &cobra.Command{
	Use:   "conf",
	Short: "Manage Reef configuration",
	Long: `Display Reef configuration.

Configuration sources (in order of precedence):
1. Environment variables (REEF_* prefix, plus ANTHROPIC_API_KEY and
   SUI_PRIVATE_KEY without prefix)
2. Project config (reef.toml, searched upward from the working directory)
3. Default values

Examples:
  reef conf show                  # Show current configuration (TOML)
  reef conf show --format json    # Show configuration as JSON`,
}

var confShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfShow,
}

func init() {
	confShowCmd.Flags().StringP("format", "f", "toml", "Output format: toml, json, yaml")
	ConfCmd.AddCommand(confShowCmd)
}

func runConfShow(cmd *cobra.Command, args []string) error {
	cfg, err := conf.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Secrets are shown redacted, not omitted, so operators can tell
	// configured from missing.
	display := *cfg
	if display.Anthropic.APIKey != "" {
		display.Anthropic.APIKey = "[redacted]"
	}
	if display.Upload.SuiPrivateKey != "" {
		display.Upload.SuiPrivateKey = "[redacted]"
	}

	format, _ := cmd.Flags().GetString("format")
	var out []byte
	switch format {
	case "toml":
		out, err = toml.Marshal(display)
	case "json":
		out, err = json.MarshalIndent(display, "", "  ")
	case "yaml":
		out, err = yaml.Marshal(display)
	default:
		return fmt.Errorf("unknown format: %s (valid: toml, json, yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	if path := conf.ConfigPath(); path != "" {
		fmt.Printf("# config file: %s\n", path)
	} else {
		fmt.Println("# no config file found, showing defaults + environment")
	}
	fmt.Println(string(out))
	return nil
}
