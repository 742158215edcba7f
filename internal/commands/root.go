// Package commands provides CLI commands for intelliwave.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/intelliwave/intelliwave/internal/config"
)

var (
	// Global flags
	webhookFlag string
	verboseFlag bool

	outputFlag string
	fileFlag   string
	copyFlag   bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "intelliwave [message]",
	Short: "Talk to the Intelliwave assistant from your terminal",
	Long: `intelliwave relays your messages to the Intelliwave automation webhook
and shows the assistant's reply.

Examples:
  intelliwave chat                         Open the chat widget
  intelliwave "Bonjour"                    Send a single message
  intelliwave -f brief.md                  Read the message from a file
  cat brief.md | intelliwave               Read the message from stdin
  intelliwave "Bonjour" -o reply.md        Save the reply to a file
  intelliwave config set source partner    Change a setting`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(deps.Stdout, "intelliwave %s (built %s)\n", Version, BuildTime)
			return nil
		}

		rawOutput := !deps.IsTTY()

		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(cmd.Context(), string(data), rawOutput)
		}

		if deps.HasStdin() {
			data, err := io.ReadAll(deps.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(cmd.Context(), string(data), rawOutput)
		}

		if len(args) > 0 {
			return runQuery(cmd.Context(), args[0], rawOutput)
		}

		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&webhookFlag, "webhook", "", "Webhook URL to relay messages to (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Log debug details")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save reply to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read message from file")
	rootCmd.Flags().BoolVar(&copyFlag, "copy", false, "Copy reply to clipboard")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig returns the effective configuration: file, environment, then flags
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, err
	}

	if webhookFlag != "" {
		if err := config.ValidateWebhookURL(webhookFlag); err != nil {
			return cfg, err
		}
		cfg.WebhookURL = webhookFlag
	}

	return cfg, nil
}

// logLevel returns the level for cfg, forced to debug by --verbose
func logLevel(cfg config.Config) string {
	if verboseFlag {
		return "debug"
	}
	return cfg.LogLevel
}
