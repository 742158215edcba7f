package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/intelliwave/intelliwave/internal/chat"
	"github.com/intelliwave/intelliwave/internal/config"
	"github.com/intelliwave/intelliwave/internal/logging"
	"github.com/intelliwave/intelliwave/internal/render"
	"github.com/intelliwave/intelliwave/internal/tui"
)

var directFlag bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the Intelliwave chat widget",
	Long: `Open the landing screen and the chat widget.

Messages are relayed to the webhook one at a time; the input is locked
until the pending reply arrives. Type /copy to copy the last reply,
/quit or Ctrl+C to leave. Logs are written to the config directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

func init() {
	chatCmd.Flags().BoolVarP(&directFlag, "direct", "d", false, "Skip the landing screen")
}

func runChat(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logPath, err := config.GetLogPath(cfg)
	if err != nil {
		return err
	}
	logger, closer, err := logging.OpenFile(logPath, logLevel(cfg))
	if err != nil {
		return err
	}
	defer closer.Close()
	logger = logging.Component(logger, "chat")

	if cfg.TUITheme != "" && !render.SetTUITheme(cfg.TUITheme) {
		logger.Warn().Str("theme", cfg.TUITheme).Msg("unknown TUI theme, using default")
	}
	tui.UpdateTheme()

	relay, err := deps.NewRelay(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer relay.Close()

	logger.Info().
		Str("endpoint", relay.Endpoint()).
		Str("source", relay.Source()).
		Msg("chat session started")

	widget := chat.NewWidget(relay, chat.WithLogger(logger))

	err = deps.RunTUI(ctx, widget, tui.Options{
		Markdown:    render.OptionsFromConfig(cfg.Markdown),
		Logger:      logger,
		Clipboard:   deps.Clipboard,
		StartInChat: directFlag,
	})

	logger.Info().Int("messages", widget.Len()).Msg("chat session ended")
	return err
}
