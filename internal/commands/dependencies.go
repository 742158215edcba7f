package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"

	"github.com/intelliwave/intelliwave/internal/api"
	"github.com/intelliwave/intelliwave/internal/chat"
	"github.com/intelliwave/intelliwave/internal/config"
	"github.com/intelliwave/intelliwave/internal/tui"
)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewRelay builds the webhook client for a configuration.
	NewRelay func(cfg config.Config) (api.WebhookClientInterface, error)

	// RunTUI runs the interactive chat on a widget.
	RunTUI func(ctx context.Context, widget *chat.Widget, opts tui.Options) error

	Clipboard func(text string) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// HasStdin reports whether input is piped in
	HasStdin func() bool
	// IsTTY reports whether stdout is a terminal
	IsTTY func() bool
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewRelay:  newWebhookClient,
		RunTUI:    tui.RunChat,
		Clipboard: clipboard.WriteAll,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		HasStdin:  hasPipedStdin,
		IsTTY:     isStdoutTTY,
	}
}

var deps = NewDependencies()

func newWebhookClient(cfg config.Config) (api.WebhookClientInterface, error) {
	client, err := api.NewClient(
		api.WithEndpoint(cfg.WebhookURL),
		api.WithSource(cfg.Source),
		api.WithTimeout(cfg.Timeout()),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func hasPipedStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
