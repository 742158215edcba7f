package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/intelliwave/intelliwave/internal/api"
	"github.com/intelliwave/intelliwave/internal/chat"
	"github.com/intelliwave/intelliwave/internal/models"
	"github.com/intelliwave/intelliwave/internal/tui"
)

func TestChatCommand(t *testing.T) {
	relay := &api.MockRelay{Reply: "Salut !", EndpointVal: "https://hook", SourceVal: models.DefaultSource}
	env := setupTest(t, relay)

	var gotWidget *chat.Widget
	var gotOpts tui.Options
	deps.RunTUI = func(ctx context.Context, widget *chat.Widget, opts tui.Options) error {
		gotWidget = widget
		gotOpts = opts

		// Drive one exchange the way the TUI would
		_, err := widget.Send(ctx, "Bonjour")
		return err
	}

	if err := run("chat", "--direct"); err != nil {
		t.Fatalf("run() returned error: %v", err)
	}

	if gotWidget == nil {
		t.Fatal("RunTUI was not called")
	}
	msgs := gotWidget.Messages()
	if len(msgs) != 3 || msgs[0].ID != models.IntroID {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
	if msgs[2].Content != "Salut !" {
		t.Errorf("reply = %q", msgs[2].Content)
	}
	if !gotOpts.StartInChat {
		t.Error("--direct should skip the landing screen")
	}
	if gotOpts.Clipboard == nil {
		t.Error("clipboard should be wired into the TUI")
	}
	if !relay.IsClosed() {
		t.Error("relay should be closed when the TUI exits")
	}

	if _, err := os.Stat(filepath.Join(env.home, "intelliwave.log")); err != nil {
		t.Errorf("log file should be created: %v", err)
	}
}

func TestChatCommand_LogsToConfiguredFile(t *testing.T) {
	setupTest(t, &api.MockRelay{})
	logPath := filepath.Join(t.TempDir(), "logs", "chat.log")
	t.Setenv("INTELLIWAVE_LOG_FILE", logPath)

	if err := run("chat"); err != nil {
		t.Fatalf("run() returned error: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if len(data) == 0 {
		t.Error("chat session should be logged")
	}
}
