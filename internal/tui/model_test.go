package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/intelliwave/intelliwave/internal/api"
	"github.com/intelliwave/intelliwave/internal/chat"
	apierrors "github.com/intelliwave/intelliwave/internal/errors"
	"github.com/intelliwave/intelliwave/internal/models"
	"github.com/intelliwave/intelliwave/internal/render"
)

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) write(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func newTestModel(t *testing.T, relay *api.MockRelay, startInChat bool) (Model, *fakeClipboard) {
	t.Helper()

	n := 0
	widget := chat.NewWidget(relay, chat.WithIDGenerator(func() string {
		n++
		return "msg-" + string(rune('0'+n))
	}))

	cb := &fakeClipboard{}
	m := NewChatModel(context.Background(), widget, Options{
		Markdown:    render.DefaultOptions().WithStyle("notty"),
		Clipboard:   cb.write,
		StartInChat: startInChat,
	})

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), cb
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runDeliver executes the exchange command returned by submit.
func runDeliver(t *testing.T, cmd tea.Cmd) exchangeDoneMsg {
	t.Helper()

	if cmd == nil {
		t.Fatal("expected a command after submit")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok || len(batch) == 0 {
		t.Fatalf("expected a batch of commands, got %T", cmd())
	}
	done, ok := batch[0]().(exchangeDoneMsg)
	if !ok {
		t.Fatal("first command should deliver the exchange")
	}
	return done
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNewChatModel(t *testing.T) {
	m, _ := newTestModel(t, &api.MockRelay{}, false)

	if m.screen != screenLanding {
		t.Error("model should start on the landing screen")
	}
	if m.input.Placeholder != "Expliquez-nous votre projet…" {
		t.Errorf("Placeholder = %q", m.input.Placeholder)
	}
	if !m.ready {
		t.Error("model should be ready after WindowSizeMsg")
	}

	chatModel, _ := newTestModel(t, &api.MockRelay{}, true)
	if chatModel.screen != screenChat {
		t.Error("StartInChat should open the chat panel")
	}
	if !chatModel.input.Focused() {
		t.Error("input should be focused in the chat panel")
	}
}

func TestModel_Init(t *testing.T) {
	m, _ := newTestModel(t, &api.MockRelay{}, false)
	if m.Init() == nil {
		t.Error("Init() should return a command")
	}
}

func TestModel_Landing_Keys(t *testing.T) {
	tests := []struct {
		name       string
		key        tea.KeyMsg
		wantQuit   bool
		wantScreen screen
	}{
		{"enter opens chat", tea.KeyMsg{Type: tea.KeyEnter}, false, screenChat},
		{"q quits", keyRunes("q"), true, screenLanding},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, true, screenLanding},
		{"other key ignored", keyRunes("x"), false, screenLanding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, &api.MockRelay{}, false)

			updated, cmd := m.Update(tt.key)
			got := updated.(Model)

			if isQuit(cmd) != tt.wantQuit {
				t.Errorf("quit = %v, want %v", !tt.wantQuit, tt.wantQuit)
			}
			if got.screen != tt.wantScreen {
				t.Errorf("screen = %v, want %v", got.screen, tt.wantScreen)
			}
		})
	}
}

func TestModel_Submit_Reply(t *testing.T) {
	relay := &api.MockRelay{Reply: "Salut !"}
	m, _ := newTestModel(t, relay, true)

	m.input.SetValue("Bonjour")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	msgs := m.widget.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected intro + user + placeholder, got %d messages", len(msgs))
	}
	if msgs[1].Role != models.RoleUser || msgs[1].Content != "Bonjour" {
		t.Errorf("user message = %+v", msgs[1])
	}
	if !msgs[2].IsPending() || msgs[2].Content != models.ThinkingText {
		t.Errorf("placeholder = %+v", msgs[2])
	}
	if m.input.Value() != "" {
		t.Error("input should be cleared after submit")
	}
	if m.input.Focused() {
		t.Error("input should be disabled while pending")
	}
	if !strings.Contains(m.View(), models.ThinkingText) {
		t.Error("View() should show the thinking indicator")
	}

	done := runDeliver(t, cmd)
	if done.message.Content != "Salut !" || done.message.Status != models.StatusDone {
		t.Errorf("settled = %+v", done.message)
	}

	updated, _ = m.Update(done)
	m = updated.(Model)

	if m.widget.Pending() {
		t.Error("widget should not be pending after delivery")
	}
	if !m.input.Focused() {
		t.Error("input should be re-enabled after delivery")
	}
	if relay.LastPrompt() != "Bonjour" {
		t.Errorf("relay prompt = %q", relay.LastPrompt())
	}
}

func TestModel_Submit_Failure(t *testing.T) {
	relay := &api.MockRelay{Err: apierrors.NewWebhookError(500, "https://hook", "boom")}
	m, _ := newTestModel(t, relay, true)

	m.input.SetValue("Bonjour")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	done := runDeliver(t, cmd)
	updated, _ = m.Update(done)
	m = updated.(Model)

	last := m.widget.Messages()[2]
	if !last.IsError() {
		t.Errorf("placeholder status = %q, want error", last.Status)
	}
	if last.Content != models.FallbackText {
		t.Errorf("placeholder content = %q", last.Content)
	}
	if m.err != nil {
		t.Errorf("exchange failures are shown in the bubble, got m.err = %v", m.err)
	}
}

func TestModel_Submit_Ignored(t *testing.T) {
	t.Run("blank input", func(t *testing.T) {
		m, _ := newTestModel(t, &api.MockRelay{}, true)
		m.input.SetValue("   ")

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = updated.(Model)

		if m.widget.Len() != 1 {
			t.Errorf("blank input appended messages: %d", m.widget.Len())
		}
		if cmd != nil {
			if _, ok := cmd().(tea.BatchMsg); ok {
				t.Error("blank input should not start an exchange")
			}
		}
	})

	t.Run("while pending", func(t *testing.T) {
		relay := &api.MockRelay{Reply: "ok"}
		m, _ := newTestModel(t, relay, true)

		m.input.SetValue("first")
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = updated.(Model)

		// Typing is swallowed while pending
		updated, _ = m.Update(keyRunes("second"))
		m = updated.(Model)
		if m.input.Value() != "" {
			t.Errorf("input accepted keys while pending: %q", m.input.Value())
		}

		m.input.SetValue("second")
		updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = updated.(Model)

		if m.widget.Len() != 3 {
			t.Errorf("second submission appended messages: %d", m.widget.Len())
		}
		if relay.CallCount() != 0 {
			t.Errorf("relay called %d times before delivery", relay.CallCount())
		}
	})
}

func TestModel_Escape_KeepsExchange(t *testing.T) {
	m, _ := newTestModel(t, &api.MockRelay{Reply: "plus tard"}, true)

	m.input.SetValue("Bonjour")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = updated.(Model)

	if m.screen != screenLanding {
		t.Fatal("Esc should close the chat panel")
	}
	if !m.widget.Pending() {
		t.Error("closing the panel must not cancel the exchange")
	}

	updated, _ = m.Update(runDeliver(t, cmd))
	m = updated.(Model)

	if reply, _ := m.widget.LastReply(); reply.Content != "plus tard" {
		t.Errorf("LastReply() = %q", reply.Content)
	}
	if m.input.Focused() {
		t.Error("input should stay blurred while the panel is closed")
	}
}

func TestModel_Commands(t *testing.T) {
	t.Run("quit", func(t *testing.T) {
		m, _ := newTestModel(t, &api.MockRelay{}, true)
		m.input.SetValue("/quit")

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if !isQuit(cmd) {
			t.Error("/quit should quit")
		}
	})

	t.Run("copy", func(t *testing.T) {
		m, cb := newTestModel(t, &api.MockRelay{}, true)
		m.input.SetValue("/copy")

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = updated.(Model)
		if cmd == nil {
			t.Fatal("/copy should return a command")
		}

		updated, _ = m.Update(cmd())
		m = updated.(Model)

		if cb.text != models.IntroText {
			t.Errorf("clipboard = %q, want intro text", cb.text)
		}
		if m.notice == "" {
			t.Error("a notice should confirm the copy")
		}
		if m.widget.Len() != 1 {
			t.Error("/copy must not be sent to the webhook")
		}
	})

	t.Run("copy failure", func(t *testing.T) {
		m, cb := newTestModel(t, &api.MockRelay{}, true)
		cb.err = errors.New("no clipboard utility")
		m.input.SetValue("/copy")

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = updated.(Model)
		updated, _ = m.Update(cmd())
		m = updated.(Model)

		if m.err == nil {
			t.Error("copy failure should be reported")
		}
	})
}

func TestModel_View(t *testing.T) {
	t.Run("not ready", func(t *testing.T) {
		m := NewChatModel(context.Background(), chat.NewWidget(&api.MockRelay{}), Options{})
		if !strings.Contains(m.View(), "Initializing") {
			t.Error("View() should show initializing before the first resize")
		}
	})

	t.Run("landing", func(t *testing.T) {
		m, _ := newTestModel(t, &api.MockRelay{}, false)
		view := m.View()
		for _, want := range append([]string{brandName, ctaLabel}, heroHighlights...) {
			if !strings.Contains(view, want) {
				t.Errorf("landing view missing %q", want)
			}
		}
	})

	t.Run("chat", func(t *testing.T) {
		m, _ := newTestModel(t, &api.MockRelay{}, true)
		view := m.View()
		if !strings.Contains(view, "Widget personnalisé") {
			t.Error("chat view missing header")
		}
		if !strings.Contains(view, "Envoyer") {
			t.Error("chat view missing status bar")
		}
	})
}

func TestFormatError(t *testing.T) {
	if FormatError(nil) != "" {
		t.Error("FormatError(nil) should be empty")
	}

	out := FormatError(apierrors.NewWebhookError(502, "https://hook", "bad gateway"))
	if !strings.Contains(out, "HTTP Status: 502") {
		t.Errorf("FormatError() missing status: %q", out)
	}
	if !strings.Contains(out, "bad gateway") {
		t.Errorf("FormatError() missing body: %q", out)
	}

	out = FormatError(apierrors.NewNetworkError("send message", "https://hook", errors.New("refused")))
	if !strings.Contains(out, "Hint") {
		t.Errorf("FormatError() missing hint: %q", out)
	}
}
