package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/intelliwave/intelliwave/internal/chat"
	"github.com/intelliwave/intelliwave/internal/logging"
	"github.com/intelliwave/intelliwave/internal/models"
	"github.com/intelliwave/intelliwave/internal/render"
	"github.com/intelliwave/intelliwave/internal/tui"
)

// errExchangeFailed is returned when the webhook exchange ends in the error state
var errExchangeFailed = errors.New("webhook exchange failed")

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#fafafa"),
	lipgloss.Color("#e5e5e5"),
	lipgloss.Color("#d4d4d4"),
	lipgloss.Color("#a3a3a3"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#525252"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#a3a3a3"),
}

var (
	colorText     = lipgloss.Color("#f5f5f5")
	colorTextMute = lipgloss.Color("#404040")
	colorSuccess  = lipgloss.Color("#a3e635")
	colorPrimary  = lipgloss.Color("#fafafa")
	colorError    = lipgloss.Color("#f87171")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	errorBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorError).
				Foreground(colorError).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)
)

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

// newSpinner creates a new animated spinner writing to out
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "▓", "▒", "░", "░"}

	spinnerChar := lipgloss.NewStyle().
		Foreground(gradientColors[s.frame%len(gradientColors)]).
		Bold(true).
		Render(chars[s.frame%len(chars)])

	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + s.frame) % len(gradientColors)
		charIdx := (i + s.frame/2) % len(barChars)
		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorText).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)

	fmt.Fprintf(s.out, "\r\033[K%s %s %s %s", spinnerChar, bar.String(), msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.out, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner without a message
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runQuery relays a single message through a fresh widget and prints the reply.
// If rawOutput is true, only the raw reply text is printed without decoration.
func runQuery(ctx context.Context, input string, rawOutput bool) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("message cannot be empty")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Console logs stay quiet unless something goes wrong
	level := "warn"
	if verboseFlag {
		level = "debug"
	}
	logger := logging.Component(logging.NewConsole(deps.Stderr, level), "query")

	relay, err := deps.NewRelay(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer relay.Close()

	logger.Debug().
		Str("endpoint", relay.Endpoint()).
		Str("source", relay.Source()).
		Dur("timeout", cfg.Timeout()).
		Msg("relaying message")

	widget := chat.NewWidget(relay, chat.WithLogger(logger), chat.WithoutIntro())

	var spin *spinner
	if !rawOutput {
		spin = newSpinner(deps.Stderr, models.ThinkingText)
		spin.start()
	}

	startTime := time.Now()
	reply, err := widget.Send(ctx, input)
	if err != nil {
		if spin != nil {
			spin.stopWithError()
		}
		return err
	}
	logger.Debug().
		Dur("took", time.Since(startTime).Round(time.Millisecond)).
		Str("status", string(reply.Status)).
		Msg("exchange settled")

	if reply.IsError() {
		if rawOutput {
			fmt.Fprintln(deps.Stderr, reply.Content)
		} else {
			spin.stopWithError()
			fmt.Fprintln(deps.Stderr, errorBubbleStyle.Width(bubbleWidth()).Render(reply.Content))
		}
		if verboseFlag {
			if cause := widget.LastError(); cause != nil {
				fmt.Fprintln(deps.Stderr, tui.FormatError(cause))
			}
		}
		return errExchangeFailed
	}

	text := reply.Content

	copied := false
	if copyFlag || cfg.CopyToClipboard {
		if err := deps.Clipboard(text); err != nil {
			logger.Warn().Err(err).Msg("failed to copy reply to clipboard")
		} else {
			copied = true
		}
	}

	if rawOutput {
		if outputFlag != "" {
			if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			return nil
		}
		fmt.Fprint(deps.Stdout, text)
		return nil
	}

	spin.stopWithSuccess("Réponse reçue")
	if copied {
		fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
	}

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Reply saved to %s", outputFlag),
		)
		fmt.Fprintln(deps.Stderr, successMsg)
		return nil
	}

	width := bubbleWidth()
	renderOpts := render.OptionsFromConfig(cfg.Markdown).WithWidth(width - 4)

	fmt.Fprintln(deps.Stdout, assistantLabelStyle.Render("✦ Intelliwave"))
	fmt.Fprintln(deps.Stdout, assistantBubbleStyle.Width(width).Render(render.Reply(text, renderOpts)))

	return nil
}

// bubbleWidth sizes reply bubbles to the terminal, within readable bounds
func bubbleWidth() int {
	width := getTerminalWidth() - 4
	if width < 40 {
		width = 40
	}
	if width > 120 {
		width = 120
	}
	return width
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
