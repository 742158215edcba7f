package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/intelliwave/intelliwave/internal/chat"
	"github.com/intelliwave/intelliwave/internal/models"
	"github.com/intelliwave/intelliwave/internal/render"
)

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	// exchangeDoneMsg carries the settled placeholder of a delivered exchange
	exchangeDoneMsg struct {
		message models.Message
	}
	// copiedMsg reports the outcome of a /copy command
	copiedMsg struct {
		err error
	}
)

var errNothingToCopy = errors.New("no reply to copy yet")

type screen int

const (
	screenLanding screen = iota
	screenChat
)

type shortcut struct {
	key  string
	desc string
}

var (
	landingShortcuts = []shortcut{
		{"Enter", "Discuter"},
		{"q", "Quitter"},
	}
	chatShortcuts = []shortcut{
		{"Enter", "Envoyer"},
		{"Esc", "Fermer"},
		{"/copy", "Copier"},
		{"↑↓", "Défiler"},
	}
)

// Options configures the chat TUI
type Options struct {
	// Markdown controls how assistant replies are rendered
	Markdown render.Options
	Logger   zerolog.Logger
	// Clipboard writes to the system clipboard, clipboard.WriteAll when nil
	Clipboard func(string) error
	// StartInChat opens the chat panel directly, skipping the landing screen
	StartInChat bool
}

// Model represents the TUI state
type Model struct {
	widget   *chat.Widget
	ctx      context.Context
	logger   zerolog.Logger
	markdown render.Options
	copyFn   func(string) error

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// State
	screen         screen
	ready          bool
	notice         string
	err            error
	animationFrame int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates the TUI model driving widget
func NewChatModel(ctx context.Context, widget *chat.Widget, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Expliquez-nous votre projet…"
	ti.CharLimit = 2000
	ti.Prompt = "› "
	ti.PromptStyle = inputLabelStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(colorTextDim)

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	md := opts.Markdown
	if md.Style == "" {
		md = render.DefaultOptions()
	}

	m := Model{
		widget:   widget,
		ctx:      ctx,
		logger:   opts.Logger,
		markdown: md,
		copyFn:   copyFn,
		input:    ti,
		spinner:  s,
		screen:   screenLanding,
	}
	if opts.StartInChat {
		m.screen = screenChat
		m.input.Focus()
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // Header panel with border
		inputHeight := 5  // Input panel with border
		statusHeight := 1 // Status bar
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.input.Width = contentWidth - 8
		m.updateViewport()
		m.viewport.GotoBottom()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.screen == screenLanding {
			return m.updateLanding(msg)
		}

		switch msg.String() {
		case "esc":
			// Closing the panel leaves an in-flight exchange running
			m.screen = screenLanding
			m.input.Blur()
			m.notice = ""
			return m, nil

		case "enter":
			return m.submit()
		}

	case exchangeDoneMsg:
		m.logger.Debug().
			Str("message_id", msg.message.ID).
			Str("status", string(msg.message.Status)).
			Msg("exchange settled")
		if m.screen == screenChat {
			m.input.Focus()
		}
		m.updateViewport()
		m.viewport.GotoBottom()

	case copiedMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("copy to clipboard failed")
			m.err = fmt.Errorf("copy failed: %w", msg.err)
			m.notice = ""
		} else {
			m.err = nil
			m.notice = "Réponse copiée dans le presse-papiers"
		}

	case spinner.TickMsg:
		if m.widget.Pending() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			m.updateViewport()
		}

	case animationTickMsg:
		if m.widget.Pending() {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// The input is disabled while an exchange is pending
	if m.screen == screenChat && !m.widget.Pending() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// updateLanding handles keys on the landing screen
func (m Model) updateLanding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "enter":
		m.screen = screenChat
		m.input.Focus()
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, textinput.Blink
	}
	return m, nil
}

// submit handles Enter in the chat panel
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())

	switch input {
	case "/quit", "/exit":
		return m, tea.Quit
	case "/copy":
		m.input.Reset()
		return m, m.copyLastReply()
	}

	ex, err := m.widget.Submit(input)
	if err != nil {
		// Blank input and a second submission while pending are dropped
		m.logger.Debug().Err(err).Msg("submission ignored")
		return m, nil
	}

	m.input.Reset()
	m.input.Blur()
	m.notice = ""
	m.err = nil
	m.animationFrame = 0
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.deliver(ex),
		m.spinner.Tick,
		animationTick(),
	)
}

// deliver runs the webhook exchange off the update loop
func (m Model) deliver(ex *chat.Exchange) tea.Cmd {
	widget, ctx := m.widget, m.ctx
	return func() tea.Msg {
		return exchangeDoneMsg{message: widget.Deliver(ctx, ex)}
	}
}

// copyLastReply copies the latest settled assistant message
func (m Model) copyLastReply() tea.Cmd {
	reply, ok := m.widget.LastReply()
	copyFn := m.copyFn
	return func() tea.Msg {
		if !ok {
			return copiedMsg{err: errNothingToCopy}
		}
		return copiedMsg{err: copyFn(reply.Content)}
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.screen == screenLanding {
		return m.renderLanding()
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerContent := lipgloss.JoinHorizontal(
		lipgloss.Center,
		titleStyle.Render("✦ "+brandName),
		hintStyle.Render("  •  "),
		subtitleStyle.Render("Widget personnalisé"),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// Messages
	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View())
	sections = append(sections, messagesPanel)

	// Input
	var inputContent string
	if m.widget.Pending() {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("Vous"),
			m.input.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth, chatShortcuts))

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render("  "+m.notice))
	}
	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("⚠ %v", m.err)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderLoadingAnimation renders the animated indicator shown while the webhook works
func (m Model) renderLoadingAnimation() string {
	barChars := []string{"█", "█", "█", "█", "▓", "▒", "░", "░"}
	frame := m.animationFrame

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)

		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	dots := ""
	numDots := (frame / 3) % 4
	for i := 0; i < numDots; i++ {
		dots += lipgloss.NewStyle().Foreground(colorAccent).Render("●")
	}
	for i := numDots; i < 3; i++ {
		dots += lipgloss.NewStyle().Foreground(colorTextMute).Render("○")
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" " + models.ThinkingText + " ")

	return fmt.Sprintf("%s %s %s %s", m.spinner.View(), bar.String(), text, dots)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int, shortcuts []shortcut) string {
	var items []string
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content from the widget's messages
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	for i, msg := range m.widget.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.Role == models.RoleUser {
			label := userLabelStyle.Render("● Vous")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble + "\n")
			continue
		}

		content.WriteString(assistantLabelStyle.Render("✦ Intelliwave") + "\n")

		var bubble string
		switch {
		case msg.IsPending():
			bubble = pendingBubbleStyle.Width(bubbleWidth).Render(m.spinner.View() + " " + msg.Content)
		case msg.IsError():
			bubble = errorBubbleStyle.Width(bubbleWidth).Render(msg.Content)
		default:
			rendered := render.Reply(msg.Content, m.markdown.WithWidth(bubbleWidth-4))
			bubble = assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
		}
		content.WriteString(bubble + "\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI on widget
func RunChat(ctx context.Context, widget *chat.Widget, opts Options) error {
	m := NewChatModel(ctx, widget, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
