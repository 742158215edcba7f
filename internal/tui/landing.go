package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Landing content shown before the chat panel is opened
var (
	brandName = "Intelliwave AI"
	tagline   = "Studio de chatbots sur mesure"

	heroHighlights = []string{
		"Chatbots sur mesure intégrés à vos outils",
		"Expériences conversationnelles premium",
		"Automatisations n8n invisibles & fluides",
	}

	heroStats = []struct {
		value string
		label string
	}{
		{"-63 %", "Temps de réponse moyen"},
		{"4,9 / 5", "Satisfaction conversationnelle"},
		{"120+", "Automatisations n8n"},
	}

	ctaLabel    = "Discuter avec Intelliwave"
	footerLabel = "Propulsé par n8n · intégration fluide & sécurisée"
)

// renderLanding renders the hero screen with the call to action
func (m Model) renderLanding() string {
	width := m.width - 4
	if width < 40 {
		width = 40
	}

	var highlights strings.Builder
	for i, h := range heroHighlights {
		if i > 0 {
			highlights.WriteString("\n")
		}
		highlights.WriteString(bulletStyle.Render("◆ ") + highlightStyle.Render(h))
	}

	stats := make([]string, 0, len(heroStats))
	for _, s := range heroStats {
		stats = append(stats, lipgloss.JoinVertical(
			lipgloss.Center,
			statValueStyle.Render(s.value),
			statLabelStyle.Render(s.label),
		))
	}
	statsRow := lipgloss.JoinHorizontal(lipgloss.Top, interleave(stats, "    ")...)

	hero := lipgloss.JoinVertical(
		lipgloss.Center,
		brandStyle.Render("✦ "+brandName),
		taglineStyle.Render(tagline),
		"",
		highlights.String(),
		"",
		statsRow,
		ctaStyle.Render(ctaLabel+"  ⏎"),
	)

	sections := []string{
		heroStyle.Width(width).Render(hero),
		footerStyle.Width(width).Align(lipgloss.Center).Render(footerLabel),
		m.renderStatusBar(width, landingShortcuts),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	topPadding := (m.height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

func interleave(items []string, sep string) []string {
	out := make([]string, 0, len(items)*2)
	for i, item := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, item)
	}
	return out
}
