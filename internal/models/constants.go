// Package models contains the chat data types and the fixed texts of the Intelliwave widget.
package models

// Webhook defaults
const (
	// DefaultWebhookURL is the n8n automation webhook that answers the widget.
	DefaultWebhookURL = "https://intelliwaveai.app.n8n.cloud/webhook/c99b5d4e-0dec-4616-b0c0-274f8febddf6/chat"

	// DefaultSource tags every outbound message with its origin.
	DefaultSource = "intelliwave-site"

	// ContentTypeJSON is sent on every request and recognised on responses.
	ContentTypeJSON = "application/json"
)

// Reply field names, looked up in order on JSON responses
var ReplyFields = []string{"reply", "output", "message"}

// Widget texts
const (
	IntroID = "intro"

	IntroText = "Bonjour, je suis l'assistant Intelliwave. Racontez-moi votre vision et je vous propose un parcours chatbot sur mesure."

	// ThinkingText is shown in the placeholder while the webhook works.
	ThinkingText = "Analyse en cours…"

	// AcknowledgementText replaces a successful but empty reply.
	AcknowledgementText = "Merci ! Nous revenons vers vous très vite avec une proposition détaillée."

	// FallbackText replaces the placeholder when the exchange fails.
	FallbackText = "Une légère interruption vient de se produire. Réessayez dans un instant ou contactez-nous directement sur studio@intelliwave.fr."

	// ThinkingSuffix derives a placeholder ID from the user message ID.
	ThinkingSuffix = "-thinking"
)

// ThinkingID returns the placeholder ID paired with a user message ID
func ThinkingID(userID string) string {
	return userID + ThinkingSuffix
}

// DefaultHeaders returns the headers sent with every webhook request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": ContentTypeJSON,
		"Accept":       "application/json, text/plain, */*",
		"User-Agent":   "intelliwave-cli",
	}
}
