// Package chat implements the chat widget: an ordered message list with a
// single in-flight exchange that is reconciled in place when the webhook answers.
package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/intelliwave/intelliwave/internal/api"
	apierrors "github.com/intelliwave/intelliwave/internal/errors"
	"github.com/intelliwave/intelliwave/internal/models"
)

// Exchange is one submitted message awaiting its reply
type Exchange struct {
	UserID     string
	ThinkingID string
	Text       string
}

// Widget holds the message sequence of one chat session.
// The zero value is not usable; create widgets with NewWidget.
type Widget struct {
	relay  api.Relay
	logger zerolog.Logger
	newID  func() string

	mu       sync.Mutex
	messages []models.Message
	index    map[string]int
	pending  bool
	lastErr  error
}

// Option configures a Widget
type Option func(*Widget)

// WithLogger sets the logger used to report failed exchanges
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Widget) {
		w.logger = logger
	}
}

// WithIDGenerator replaces the message ID source
func WithIDGenerator(fn func() string) Option {
	return func(w *Widget) {
		w.newID = fn
	}
}

// WithoutIntro starts the widget with an empty sequence
func WithoutIntro() Option {
	return func(w *Widget) {
		w.messages = nil
		w.index = make(map[string]int)
	}
}

// NewWidget creates a widget relaying through relay, seeded with the intro message
func NewWidget(relay api.Relay, opts ...Option) *Widget {
	w := &Widget{
		relay:  relay,
		logger: zerolog.Nop(),
		newID:  uuid.NewString,
		index:  make(map[string]int),
	}
	w.appendLocked(models.IntroMessage())

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Submit validates input and, if accepted, appends the user message and its
// pending placeholder. It returns ErrEmptyInput for blank input and
// ErrRequestPending while a previous exchange is still in flight; in both
// cases the sequence is left untouched.
func (w *Widget) Submit(input string) (*Exchange, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, apierrors.ErrEmptyInput
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending {
		return nil, apierrors.ErrRequestPending
	}

	id := w.newID()
	ex := &Exchange{
		UserID:     id,
		ThinkingID: models.ThinkingID(id),
		Text:       text,
	}

	w.appendLocked(models.Message{
		ID:      ex.UserID,
		Role:    models.RoleUser,
		Content: text,
		Status:  models.StatusDone,
	})
	w.appendLocked(models.Message{
		ID:      ex.ThinkingID,
		Role:    models.RoleAssistant,
		Content: models.ThinkingText,
		Status:  models.StatusPending,
	})
	w.pending = true

	return ex, nil
}

// Deliver performs the webhook call for ex and settles its placeholder.
// Failures are logged and shown as the fallback text; they are not returned.
// The settled placeholder is returned.
func (w *Widget) Deliver(ctx context.Context, ex *Exchange) models.Message {
	reply, err := w.relay.Send(ctx, ex.Text)

	if err != nil {
		event := w.logger.Error().
			Err(err).
			Str("message_id", ex.UserID)
		if status := apierrors.GetHTTPStatus(err); status > 0 {
			event = event.Int("status", status)
		}
		event.Msg("webhook exchange failed")

		return w.settle(ex.ThinkingID, models.FallbackText, models.StatusError, err)
	}

	if strings.TrimSpace(reply) == "" {
		w.logger.Debug().Str("message_id", ex.UserID).Msg("empty reply, using acknowledgement")
		reply = models.AcknowledgementText
	}

	w.logger.Debug().
		Str("message_id", ex.UserID).
		Int("reply_len", len(reply)).
		Msg("webhook exchange done")

	return w.settle(ex.ThinkingID, reply, models.StatusDone, nil)
}

// Send submits input and delivers it synchronously.
// Only Submit rejections are returned as errors.
func (w *Widget) Send(ctx context.Context, input string) (models.Message, error) {
	ex, err := w.Submit(input)
	if err != nil {
		return models.Message{}, err
	}
	return w.Deliver(ctx, ex), nil
}

// settle moves a pending placeholder to its terminal state and clears the
// in-flight flag. Messages already settled are left as they are.
func (w *Widget) settle(id, content string, status models.Status, cause error) models.Message {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = false
	w.lastErr = cause

	i, ok := w.index[id]
	if !ok {
		w.logger.Warn().Str("placeholder_id", id).Err(apierrors.ErrUnknownExchange).Msg("cannot settle placeholder")
		return models.Message{}
	}

	msg := &w.messages[i]
	if msg.Status.IsTerminal() {
		return *msg
	}

	msg.Content = content
	msg.Status = status
	return *msg
}

func (w *Widget) appendLocked(msg models.Message) {
	w.index[msg.ID] = len(w.messages)
	w.messages = append(w.messages, msg)
}

// Messages returns a copy of the sequence in insertion order
func (w *Widget) Messages() []models.Message {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]models.Message, len(w.messages))
	copy(out, w.messages)
	return out
}

// Message looks up a message by ID
func (w *Widget) Message(id string) (models.Message, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	i, ok := w.index[id]
	if !ok {
		return models.Message{}, false
	}
	return w.messages[i], true
}

// Pending reports whether an exchange is in flight
func (w *Widget) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending
}

// Len returns the number of messages
func (w *Widget) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.messages)
}

// LastError returns the cause of the most recent failed exchange, or nil when
// the last exchange succeeded
func (w *Widget) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// LastReply returns the most recent settled assistant message
func (w *Widget) LastReply() (models.Message, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := len(w.messages) - 1; i >= 0; i-- {
		msg := w.messages[i]
		if msg.Role == models.RoleAssistant && !msg.IsPending() {
			return msg, true
		}
	}
	return models.Message{}, false
}
