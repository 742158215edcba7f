package models

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Status tracks an assistant message through its exchange
type Status string

const (
	StatusNone    Status = ""
	StatusPending Status = "pending"
	StatusError   Status = "error"
	StatusDone    Status = "done"
)

// IsTerminal reports whether no further transition is allowed from s.
// Messages without a status never transition either.
func (s Status) IsTerminal() bool {
	return s != StatusPending
}

// Message represents a chat message for display
type Message struct {
	ID      string
	Role    Role
	Content string
	Status  Status // optional
}

// IsPending reports whether m is a placeholder awaiting its reply
func (m Message) IsPending() bool {
	return m.Status == StatusPending
}

// IsError reports whether m ended in failure
func (m Message) IsError() bool {
	return m.Status == StatusError
}

// IntroMessage returns the greeting every widget starts with
func IntroMessage() Message {
	return Message{
		ID:      IntroID,
		Role:    RoleAssistant,
		Content: IntroText,
		Status:  StatusDone,
	}
}
