package state

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the advice chat.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Transcript is the local display history of the advice chat. It is never
// sent to the generation service; every call there is stateless.
type Transcript []Message

// Append returns a new transcript with the message added.
func (t Transcript) Append(role Role, text string) Transcript {
	next := make(Transcript, len(t), len(t)+1)
	copy(next, t)
	return append(next, Message{Role: role, Text: text})
}
