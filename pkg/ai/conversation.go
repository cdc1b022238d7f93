package ai

// Role identifies the author of a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one message in the conversation log.
type Turn struct {
	Role Role
	Text string
}

// Conversation is an append-only log of turns. It does not enforce
// user/model alternation. Not safe for concurrent use.
type Conversation struct {
	turns []Turn
}

// NewConversation returns an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// Append adds a turn to the end of the log.
func (c *Conversation) Append(role Role, text string) {
	c.turns = append(c.turns, Turn{Role: role, Text: text})
}

// Snapshot returns a copy of the turns, oldest first.
func (c *Conversation) Snapshot() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of stored turns.
func (c *Conversation) Len() int {
	return len(c.turns)
}

// Clear drops every turn.
func (c *Conversation) Clear() {
	c.turns = nil
}
