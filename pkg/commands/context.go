package commands

import "gemini_chat/pkg/ai"

// Context contains what a command may act on
type Context struct {
	Conversation *ai.Conversation
}

// NewContext creates a new command context
func NewContext(conv *ai.Conversation) *Context {
	return &Context{Conversation: conv}
}
