package commands

// QuitHandler ends the session. It is registered as both quit and exit.
type QuitHandler struct {
	name string
}

func (h *QuitHandler) Name() string        { return h.name }
func (h *QuitHandler) Description() string { return "End conversation" }

func (h *QuitHandler) Execute(ctx *Context) *Result {
	return &Result{Content: "Goodbye!", Quit: true}
}

// ClearHandler drops the conversation history
type ClearHandler struct{}

func (h *ClearHandler) Name() string        { return "clear" }
func (h *ClearHandler) Description() string { return "Clear conversation history" }

func (h *ClearHandler) Execute(ctx *Context) *Result {
	if ctx != nil && ctx.Conversation != nil {
		ctx.Conversation.Clear()
	}
	return &Result{Content: "Conversation history cleared."}
}
