package commands

import (
	"testing"

	"gemini_chat/pkg/ai"
)

func TestNewDispatcher(t *testing.T) {
	d := NewDispatcher()

	if d == nil {
		t.Fatal("NewDispatcher() returned nil")
	}

	for _, cmd := range []string{"quit", "exit", "clear"} {
		if _, ok := d.Lookup(cmd); !ok {
			t.Errorf("Expected handler for %s to be registered", cmd)
		}
	}
	if got := len(d.Handlers()); got != 3 {
		t.Errorf("Expected 3 handlers, got %d", got)
	}
}

func TestDispatcher_LookupIsCaseInsensitive(t *testing.T) {
	d := NewDispatcher()

	for _, line := range []string{"QUIT", "Exit", "  clear  ", "CLEAR"} {
		if _, ok := d.Lookup(line); !ok {
			t.Errorf("Expected %q to match a command", line)
		}
	}
}

func TestDispatcher_LookupRejectsPrompts(t *testing.T) {
	d := NewDispatcher()

	for _, line := range []string{"", "quit now", "please clear", "/quit", "hello"} {
		if _, ok := d.Lookup(line); ok {
			t.Errorf("Expected %q not to match a command", line)
		}
	}
}

func TestQuitHandler(t *testing.T) {
	d := NewDispatcher()
	h, _ := d.Lookup("exit")

	result := h.Execute(NewContext(ai.NewConversation()))

	if !result.Quit {
		t.Error("Expected Quit to be set")
	}
	if result.Content != "Goodbye!" {
		t.Errorf("Expected farewell, got %q", result.Content)
	}
}

func TestClearHandler(t *testing.T) {
	conv := ai.NewConversation()
	conv.Append(ai.RoleUser, "a")
	conv.Append(ai.RoleModel, "b")

	result := (&ClearHandler{}).Execute(NewContext(conv))

	if result.Quit {
		t.Error("clear must not quit")
	}
	if result.Content != "Conversation history cleared." {
		t.Errorf("Unexpected content %q", result.Content)
	}
	if len(conv.Snapshot()) != 0 {
		t.Fatal("Expected conversation to be empty after clear")
	}
}

func TestClearHandler_NilContext(t *testing.T) {
	if result := (&ClearHandler{}).Execute(nil); result == nil {
		t.Fatal("Expected a result")
	}
}
