package commands

import "strings"

// Result represents the result of a command execution
type Result struct {
	Content string
	Quit    bool
}

// Handler is the interface for command handlers
type Handler interface {
	Execute(ctx *Context) *Result
	Name() string
	Description() string
}

// Dispatcher routes line commands to their handlers. Names match
// case-insensitively against the whole trimmed line.
type Dispatcher struct {
	handlers map[string]Handler
	order    []Handler
}

// NewDispatcher creates a dispatcher with quit, exit and clear registered
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string]Handler),
	}

	d.Register(&QuitHandler{name: "quit"})
	d.Register(&QuitHandler{name: "exit"})
	d.Register(&ClearHandler{})

	return d
}

// Register adds a handler to the dispatcher
func (d *Dispatcher) Register(h Handler) {
	name := strings.ToLower(h.Name())
	if _, exists := d.handlers[name]; !exists {
		d.order = append(d.order, h)
	}
	d.handlers[name] = h
}

// Lookup returns the handler for line, if line is a command
func (d *Dispatcher) Lookup(line string) (Handler, bool) {
	h, ok := d.handlers[strings.ToLower(strings.TrimSpace(line))]
	return h, ok
}

// Handlers returns the registered handlers in registration order
func (d *Dispatcher) Handlers() []Handler {
	out := make([]Handler, len(d.order))
	copy(out, d.order)
	return out
}
