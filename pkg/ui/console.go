package ui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gemini_chat/pkg/ui/styles"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

const markdownWrap = 80

// MarkdownRenderer turns markdown into terminal output.
type MarkdownRenderer interface {
	Render(in string) (string, error)
}

// Console writes chat output. Styled lines go through lipgloss so colors are
// dropped when out is not a terminal; replies are written verbatim unless
// they are rendered as markdown on a terminal.
type Console struct {
	out      io.Writer
	tty      bool
	logger   *slog.Logger
	thinking bool

	mdOnce sync.Once
	md     MarkdownRenderer
	mdErr  error
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithMarkdownRenderer replaces the glamour renderer.
func WithMarkdownRenderer(r MarkdownRenderer) ConsoleOption {
	return func(c *Console) {
		c.md = r
		c.mdOnce.Do(func() {})
	}
}

// WithTTY overrides terminal detection.
func WithTTY(tty bool) ConsoleOption {
	return func(c *Console) { c.tty = tty }
}

// WithLogger sets the logger used for rendering failures.
func WithLogger(logger *slog.Logger) ConsoleOption {
	return func(c *Console) { c.logger = logger }
}

// NewConsole creates a console writing to out.
func NewConsole(out io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{
		out:    out,
		tty:    IsTerminal(out),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Welcome prints the banner.
func (c *Console) Welcome(banner string) {
	lipgloss.Fprint(c.out, banner)
}

// Info prints a cyan informational line.
func (c *Console) Info(msg string) {
	lipgloss.Fprintln(c.out, styles.InfoStyle.Render(msg))
}

// Error prints a red error line.
func (c *Console) Error(msg string) {
	lipgloss.Fprintln(c.out, styles.ErrorStyle.Render(msg))
}

// Warn prints a warning line.
func (c *Console) Warn(msg string) {
	lipgloss.Fprintln(c.out, styles.WarningStyle.Render(msg))
}

// Farewell prints the goodbye line.
func (c *Console) Farewell() {
	lipgloss.Fprintln(c.out)
	lipgloss.Fprintln(c.out, styles.TitleStyle.Render("Goodbye!"))
}

// UserPrompt returns the label shown before user input. It is left unstyled
// because liner computes the prompt width itself.
func (c *Console) UserPrompt() string {
	return "You: "
}

// ModelLabel prints the label that precedes a reply.
func (c *Console) ModelLabel() {
	lipgloss.Fprintln(c.out)
	lipgloss.Fprintln(c.out, styles.ModelLabelStyle.Render("Chatbot:"))
}

// StartThinking shows the in-flight indicator on terminals.
func (c *Console) StartThinking() {
	if !c.tty {
		return
	}
	c.thinking = true
	lipgloss.Fprint(c.out, styles.TextMutedStyle.Render("Thinking..."))
}

// StopThinking erases the indicator.
func (c *Console) StopThinking() {
	if !c.thinking {
		return
	}
	c.thinking = false
	fmt.Fprint(c.out, "\r"+ansi.EraseEntireLine)
}

// Reply prints a model reply. Text with markdown markers is rendered on
// terminals; on rendering failure the raw text is printed after a warning.
func (c *Console) Reply(text string) {
	if text == "" {
		c.Error("Error: Empty response from model")
		return
	}
	if c.tty && LooksLikeMarkdown(text) {
		rendered, err := c.renderMarkdown(text)
		if err == nil {
			fmt.Fprint(c.out, rendered)
			return
		}
		c.logger.Warn("markdown_render_failed", "error", err)
		c.Warn(fmt.Sprintf("Warning: Error formatting response: %v", err))
	}
	fmt.Fprintln(c.out, text)
}

// LooksLikeMarkdown reports whether text carries markdown markers.
func LooksLikeMarkdown(text string) bool {
	return strings.Contains(text, "```") || strings.Contains(text, "#") || strings.Contains(text, "*")
}

func (c *Console) renderMarkdown(text string) (string, error) {
	c.mdOnce.Do(func() {
		c.md, c.mdErr = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(markdownWrap),
		)
	})
	if c.mdErr != nil {
		return "", fmt.Errorf("create markdown renderer: %w", c.mdErr)
	}
	return c.md.Render(text)
}
