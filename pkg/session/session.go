package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"gemini_chat/pkg/ai"
	"gemini_chat/pkg/commands"
)

// ErrInterrupted is returned by a LineReader when the user aborts input.
var ErrInterrupted = errors.New("input interrupted")

// LineReader reads one line of user input.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Sender performs one exchange with the model.
type Sender interface {
	Send(ctx context.Context, conv *ai.Conversation, prompt string) ai.Outcome
}

// Output is what the loop writes to.
type Output interface {
	UserPrompt() string
	ModelLabel()
	StartThinking()
	StopThinking()
	Reply(text string)
	Info(msg string)
	Error(msg string)
	Farewell()
}

// Options configures a Session.
type Options struct {
	MaxInputChars int
	Logger        *slog.Logger
}

// Session is the interactive read-send-print loop. It runs on a single
// goroutine and owns the conversation.
type Session struct {
	in            LineReader
	out           Output
	sender        Sender
	conv          *ai.Conversation
	dispatcher    *commands.Dispatcher
	maxInputChars int
	logger        *slog.Logger
}

// New creates a session with an empty conversation.
func New(in LineReader, out Output, sender Sender, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Session{
		in:            in,
		out:           out,
		sender:        sender,
		conv:          ai.NewConversation(),
		dispatcher:    commands.NewDispatcher(),
		maxInputChars: opts.MaxInputChars,
		logger:        opts.Logger,
	}
}

// Conversation returns the session's history.
func (s *Session) Conversation() *ai.Conversation {
	return s.conv
}

// Dispatcher returns the line command dispatcher.
func (s *Session) Dispatcher() *commands.Dispatcher {
	return s.dispatcher
}

// Run loops until quit, EOF, interrupt or ctx cancellation. Outcomes and
// per-exchange failures are printed and the loop continues. Only a failing
// reader ends it with an error.
func (s *Session) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			s.out.Farewell()
			return nil
		}

		line, err := s.readLine(ctx)
		if err != nil {
			if errors.Is(err, ErrInterrupted) || errors.Is(err, io.EOF) || ctx.Err() != nil {
				s.logger.Info("session_end", "reason", "interrupt", "turns", s.conv.Len())
				s.out.Farewell()
				return nil
			}
			s.out.Error(fmt.Sprintf("An unexpected error occurred: %v", err))
			return fmt.Errorf("read input: %w", err)
		}

		if quit := s.handleLine(ctx, strings.TrimSpace(line)); quit {
			s.logger.Info("session_end", "reason", "quit", "turns", s.conv.Len())
			s.out.Farewell()
			return nil
		}
	}
}

type readResult struct {
	line string
	err  error
}

// readLine waits for the next line or for ctx to end. A reader blocked in a
// read is abandoned on cancellation; the loop does not read from it again.
func (s *Session) readLine(ctx context.Context) (string, error) {
	results := make(chan readResult, 1)
	prompt := s.out.UserPrompt()
	go func() {
		line, err := s.in.ReadLine(prompt)
		results <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-results:
		return r.line, r.err
	}
}

func (s *Session) handleLine(ctx context.Context, input string) (quit bool) {
	defer func() {
		if r := recover(); r != nil {
			s.out.StopThinking()
			s.logger.Error("session_panic", "panic", r)
			s.out.Error(fmt.Sprintf("An unexpected error occurred: %v", r))
			quit = false
		}
	}()

	if input == "" {
		return false
	}

	if h, ok := s.dispatcher.Lookup(input); ok {
		result := h.Execute(commands.NewContext(s.conv))
		s.logger.Debug("session_command", "command", h.Name())
		if result.Quit {
			return true
		}
		s.out.Info(result.Content)
		return false
	}

	if n := utf8.RuneCountInString(input); s.maxInputChars > 0 && n > s.maxInputChars {
		s.logger.Info("session_input_rejected", "chars", n, "max_chars", s.maxInputChars)
		s.out.Error("Input too long. Please reduce the length of your message.")
		return false
	}

	s.exchange(ctx, input)
	return ctx.Err() != nil
}

func (s *Session) exchange(ctx context.Context, input string) {
	s.out.ModelLabel()
	s.out.StartThinking()
	outcome := s.sender.Send(ctx, s.conv, input)
	s.out.StopThinking()

	if ctx.Err() != nil {
		return
	}

	s.logger.Info("session_exchange", "outcome", ai.Kind(outcome), "turns", s.conv.Len())

	switch o := outcome.(type) {
	case ai.Success:
		s.out.Reply(o.Text)
	case ai.SafetyBlocked, ai.Empty:
		s.out.Reply(o.Message())
	case ai.ModelNotFound, ai.RateLimited, ai.HTTPError, ai.NetworkError, ai.Unexpected:
		s.out.Error(o.Message())
	default:
		s.out.Error(ai.Unexpected{}.Message())
	}
}
