package session

import (
	"errors"
	"strings"

	"github.com/peterh/liner"
)

// LinerReader reads lines with editing and in-memory history.
type LinerReader struct {
	state *liner.State
}

// NewLinerReader takes over the terminal until Close is called.
func NewLinerReader() *LinerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &LinerReader{state: state}
}

// ReadLine prompts for one line. Ctrl-C yields ErrInterrupted, Ctrl-D io.EOF.
func (r *LinerReader) ReadLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", ErrInterrupted
		}
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}
	return line, nil
}

// Close restores the terminal.
func (r *LinerReader) Close() error {
	return r.state.Close()
}
