package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
)

// Prompter reads one line of user input after printing a prompt.
// It returns io.EOF once input is exhausted or the user aborts.
type Prompter interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// NewPrompter returns a line-editing prompter when in is a terminal and a
// plain line reader otherwise.
func NewPrompter(in *os.File, out io.Writer) Prompter {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		return NewLinePrompter()
	}
	return NewScannerPrompter(in, out)
}

// LinePrompter wraps liner for history and in-line editing.
type LinePrompter struct {
	state *liner.State
}

func NewLinePrompter() *LinePrompter {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &LinePrompter{state: state}
}

func (p *LinePrompter) Prompt(prompt string) (string, error) {
	line, err := p.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if line != "" {
		p.state.AppendHistory(line)
	}
	return line, nil
}

func (p *LinePrompter) Close() error {
	return p.state.Close()
}

// ScannerPrompter reads lines from any reader; used for pipes and tests.
type ScannerPrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewScannerPrompter(in io.Reader, out io.Writer) *ScannerPrompter {
	return &ScannerPrompter{scanner: bufio.NewScanner(in), out: out}
}

func (p *ScannerPrompter) Prompt(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

func (p *ScannerPrompter) Close() error { return nil }
