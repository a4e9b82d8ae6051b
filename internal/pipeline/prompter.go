package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter collects the user's decisions. Confirmation and choice reads
// block the pipeline until a response arrives; the only cancellation
// mechanism is an explicit quit answer.
type Prompter interface {
	// Confirm asks a yes/no question. Any non-affirmative response is a
	// rejection.
	Confirm(question string) (bool, error)
	// ReadLine reads one free-text line, which may be empty.
	ReadLine(prompt string) (string, error)
}

// TerminalPrompter reads decisions from an input stream, normally stdin.
type TerminalPrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewTerminalPrompter wires a prompter to the given streams.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (p *TerminalPrompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func (p *TerminalPrompter) ReadLine(prompt string) (string, error) {
	fmt.Fprintf(p.out, "%s", prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
