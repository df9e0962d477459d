// Package prompt reads answers to interactive questions from a line-based
// input, re-asking until the answer is usable.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/moby/term"

	"github.com/mmr-tortoise/wpsite/internal/model"
)

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	// fd and isTerminal describe in when it is a terminal, so Password can
	// turn echo off.
	fd         uintptr
	isTerminal bool
}

// New returns a Prompter reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok {
		p.fd, p.isTerminal = term.GetFdInfo(f)
	}
	return p
}

// readLine reads one line without its line ending. End of input before any
// character was read yields ErrCancelled.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: end of input", model.ErrCancelled)
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Ask asks label until a non-blank answer is given and returns it trimmed.
func (p *Prompter) Ask(label string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", label)
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		if answer := strings.TrimSpace(line); answer != "" {
			return answer, nil
		}
	}
}

// AskDefault asks label once. A blank answer yields def.
func (p *Prompter) AskDefault(label, def string) (string, error) {
	fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer := strings.TrimSpace(line); answer != "" {
		return answer, nil
	}
	return def, nil
}

// AskInt asks label until the answer parses as an integer.
func (p *Prompter) AskInt(label string) (int, error) {
	for {
		answer, err := p.Ask(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil {
			return n, nil
		}
		fmt.Fprintf(p.out, "Error: %q is not a valid integer.\n", answer)
	}
}

// Confirm asks a yes/no question. A blank answer yields def; anything but
// "y" or "yes" is a no.
func (p *Prompter) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(p.out, "%s [%s] ", label, hint)

	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Choose prints items as a 1-based numbered list under question, reads a
// choice and returns the 0-based index of the chosen item.
func (p *Prompter) Choose(question string, items []string) (int, error) {
	PrintNumbered(p.out, items)
	fmt.Fprintln(p.out, question)

	choice, err := p.AskInt("Enter your choice")
	if err != nil {
		return 0, err
	}
	return SelectIndex(choice, len(items))
}

// PrintNumbered writes items as "1. item" lines.
func PrintNumbered(w io.Writer, items []string) {
	for i, item := range items {
		fmt.Fprintf(w, "%d. %s\n", i+1, item)
	}
}

// SelectIndex converts a 1-based menu choice among n items to a 0-based
// index. Choices outside [1, n] fail with ErrInvalidArgument.
func SelectIndex(choice, n int) (int, error) {
	if choice < 1 || choice > n {
		return 0, fmt.Errorf("%w: invalid option %d, please choose between 1 and %d", model.ErrInvalidArgument, choice, n)
	}
	return choice - 1, nil
}

// Password asks label until a non-empty answer is given. When the input is
// a terminal, echo is turned off while the answer is typed.
func (p *Prompter) Password(label string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", label)
		line, err := p.readHidden()
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
	}
}

// readHidden reads one line with terminal echo disabled when possible.
func (p *Prompter) readHidden() (string, error) {
	if !p.isTerminal {
		return p.readLine()
	}

	state, err := term.SaveState(p.fd)
	if err != nil {
		return "", fmt.Errorf("failed to save terminal state: %w", err)
	}
	if err := term.DisableEcho(p.fd, state); err != nil {
		return "", fmt.Errorf("failed to disable echo: %w", err)
	}
	defer func() {
		_ = term.RestoreTerminal(p.fd, state)
		fmt.Fprintln(p.out)
	}()

	return p.readLine()
}
