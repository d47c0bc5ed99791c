package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// terminal is the console's confirmation, notification and navigation surface.
type terminal struct {
	in  *bufio.Scanner
	out io.Writer

	left bool
}

func newTerminal(in io.Reader, out io.Writer) *terminal {
	return &terminal{in: bufio.NewScanner(in), out: out}
}

func (t *terminal) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintf(t.out, "%s [y/N] ", prompt)
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			return false, err
		}
		return false, nil
	}

	answer := strings.ToLower(strings.TrimSpace(t.in.Text()))
	return answer == "y" || answer == "yes", nil
}

func (t *terminal) Notify(message string) {
	fmt.Fprintf(t.out, "✔ %s\n", message)
}

func (t *terminal) Navigate(path string) {
	fmt.Fprintf(t.out, "→ %s\n", path)
	t.left = true
}

func (t *terminal) readLine() (string, bool) {
	fmt.Fprint(t.out, "> ")
	if !t.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.in.Text()), true
}
