package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	banner = "Enter an arithmetic expression, or q to quit."
	noexpr = "No expression entered. Please try again."
)

// repl runs an interactive session on a terminal.
func repl(e *evaluator, in *os.File, out io.Writer) error {
	fd := int(in.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("setting up terminal: %w", err)
	}
	defer term.Restore(fd, old)
	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{in, out}, "> ")
	if w, h, err := term.GetSize(fd); err == nil {
		t.SetSize(w, h)
	}
	return session(e, t)
}

// session reads expressions from t until EOF or a quit command.
func session(e *evaluator, t lineReadWriter) error {
	fmt.Fprintln(t, banner)
	for {
		line, err := t.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch line = strings.TrimSpace(line); line {
		case "":
			fmt.Fprintln(t, noexpr)
		case "q", "Q", "quit", "exit":
			return nil
		default:
			e.eval(t, t, line)
		}
	}
}

// lineReadWriter is the part of *term.Terminal that a session uses.
type lineReadWriter interface {
	io.Writer
	ReadLine() (string, error)
}
