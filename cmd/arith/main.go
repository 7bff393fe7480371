package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/zephyrtronium/arith"
)

func main() {
	log.SetFlags(0)
	var (
		inname, verb, color string
		trace               bool
		depth               int
	)
	flag.StringVar(&inname, "in", "", "input file with one expression per line (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%.10g", "result formatting string")
	flag.BoolVar(&trace, "trace", false, "print each step of evaluation")
	flag.StringVar(&color, "color", "auto", "style output: auto (only on terminals), always, or never")
	flag.IntVar(&depth, "max-depth", arith.DefaultMaxDepth, "maximum nesting of parentheses and signs")
	flag.Parse()
	if depth < 1 {
		log.Fatalf("max depth (%d) must be positive", depth)
	}
	style, err := newStyles(color)
	if err != nil {
		log.Fatal(err)
	}

	e := &evaluator{
		verb:  verb,
		trace: trace,
		opts:  []arith.Option{arith.MaxDepth(depth)},
		style: style,
	}

	if flag.NArg() > 0 && inname == "" {
		ok := true
		for _, arg := range flag.Args() {
			ok = e.eval(os.Stdout, os.Stderr, arg) && ok
		}
		exit(ok)
	}

	if inname == "" && interactive(os.Stdin) {
		if err := repl(e, os.Stdin, os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	in, err := infile(inname)
	if err != nil {
		log.Fatal(err)
	}
	ok, err := lines(e, in, os.Stdout, os.Stderr)
	in.Close()
	if err != nil {
		log.Fatal(err)
	}
	// Arguments after -in are evaluated after the file.
	for _, arg := range flag.Args() {
		ok = e.eval(os.Stdout, os.Stderr, arg) && ok
	}
	exit(ok)
}

func exit(ok bool) {
	if !ok {
		os.Exit(1)
	}
	os.Exit(0)
}

// interactive reports whether f is a terminal.
func interactive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func infile(inname string) (io.ReadCloser, error) {
	switch inname {
	case "", "-":
		return io.NopCloser(os.Stdin), nil
	default:
		return os.Open(inname)
	}
}

// lines evaluates each non-blank line of in as a separate expression. The
// result reports whether every line evaluated successfully.
func lines(e *evaluator, in io.Reader, out, errs io.Writer) (bool, error) {
	ok := true
	r := bufio.NewReader(in)
	for {
		line, err := r.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			ok = e.eval(out, errs, line) && ok
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ok, nil
			}
			return false, fmt.Errorf("reading input: %w", err)
		}
	}
}
