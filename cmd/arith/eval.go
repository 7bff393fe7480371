package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/zephyrtronium/arith"
)

// evaluator evaluates expressions and prints their results.
type evaluator struct {
	verb  string
	trace bool
	opts  []arith.Option
	style styles
}

type styles struct {
	result lipgloss.Style
	step   lipgloss.Style
	err    lipgloss.Style
}

// newStyles creates output styles for a -color mode. In auto mode, lipgloss
// drops styling on its own when stdout is not a terminal; always forces an
// ANSI profile so that styling survives pipes.
func newStyles(mode string) (styles, error) {
	switch mode {
	case "never":
		return styles{result: lipgloss.NewStyle(), step: lipgloss.NewStyle(), err: lipgloss.NewStyle()}, nil
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	case "auto":
	default:
		return styles{}, fmt.Errorf("-color must be auto, always, or never, not %q", mode)
	}
	return styles{
		result: lipgloss.NewStyle().Bold(true),
		step:   lipgloss.NewStyle().Faint(true),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}, nil
}

// eval evaluates src, writing its result to out or its error to errs. The
// result reports whether evaluation succeeded.
func (e *evaluator) eval(out, errs io.Writer, src string) bool {
	opts := e.opts
	if e.trace {
		opts = append(opts[:len(opts):len(opts)], arith.Trace(func(s arith.Step) {
			fmt.Fprintln(out, e.style.step.Render("step: "+s.String()))
		}))
	}
	r, err := arith.Evaluate(src, opts...)
	if err != nil {
		fmt.Fprintln(errs, e.style.err.Render("syntax error at "+err.Error()))
		return false
	}
	fmt.Fprintln(out, e.style.result.Render(fmt.Sprintf(e.verb, r)))
	return true
}
