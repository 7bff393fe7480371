package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultNativeTimeout bounds a single run of the native binary.
const DefaultNativeTimeout = 5 * time.Second

// Native evaluates expressions by running a compiled evaluator binary, such as
// the arith command, with the expression as its last argument. The binary
// must print the result on success and exit 0, or exit nonzero and describe
// the problem on stderr or stdout.
type Native struct {
	// Path is the binary to run. It is resolved with exec.LookPath.
	Path string
	// Args are passed before the expression.
	Args []string
	// Timeout bounds each run. Zero means DefaultNativeTimeout.
	Timeout time.Duration
}

// ArithArgs are the Args for running the arith command as a Native. The
// terminating "--" keeps expressions like "-1" from being read as flags.
var ArithArgs = []string{"-color=never", "--"}

// NativeError is a failed evaluation reported by the native binary.
type NativeError struct {
	// Code is the binary's exit code.
	Code int
	// Msg is the binary's stderr, or its stdout if stderr was empty.
	Msg string
}

func (err *NativeError) Error() string {
	if err.Msg == "" {
		return fmt.Sprintf("native evaluator exited with status %d", err.Code)
	}
	return err.Msg
}

// ErrNoNative indicates that no native binary is configured or it cannot be
// found.
var ErrNoNative = errors.New("no native evaluator binary found")

// Available reports whether the configured binary can be found.
func (n *Native) Available() bool {
	if n == nil || n.Path == "" {
		return false
	}
	_, err := exec.LookPath(n.Path)
	return err == nil
}

// Eval runs the binary on expr and returns its trimmed stdout.
func (n *Native) Eval(ctx context.Context, expr string) (string, error) {
	if n == nil || n.Path == "" {
		return "", ErrNoNative
	}
	bin, err := exec.LookPath(n.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoNative, err)
	}
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = DefaultNativeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	args := append(n.Args[:len(n.Args):len(n.Args)], expr)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err = cmd.Run()
	if ctx.Err() != nil {
		return "", fmt.Errorf("running native evaluator: %w", ctx.Err())
	}
	var exit *exec.ExitError
	switch {
	case err == nil:
		return strings.TrimSpace(stdout.String()), nil
	case errors.As(err, &exit):
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		return "", &NativeError{Code: exit.ExitCode(), Msg: msg}
	default:
		return "", fmt.Errorf("running native evaluator: %w", err)
	}
}
