// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"

	"github.com/charmbracelet/log"
)

// DefaultJava is the Java executable used when none is configured.
const DefaultJava = "java"

type (
	// Invocation is a fully compiled game process.
	Invocation struct {
		Java      string
		JVMArgs   []string
		MainClass string
		GameArgs  []string
		// Dir is the working directory. Empty inherits the launcher's.
		Dir string
	}

	// Runner starts an Invocation and waits for it to exit.
	Runner interface {
		Run(ctx context.Context, inv Invocation) (int, error)
	}

	// ExecRunner runs invocations as child processes with inherited stdio.
	ExecRunner struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		Logger *log.Logger
	}
)

// Argv returns the process argument vector: java, JVM args, main class, game args.
func (inv Invocation) Argv() []string {
	java := inv.Java
	if java == "" {
		java = DefaultJava
	}
	argv := make([]string, 0, len(inv.JVMArgs)+len(inv.GameArgs)+2)
	argv = append(argv, java)
	argv = append(argv, inv.JVMArgs...)
	argv = append(argv, inv.MainClass)
	return append(argv, inv.GameArgs...)
}

// NewInvocation assembles an invocation from compiled arguments.
func NewInvocation(java, mainClass, dir string, args *Arguments) Invocation {
	return Invocation{
		Java:      java,
		JVMArgs:   slices.Clone(args.JVM),
		MainClass: mainClass,
		GameArgs:  slices.Clone(args.Game),
		Dir:       dir,
	}
}

// Run starts the process and returns its exit code. A non-zero exit is not an
// error; failing to start is.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (int, error) {
	argv := inv.Argv()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = inv.Dir
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if r.Stdin != nil {
		cmd.Stdin = r.Stdin
	}
	if r.Stdout != nil {
		cmd.Stdout = r.Stdout
	}
	if r.Stderr != nil {
		cmd.Stderr = r.Stderr
	}

	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger.Debug("starting game process", "java", argv[0], "main", inv.MainClass, "dir", inv.Dir)

	if inv.Dir != "" {
		if err := os.MkdirAll(inv.Dir, 0o755); err != nil {
			return 1, fmt.Errorf("create game directory: %w", err)
		}
	}
	if err := cmd.Start(); err != nil {
		return 1, fmt.Errorf("start %s: %w", argv[0], err)
	}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Debug("game process exited", "code", exitErr.ExitCode())
			return exitErr.ExitCode(), nil
		}
		return 1, fmt.Errorf("wait for %s: %w", argv[0], err)
	}
	return 0, nil
}
