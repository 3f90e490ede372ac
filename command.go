package dungeonmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/shlex"
)

// CommandRenderer runs an external renderer program. The command string is
// tokenized with POSIX shell quoting rules; the render context is written
// to the child's standard input as one JSON document, then the pipe is
// closed to signal completeness. Standard output and error are inherited.
type CommandRenderer struct {
	name    string
	command string
}

// NewCommandRenderer creates a renderer that runs the given shell-style
// command string.
func NewCommandRenderer(name, command string) *CommandRenderer {
	return &CommandRenderer{name: name, command: command}
}

func (r *CommandRenderer) Name() string {
	return r.name
}

// buildCommand tokenizes the command string and resolves the executable: a
// bare name is looked up on the process search path, anything with a path
// separator resolves relative to the project root.
func (r *CommandRenderer) buildCommand(root string) (*exec.Cmd, error) {
	parts, err := shlex.Split(r.command)
	if err != nil {
		return nil, fmt.Errorf("tokenizing renderer command: %w", err)
	}
	if len(parts) == 0 {
		return nil, ErrEmptyRendererCommand
	}

	bin := parts[0]
	if strings.ContainsAny(bin, `/\`) && !filepath.IsAbs(bin) {
		bin = filepath.Join(root, bin)
	}

	return exec.Command(bin, parts[1:]...), nil // #nosec G204 -- renderer commands come from the user's own config
}

// Render spawns the renderer process and blocks until it exits. A non-zero
// exit status is a renderer failure; a hung renderer blocks indefinitely.
func (r *CommandRenderer) Render(ctx *RenderContext) error {
	cmd, err := r.buildCommand(ctx.Root)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRendererFailed, r.name, err)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("%w: %s: creating stdin pipe: %v", ErrRendererFailed, r.name, err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: spawning process: %v", ErrRendererFailed, r.name, err)
	}

	// Write on a dedicated goroutine so a child that stops reading before
	// the payload fits in the pipe buffer cannot deadlock the build.
	writeDone := make(chan error, 1)
	go func() {
		err := json.NewEncoder(stdin).Encode(ctx)
		if closeErr := stdin.Close(); err == nil {
			err = closeErr
		}
		writeDone <- err
	}()

	waitErr := cmd.Wait()
	writeErr := <-writeDone

	if waitErr != nil {
		return fmt.Errorf("%w: %s: %v", ErrRendererFailed, r.name, waitErr)
	}
	if writeErr != nil && !brokenPipe(writeErr) {
		return fmt.Errorf("%w: %s: writing render context: %v", ErrRendererFailed, r.name, writeErr)
	}

	return nil
}

// brokenPipe reports whether the write failed because the renderer stopped
// reading. A renderer that exits cleanly without consuming its input is not
// treated as a failure.
func brokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed)
}
