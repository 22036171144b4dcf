package brew

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/lucalorenzon/brew-maintainer/internal/common/logger"
)

// runStreaming runs a brew command while watching its output for interactive
// prompts. The process is killed when a prompt appears or the context expires.
func (r *Runner) runStreaming(ctx context.Context, args ...string) error {
	logger.Debug("executing: %s %s", r.binary, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Env = r.environ()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Join(ErrBrewCommand, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errors.Join(ErrBrewCommand, err)
	}

	if err := cmd.Start(); err != nil {
		return errors.Join(ErrBrewCommand, err)
	}
	logger.Debug("started %s with pid %d", r.binary, cmd.Process.Pid)

	prompts := make(chan string, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go watchForPrompts(stdout, prompts, &wg)
	go watchForPrompts(stderr, prompts, &wg)

	done := make(chan error, 1)
	go func() {
		wg.Wait()
		done <- cmd.Wait()
	}()

	select {
	case line := <-prompts:
		_ = cmd.Process.Kill()
		<-done
		return fmt.Errorf("%w: %q", ErrInputRequested, strings.TrimSpace(line))
	case err := <-done:
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return ErrTimeout
			}
			return ctxErr
		}
		if err != nil {
			return errors.Join(ErrBrewCommand, err)
		}
		return nil
	}
}

// watchForPrompts scans a process stream for interactive prompts. It works on
// raw chunks rather than buffered lines so an unterminated prompt such as
// "Password:" is still seen before the process blocks on stdin.
func watchForPrompts(stream io.Reader, prompts chan<- string, wg *sync.WaitGroup) {
	defer wg.Done()

	buf := make([]byte, 4096)
	var tail string
	for {
		n, err := stream.Read(buf)
		if n > 0 {
			chunk := tail + strings.ReplaceAll(string(buf[:n]), "\r", "\n")
			parts := strings.Split(chunk, "\n")
			tail = parts[len(parts)-1]

			for _, line := range parts[:len(parts)-1] {
				if line == "" {
					continue
				}
				logger.Debug("brew: %s", line)
				if IsPromptLine(line) {
					offerPrompt(prompts, line)
				}
			}
			if IsPromptLine(tail) {
				offerPrompt(prompts, tail)
			}
		}
		if err != nil {
			return
		}
	}
}

// offerPrompt sends a prompt line without blocking the stream reader
func offerPrompt(prompts chan<- string, line string) {
	select {
	case prompts <- line:
	default:
	}
}
