package submit

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const maxLineSize = 1024 * 1024

// pipeWaitDelay bounds how long output is read once the JVM has exited or
// the submission was cancelled.
var pipeWaitDelay = 5 * time.Second

// process runs the Java submitter and relays its output.
type process struct {
	log        zerolog.Logger
	plan       LaunchPlan
	ctxType    ContextType
	descriptor string
	stdout     io.Writer
	stderr     io.Writer

	// Serialises echoes when stdout and stderr share a writer.
	mu sync.Mutex
}

// run starts the JVM with no stdin, drains stdout and stderr on two
// goroutines, and blocks until the JVM exited and both streams are closed.
func (p *process) run(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, p.plan.Java, p.plan.Args(p.ctxType, p.descriptor)...)
	cmd.Stdin = nil
	cmd.WaitDelay = pipeWaitDelay
	setProcessGroup(cmd)

	outR, outW := io.Pipe()
	errR, errW := io.Pipe()
	cmd.Stdout = outW
	cmd.Stderr = errW

	p.log.Debug().Strs("args", cmd.Args).Msg("Starting java subprocess")
	if err := cmd.Start(); err != nil {
		p.log.Err(err).Msg("Error starting java subprocess for submission")
		return fmt.Errorf("failed to start %s: %w", p.plan.Java, err)
	}

	var g errgroup.Group
	g.Go(func() error {
		if err := p.drain(outR, p.stdout, nil); err != nil {
			p.log.Err(err).Msg("Error reading from process stdout")
			return fmt.Errorf("stdout: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := p.drain(errR, p.stderr, p.watchMarker); err != nil {
			p.log.Err(err).Msg("Error reading from process stderr")
			return fmt.Errorf("stderr: %w", err)
		}
		return nil
	})

	// Wait gives up on the pipes pipeWaitDelay after the JVM exited or ctx
	// was cancelled, even if a child of the JVM still holds them open.
	waitErr := cmd.Wait()
	_ = outW.Close()
	_ = errW.Close()
	drainErr := g.Wait()

	var exitErr *exec.ExitError
	switch {
	case waitErr != nil && ctx.Err() != nil:
		waitErr = fmt.Errorf("java subprocess interrupted: %w", ctx.Err())
	case errors.As(waitErr, &exitErr):
		waitErr = &ExitError{ContextType: p.ctxType, Code: exitErr.ExitCode()}
	case errors.Is(waitErr, exec.ErrWaitDelay):
		p.log.Warn().Dur("wait_delay", pipeWaitDelay).Msg("Java subprocess exited but left its output open, stopped reading")
		waitErr = nil
	}
	if waitErr != nil {
		p.log.Err(waitErr).Msg("Java subprocess did not complete successfully")
	}
	return multierr.Combine(drainErr, waitErr)
}

// drain copies r to w line by line until EOF. On a read error the rest of
// the stream is discarded so the child never blocks on a full pipe.
func (p *process) drain(r io.Reader, w io.Writer, onLine func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		p.echo(w, line)
		if onLine != nil {
			onLine(line)
		}
	}
	if err := scanner.Err(); err != nil {
		_, _ = io.Copy(io.Discard, r)
		return err
	}
	return nil
}

func (p *process) echo(w io.Writer, line string) {
	if w == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(w, line)
}

// watchMarker frees the descriptor as soon as the compiler has picked it up.
func (p *process) watchMarker(line string) {
	if !strings.Contains(line, InvokeScMarker) {
		return
	}
	if err := removeDescriptor(p.descriptor); err != nil {
		p.log.Warn().Err(err).Str("descriptor", p.descriptor).Msg("Failed to delete descriptor file")
		return
	}
	p.log.Debug().Str("descriptor", p.descriptor).Msg("Deleted descriptor file after compiler start")
}
