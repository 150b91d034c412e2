package tool

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	ioutils "github.com/royal-15/SpotiPlay-Desktop/internal/io"
	"github.com/royal-15/SpotiPlay-Desktop/internal/logutils"
)

// DefaultGracePeriod is how long a cancelled process may take to exit
// after the interrupt before it is killed.
const DefaultGracePeriod = 5 * time.Second

// CommandFunc builds the command for a job. Implementations must use
// exec.CommandContext so that cancellation reaches the process.
type CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// Worker runs tool processes.
type Worker struct {
	command CommandFunc
	grace   time.Duration
	log     *logrus.Entry
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithCommand replaces exec.CommandContext, mainly for tests.
func WithCommand(fn CommandFunc) WorkerOption {
	return func(w *Worker) {
		w.command = fn
	}
}

// WithGracePeriod sets the delay between interrupt and kill.
func WithGracePeriod(d time.Duration) WorkerOption {
	return func(w *Worker) {
		w.grace = d
	}
}

// NewWorker creates a Worker.
func NewWorker(opts ...WorkerOption) *Worker {
	w := &Worker{
		command: exec.CommandContext,
		grace:   DefaultGracePeriod,
		log:     logutils.Component("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start launches the job and returns its event stream. Events arrive in
// the order the process produced them; the channel is closed after exactly
// one terminal event. The caller must drain the channel.
func (w *Worker) Start(ctx context.Context, job Job) <-chan Event {
	events := make(chan Event, 16)
	go func() {
		defer close(events)
		events <- w.run(ctx, job, events)
	}()
	return events
}

func (w *Worker) run(ctx context.Context, job Job, events chan<- Event) Event {
	name, args := job.Command()
	log := w.log.WithFields(logrus.Fields{
		"tool":   job.Kind.String(),
		"target": job.Target,
	})

	if ctx.Err() != nil {
		return Event{Type: EventCancelled}
	}

	if err := ioutils.EnsureDir(job.OutputDir); err != nil {
		return failed(ErrLaunch, fmt.Sprintf("Cannot create output directory: %v", err))
	}

	pr, pw := io.Pipe()
	cmd := w.command(ctx, name, args...)
	cmd.Stdout = pw
	cmd.Stderr = pw
	cmd.Cancel = func() error {
		return interrupt(cmd.Process)
	}
	cmd.WaitDelay = w.grace

	log.WithField("args", strings.Join(args, " ")).Debug("Launching tool")
	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		log.WithError(err).Error("Failed to launch tool")
		return failed(ErrLaunch, launchMessage(name, err))
	}
	log = log.WithField("pid", cmd.Process.Pid)

	parser := NewParser(job.Kind)
	var waitErr error

	var g errgroup.Group
	g.Go(func() error {
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		scanner.Split(scanLines)
		for scanner.Scan() {
			line := strings.ToValidUTF8(scanner.Text(), "\uFFFD")
			log.Debug(line)
			if ev, ok := parser.Feed(line); ok {
				events <- ev
			}
		}
		err := scanner.Err()
		if err != nil {
			// keep the process from blocking on a full pipe
			io.Copy(io.Discard, pr)
		}
		return err
	})
	g.Go(func() error {
		waitErr = cmd.Wait()
		pw.Close()
		return nil
	})
	if err := g.Wait(); err != nil {
		log.WithError(err).Warn("Stopped reading tool output")
	}

	switch {
	case ctx.Err() != nil:
		log.Info("Tool cancelled")
		return Event{Type: EventCancelled}

	case waitErr != nil && !errors.Is(waitErr, exec.ErrWaitDelay):
		log.WithError(waitErr).Warn("Tool exited with error")
		return failed(ErrRuntime, failureMessage(parser, waitErr))

	case parser.Failure() != "":
		log.WithField("line", parser.Failure()).Warn("Tool reported failure")
		return failed(ErrRuntime, parser.Failure())
	}

	if parser.Percent() < 100 {
		events <- Event{Type: EventProgress, Percent: 100}
	}
	log.Info("Tool finished")
	return Event{Type: EventCompleted, OutputPath: resolveOutput(parser.OutputPath(), job)}
}

func failed(kind error, message string) Event {
	return Event{
		Type:    EventFailed,
		Message: message,
		Err:     fmt.Errorf("%w: %s", kind, message),
	}
}

func launchMessage(name string, err error) string {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Sprintf("Command not found: %s", name)
	}
	return fmt.Sprintf("Failed to start process: %v", err)
}

func failureMessage(p *Parser, waitErr error) string {
	if f := p.Failure(); f != "" {
		return f
	}
	if tail := p.Tail(); tail != "" {
		return tail
	}
	return waitErr.Error()
}

// resolveOutput turns a reported destination into a path under the job's
// output directory. spotdl reports song names rather than paths.
func resolveOutput(reported string, job Job) string {
	if reported == "" {
		return ""
	}
	path := reported
	if !filepath.IsAbs(path) {
		path = filepath.Join(job.OutputDir, path)
	}
	if ioutils.FileExists(path) {
		return path
	}
	if withExt := path + "." + string(job.format()); ioutils.FileExists(withExt) {
		return withExt
	}
	return path
}

// scanLines splits on \n or \r so carriage-return progress bars yield one
// line per redraw.
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

type signaler interface {
	Signal(sig os.Signal) error
	Kill() error
}

// interrupt asks p to stop. Where interrupts cannot be delivered, as on
// Windows, p is killed right away instead of after the grace period.
func interrupt(p signaler) error {
	if err := p.Signal(os.Interrupt); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return err
		}
		return p.Kill()
	}
	return nil
}
