// Package tuitest drives the xtract binary inside a pseudo terminal and
// records what it draws.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 120
	defaultHeight  = 32
	defaultTimeout = 5 * time.Second
	readChunk      = 4096
)

// Step is one scripted input. A zero delay writes immediately.
type Step struct {
	Delay time.Duration
	Input []byte
}

// Client describes one invocation of the xtract binary against a backend.
type Client struct {
	Binary string
	// API is passed as --api.
	API string
	// LogFile is passed as --log-file when set.
	LogFile string
	// Location is the optional start location argument.
	Location string
}

// Command returns the argv for c. The alternate screen is disabled so that
// every repaint lands in the recording.
func (c Client) Command() []string {
	args := []string{c.Binary, "--no-alt-screen", "--api", c.API}
	if c.LogFile != "" {
		args = append(args, "--log-file", c.LogFile)
	}
	if c.Location != "" {
		args = append(args, c.Location)
	}
	return args
}

// Config configures one recorded run.
type Config struct {
	Command []string
	Dir     string
	Env     []string
	Width   int
	Height  int
	Steps   []Step
	Timeout time.Duration
	// AllowInterrupt accepts an exit caused by SIGINT, which is how the
	// program ends when the script sends ctrl+c before it settles.
	AllowInterrupt bool
}

func (cfg Config) withDefaults() Config {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg
}

// Recording holds the raw terminal stream and the frames parsed from it.
type Recording struct {
	Raw    []byte
	Frames []Frame
}

// capture copies the PTY output into a buffer and answers terminal queries
// the program sends while starting up.
type capture struct {
	mu   sync.Mutex
	out  bytes.Buffer
	done chan struct{}
}

func startCapture(ptmx *os.File) *capture {
	c := &capture{done: make(chan struct{})}
	go func() {
		defer close(c.done)
		responder := newTerminalResponder(ptmx)
		buf := make([]byte, readChunk)
		for {
			n, err := ptmx.Read(buf)
			if n > 0 {
				responder.Process(buf[:n])
				c.mu.Lock()
				c.out.Write(buf[:n])
				c.mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()
	return c
}

func (c *capture) bytes() []byte {
	<-c.done
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.out.Bytes()...)
}

// Run starts cfg.Command in a PTY, replays the steps and waits for the
// program to exit.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	cfg = cfg.withDefaults()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(cfg.Height), Cols: uint16(cfg.Width)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()
	out := startCapture(ptmx)

	if err := replay(ctx, ptmx, cfg.Steps); err != nil {
		return nil, err
	}
	if err := awaitExit(ctx, cmd, cfg.AllowInterrupt); err != nil {
		return nil, err
	}

	_ = ptmx.Close()
	raw := out.bytes()
	return &Recording{Raw: raw, Frames: parseFrames(raw)}, nil
}

func replay(ctx context.Context, ptmx *os.File, steps []Step) error {
	for i, step := range steps {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("tuitest: step %d: %w", i, ctx.Err())
			case <-time.After(step.Delay):
			}
		}
		if len(step.Input) == 0 {
			continue
		}
		if _, err := ptmx.Write(step.Input); err != nil {
			return fmt.Errorf("tuitest: step %d: write input: %w", i, err)
		}
	}
	return nil
}

func awaitExit(ctx context.Context, cmd *exec.Cmd, allowInterrupt bool) error {
	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	select {
	case err := <-exited:
		if err == nil {
			return nil
		}
		if allowInterrupt && strings.Contains(err.Error(), "signal: interrupt") {
			return nil
		}
		return fmt.Errorf("tuitest: program exited with error: %w", err)
	case <-ctx.Done():
		return fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}
}

func buildEnv(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}

var (
	KeyEnter = []byte{'\r'}
	KeyCtrlC = []byte{3}
	KeyEsc   = []byte{27}
	// KeyTab highlights the next quick-search topic on the home screen.
	KeyTab  = []byte{'\t'}
	KeyDown = []byte("\x1b[B")
)

// Type returns a step that writes text after delay.
func Type(delay time.Duration, text string) Step {
	return Step{Delay: delay, Input: []byte(text)}
}

// Press returns a step that writes a key sequence after delay.
func Press(delay time.Duration, key []byte) Step {
	return Step{Delay: delay, Input: key}
}

// Wait returns a step that only pauses.
func Wait(delay time.Duration) Step {
	return Step{Delay: delay}
}
