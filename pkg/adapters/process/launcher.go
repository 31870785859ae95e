package process

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/openpermit/openpermit/pkg/ports"
)

// DefaultGracePeriod is how long Close waits for the child to exit after its stdin closes.
const DefaultGracePeriod = 3 * time.Second

// Config describes the worker command.
type Config struct {
	Command string            `yaml:"command" json:"command"`
	Args    []string          `yaml:"args" json:"args"`
	Dir     string            `yaml:"dir" json:"dir"`
	Env     map[string]string `yaml:"env" json:"env"`
}

// Launcher starts a worker process speaking newline-delimited frames on stdio.
// It satisfies openpermit.Launcher.
type Launcher struct {
	cfg   Config
	grace time.Duration
}

// LauncherOption configures the launcher.
type LauncherOption func(*Launcher)

// WithGracePeriod overrides DefaultGracePeriod.
func WithGracePeriod(d time.Duration) LauncherOption {
	return func(l *Launcher) {
		if d > 0 {
			l.grace = d
		}
	}
}

// NewLauncher creates a launcher for cfg.
func NewLauncher(cfg Config, opts ...LauncherOption) *Launcher {
	l := &Launcher{cfg: cfg, grace: DefaultGracePeriod}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch starts the child. It is killed when ctx ends.
// Closing the returned conn closes the child's stdin and waits for it to exit.
func (l *Launcher) Launch(ctx context.Context, logger *slog.Logger) (ports.Conn, error) {
	if l.cfg.Command == "" {
		return nil, fmt.Errorf("process launcher: no command configured")
	}

	cmd := exec.CommandContext(ctx, l.cfg.Command, l.cfg.Args...)
	cmd.Dir = l.cfg.Dir
	cmd.Env = append(cmd.Environ(), environ(l.cfg.Env)...)
	// Worker logs go to our stderr; stdout carries frames only.
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open worker stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open worker stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start worker %q: %w", l.cfg.Command, err)
	}
	logger.Debug("Worker process started", "command", l.cfg.Command, "pid", cmd.Process.Pid)

	s := NewStream(stdout, stdin, nil)
	s.closer = func() error {
		_ = stdin.Close()
		exited := make(chan error, 1)
		go func() { exited <- cmd.Wait() }()

		var err error
		select {
		case err = <-exited:
		case <-time.After(l.grace):
			logger.Warn("Worker did not exit in time, killing it", "pid", cmd.Process.Pid, "grace", l.grace)
			_ = cmd.Process.Kill()
			err = <-exited
		}
		if err != nil && ctx.Err() == nil {
			logger.Debug("Worker process exited", "pid", cmd.Process.Pid, "error", err)
		}
		return nil
	}
	return s, nil
}

// environ renders env as sorted KEY=value pairs.
func environ(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
