package link

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
)

// Link is the network connection the logger posts over.
type Link interface {
	Connect(ctx context.Context) error
	Reset(ctx context.Context) error
}

// IdleCloser is satisfied by *http.Transport and *http.Client.
type IdleCloser interface {
	CloseIdleConnections()
}

// CommandLink brings the link up and resets it by running shell commands,
// e.g. "nmcli radio wifi on". Empty commands are no-ops.
type CommandLink struct {
	UpCmd    string
	ResetCmd string
	Conns    IdleCloser

	run func(ctx context.Context, cmd string) ([]byte, error)
}

func NewCommandLink(upCmd, resetCmd string, conns IdleCloser) *CommandLink {
	return &CommandLink{UpCmd: upCmd, ResetCmd: resetCmd, Conns: conns, run: runShell}
}

func (l *CommandLink) Connect(ctx context.Context) error {
	log.Println("Connecting link")
	if err := l.exec(ctx, l.UpCmd); err != nil {
		return fmt.Errorf("link up: %w", err)
	}
	return nil
}

// Reset drops pooled connections so the next request dials a fresh socket,
// then runs the reset command.
func (l *CommandLink) Reset(ctx context.Context) error {
	log.Println("Resetting link")
	if l.Conns != nil {
		l.Conns.CloseIdleConnections()
	}
	if err := l.exec(ctx, l.ResetCmd); err != nil {
		return fmt.Errorf("link reset: %w", err)
	}
	return nil
}

func (l *CommandLink) exec(ctx context.Context, cmd string) error {
	if strings.TrimSpace(cmd) == "" {
		return nil
	}
	run := l.run
	if run == nil {
		run = runShell
	}
	out, err := run(ctx, cmd)
	if len(out) > 0 {
		log.Printf("%s: %s", cmd, strings.TrimSpace(string(out)))
	}
	if err != nil {
		return fmt.Errorf("%q: %w", cmd, err)
	}
	return nil
}

func runShell(ctx context.Context, cmd string) ([]byte, error) {
	return exec.CommandContext(ctx, "/bin/sh", "-c", cmd).CombinedOutput()
}
