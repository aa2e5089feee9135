// Package main runs the auth and user services in one container.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/louisbranch/bookshelf/internal/platform/config"
)

// shutdownTimeout is the grace period before forcing child exit.
const shutdownTimeout = 10 * time.Second

// Config locates the service binaries and their ports.
type Config struct {
	AuthBin  string `env:"BOOKSHELF_ENTRYPOINT_AUTH_BIN" envDefault:"/app/auth"`
	UserBin  string `env:"BOOKSHELF_ENTRYPOINT_USER_BIN" envDefault:"/app/user"`
	AuthPort int    `env:"BOOKSHELF_AUTH_PORT" envDefault:"8083"`
	UserPort int    `env:"BOOKSHELF_USER_PORT" envDefault:"8092"`
}

// childProcess describes a managed child command.
type childProcess struct {
	name string
	cmd  *exec.Cmd
}

// processExit reports a child process exit result.
type processExit struct {
	name string
	err  error
}

// main starts auth first, then user pointed at the local auth listener, and
// supervises both.
func main() {
	log.SetPrefix("[ENTRYPOINT] ")
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		log.Fatalf("parse config: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auth, err := startChild("auth", exec.Command(cfg.AuthBin, fmt.Sprintf("-port=%d", cfg.AuthPort)))
	if err != nil {
		log.Fatalf("failed to start auth: %v", err)
	}

	user, err := startChild("user", exec.Command(
		cfg.UserBin,
		fmt.Sprintf("-port=%d", cfg.UserPort),
		fmt.Sprintf("-auth-addr=127.0.0.1:%d", cfg.AuthPort),
	))
	if err != nil {
		terminateChildren([]*childProcess{auth})
		log.Fatalf("failed to start user: %v", err)
	}

	children := []*childProcess{auth, user}
	exitCh := make(chan processExit, len(children))
	for _, child := range children {
		go waitChild(child, exitCh)
	}

	select {
	case <-ctx.Done():
		log.Printf("shutdown signal received")
		terminateChildren(children)
		waitForChildren(exitCh, len(children), shutdownTimeout, children)
		return
	case exit := <-exitCh:
		log.Printf("%s exited: %v", exit.name, exit.err)
		terminateChildren(children)
		waitForChildren(exitCh, len(children)-1, shutdownTimeout, children)
		os.Exit(exitCode(exit.err))
	}
}

// startChild starts a child process with inherited stdio streams.
func startChild(name string, cmd *exec.Cmd) (*childProcess, error) {
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}

	return &childProcess{name: name, cmd: cmd}, nil
}

// waitChild waits for a child process and reports its exit.
func waitChild(child *childProcess, exitCh chan<- processExit) {
	err := child.cmd.Wait()
	exitCh <- processExit{name: child.name, err: err}
}

// terminateChildren sends SIGTERM to all child processes.
func terminateChildren(children []*childProcess) {
	for _, child := range children {
		if child == nil || child.cmd == nil || child.cmd.Process == nil {
			continue
		}
		_ = child.cmd.Process.Signal(syscall.SIGTERM)
	}
}

// waitForChildren waits for the remaining exits or forces shutdown.
func waitForChildren(exitCh <-chan processExit, remaining int, timeout time.Duration, children []*childProcess) {
	if remaining <= 0 {
		return
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for remaining > 0 {
		select {
		case <-exitCh:
			remaining--
		case <-timer.C:
			forceKill(children)
			return
		}
	}
}

// forceKill sends SIGKILL to any child still running.
func forceKill(children []*childProcess) {
	for _, child := range children {
		if child == nil || child.cmd == nil || child.cmd.Process == nil {
			continue
		}
		if child.cmd.ProcessState != nil {
			continue
		}
		_ = child.cmd.Process.Kill()
	}
}

// exitCode derives a process exit code from a wait error.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return 1
}
