package main

import (
	"errors"
	"os/exec"
	"testing"
)

func TestExitCode(t *testing.T) {
	if got := exitCode(nil); got != 0 {
		t.Fatalf("exitCode(nil) = %d, want 0", got)
	}
	if got := exitCode(errors.New("boom")); got != 1 {
		t.Fatalf("exitCode(boom) = %d, want 1", got)
	}
	err := exec.Command("sh", "-c", "exit 3").Run()
	if got := exitCode(err); got != 3 {
		t.Fatalf("exitCode(exit 3) = %d, want 3", got)
	}
}

func TestStartChildReportsExit(t *testing.T) {
	child, err := startChild("true", exec.Command("sh", "-c", "exit 0"))
	if err != nil {
		t.Fatalf("start child: %v", err)
	}
	exitCh := make(chan processExit, 1)
	waitChild(child, exitCh)
	exit := <-exitCh
	if exit.name != "true" || exit.err != nil {
		t.Fatalf("exit = %+v", exit)
	}
}

func TestStartChildMissingBinary(t *testing.T) {
	if _, err := startChild("missing", exec.Command("/nonexistent/bookshelf-bin")); err == nil {
		t.Fatal("expected start error")
	}
}
