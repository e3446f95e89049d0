package workers

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func waitForRun(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestConsoleRun_QuitExits(t *testing.T) {
	c := &console{in: strings.NewReader("quit\n"), out: io.Discard}

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	waitForRun(t, done)
}

func TestConsoleRun_EOFExits(t *testing.T) {
	c := &console{in: strings.NewReader(""), out: io.Discard}

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	waitForRun(t, done)
}

func TestConsoleRun_CancelExits(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	c := &console{in: r, out: io.Discard}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	cancel()

	waitForRun(t, done)
}
