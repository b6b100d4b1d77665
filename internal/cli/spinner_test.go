package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	errs "github.com/matzehuels/ontoforge/pkg/errors"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsMessage(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Validating...")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	if !bytes.Contains([]byte(out.String()), []byte("Validating...")) {
		t.Errorf("output %q lacks spinner message", out.String())
	}
}

func TestSpinnerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer
	s := newSpinner(ctx, &out, "Importing...")
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after cancel")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Saving...")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestRunWithSpinner(t *testing.T) {
	called := false
	err := runWithSpinner(context.Background(), "Working...", "Done", func(ctx context.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("runWithSpinner() error = %v", err)
	}
	if !called {
		t.Error("fn should be called")
	}

	want := errs.New(errs.ErrCodeInternal, "boom")
	if err := runWithSpinner(context.Background(), "Working...", "Done", func(context.Context) error {
		return want
	}); err != want {
		t.Errorf("runWithSpinner() error = %v, want %v", err, want)
	}
}
