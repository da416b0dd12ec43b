package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orlevii/agent-prism/prism"
)

func TestCallbackStreamDeliversEvents(t *testing.T) {
	s := newCallbackStream(context.Background(), func(ctx context.Context, emit func(prism.Event) error) error {
		if err := emit(prism.TextDeltaEvent{Delta: "a"}); err != nil {
			return err
		}
		if err := emit(prism.TextDeltaEvent{Delta: "b"}); err != nil {
			return err
		}
		return emit(prism.DoneEvent{Status: prism.DoneStatusComplete})
	})
	defer s.Close()

	var events []prism.Event
	for s.Next() {
		events = append(events, s.Current())
	}
	if s.Err() != nil {
		t.Fatalf("stream error: %v", s.Err())
	}
	if len(events) != 3 {
		t.Fatalf("event count: got %d, want 3", len(events))
	}
	if d := events[0].(prism.TextDeltaEvent); d.Delta != "a" {
		t.Errorf("first event: got %+v", d)
	}
	if _, ok := events[2].(prism.DoneEvent); !ok {
		t.Errorf("last event: got %T", events[2])
	}
}

func TestCallbackStreamPropagatesRunError(t *testing.T) {
	wantErr := errors.New("backend exploded")
	s := newCallbackStream(context.Background(), func(ctx context.Context, emit func(prism.Event) error) error {
		if err := emit(prism.TextDeltaEvent{Delta: "a"}); err != nil {
			return err
		}
		return wantErr
	})
	defer s.Close()

	if !s.Next() {
		t.Fatalf("expected first event, got error: %v", s.Err())
	}
	if s.Next() {
		t.Fatal("expected stream end after run error")
	}
	if !errors.Is(s.Err(), wantErr) {
		t.Errorf("error: got %v, want %v", s.Err(), wantErr)
	}
}

func TestCallbackStreamCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})

	s := newCallbackStream(ctx, func(ctx context.Context, emit func(prism.Event) error) error {
		if err := emit(prism.TextDeltaEvent{Delta: "a"}); err != nil {
			return err
		}
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	defer s.Close()

	if !s.Next() {
		t.Fatalf("expected first event, got error: %v", s.Err())
	}
	<-started
	cancel()

	deadline := time.After(5 * time.Second)
	for s.Next() {
		select {
		case <-deadline:
			t.Fatal("stream did not stop after cancellation")
		default:
		}
	}
	if !errors.Is(s.Err(), prism.ErrCancelled) {
		t.Errorf("error: got %v, want ErrCancelled", s.Err())
	}
}

func TestCallbackStreamCloseUnblocksRun(t *testing.T) {
	finished := make(chan struct{})

	s := newCallbackStream(context.Background(), func(ctx context.Context, emit func(prism.Event) error) error {
		defer close(finished)
		for {
			if err := emit(prism.TextDeltaEvent{Delta: "x"}); err != nil {
				return err
			}
		}
	})

	if !s.Next() {
		t.Fatalf("expected first event, got error: %v", s.Err())
	}
	s.Close()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("run goroutine did not stop after Close")
	}
}
