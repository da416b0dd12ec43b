package provider

import (
	"context"
	"errors"

	"github.com/orlevii/agent-prism/prism"
)

// callbackStream adapts a callback-driven backend call to the pull-based
// prism.EventStream interface. The run function executes on its own
// goroutine and pushes events through emit; consumers pull them off with
// Next.
type callbackStream struct {
	ctx     context.Context
	cancel  context.CancelFunc
	events  chan prism.Event
	runErr  chan error
	current prism.Event
	err     error
	done    bool
}

var _ prism.EventStream = (*callbackStream)(nil)

// newCallbackStream starts run on a goroutine. run must return once its emit
// function reports an error, which happens when the stream is closed or the
// context is cancelled.
func newCallbackStream(ctx context.Context, run func(ctx context.Context, emit func(prism.Event) error) error) *callbackStream {
	ctx, cancel := context.WithCancel(ctx)
	s := &callbackStream{
		ctx:    ctx,
		cancel: cancel,
		events: make(chan prism.Event),
		runErr: make(chan error, 1),
	}

	emit := func(ev prism.Event) error {
		select {
		case s.events <- ev:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	go func() {
		err := run(ctx, emit)
		s.runErr <- err
		close(s.events)
	}()

	return s
}

func (s *callbackStream) Next() bool {
	if s.err != nil || s.done {
		return false
	}

	select {
	case <-s.ctx.Done():
		s.err = prism.ErrCancelled
		return false
	case ev, ok := <-s.events:
		if !ok {
			s.done = true
			s.err = s.mapRunErr(<-s.runErr)
			return false
		}
		s.current = ev
		return true
	}
}

func (s *callbackStream) mapRunErr(err error) error {
	if err == nil {
		return nil
	}
	if s.ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return prism.ErrCancelled
	}
	return err
}

func (s *callbackStream) Current() prism.Event { return s.current }

func (s *callbackStream) Err() error { return s.err }

func (s *callbackStream) Close() error {
	s.cancel()
	return nil
}
