package dispatch

import (
	"context"
	"errors"
	"log"
	"sync"

	"go-openclaw-mailer/internal/conversation"
)

var ErrStopped = errors.New("dispatcher stopped")

// Handler consumes events. *conversation.Machine satisfies it.
type Handler interface {
	Handle(ctx context.Context, ev conversation.Event) error
}

// Reporter tells a user that handling their input failed. *telegram.Bot
// satisfies it.
type Reporter interface {
	SendError(ctx context.Context, chatID int64, err error) error
}

type Option func(*Dispatcher)

// WithReporter reports handler failures, other than generation failures the
// machine already told the user about, back to the chat.
func WithReporter(r Reporter) Option {
	return func(d *Dispatcher) { d.reporter = r }
}

// Dispatcher runs events one at a time per user, in arrival order, while
// different users proceed concurrently. A user's worker goroutine exists only
// while that user has queued events.
type Dispatcher struct {
	handler  Handler
	reporter Reporter

	mu      sync.Mutex
	ctx     context.Context
	queues  map[int64][]conversation.Event
	stopped bool
	wg      sync.WaitGroup
}

func New(handler Handler, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handler: handler,
		ctx:     context.Background(),
		queues:  make(map[int64][]conversation.Event),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Submit enqueues ev behind any pending events of the same user.
func (d *Dispatcher) Submit(ev conversation.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return ErrStopped
	}

	q, busy := d.queues[ev.UserID]
	d.queues[ev.UserID] = append(q, ev)
	if !busy {
		d.wg.Add(1)
		go d.drain(ev.UserID)
	}
	return nil
}

// Run serves until ctx is cancelled, then stops accepting events and waits
// for the ones already queued.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.mu.Lock()
	d.ctx = context.WithoutCancel(ctx)
	d.mu.Unlock()

	<-ctx.Done()
	d.Stop()
	return nil
}

func (d *Dispatcher) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) drain(userID int64) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		q := d.queues[userID]
		if len(q) == 0 {
			delete(d.queues, userID)
			d.mu.Unlock()
			return
		}
		ev := q[0]
		d.queues[userID] = q[1:]
		ctx := d.ctx
		d.mu.Unlock()

		d.handle(ctx, ev)
	}
}

func (d *Dispatcher) handle(ctx context.Context, ev conversation.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("🔥 Panic while handling %s event for user %d: %v", ev.Kind, ev.UserID, r)
			d.report(ctx, ev, errors.New("internal error"))
		}
	}()

	if err := d.handler.Handle(ctx, ev); err != nil {
		if errors.Is(err, conversation.ErrGeneration) {
			log.Printf("⚠️ User %d: %v", ev.UserID, err)
			return
		}
		log.Printf("❌ Failed to handle %s event for user %d: %v", ev.Kind, ev.UserID, err)
		d.report(ctx, ev, err)
	}
}

func (d *Dispatcher) report(ctx context.Context, ev conversation.Event, err error) {
	if d.reporter == nil {
		return
	}
	if sendErr := d.reporter.SendError(ctx, ev.ChatID, err); sendErr != nil {
		log.Printf("⚠️ Could not report error to user %d: %v", ev.UserID, sendErr)
	}
}
