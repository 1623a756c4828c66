// Package poll drives the fixed-interval refresh of the active
// conversation.
//
// The engine owns at most one polling task at a time, keyed by the
// peer id. Selecting a conversation starts its task and cancels the
// previous one; deselecting or logging out stops polling outright, so
// no fetch for an abandoned conversation can write stale state.
//
// Each tick fetches the conversation's messages and the peer's typing
// status concurrently. The two results are delivered as independent
// events and may arrive in either order; neither depends on the
// other. New inbound messages are detected with an id watermark: the
// first successful fetch only establishes the baseline, and afterwards
// any message above the watermark that was not sent by self raises
// the notifier exactly once.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/logx"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/models"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/notify"
)

// Fetcher is the slice of the API client the engine needs.
type Fetcher interface {
	GetMessages(ctx context.Context, userID, otherUserID string) ([]models.Message, error)
	GetTypingStatus(ctx context.Context, userID, otherUserID string) (bool, error)
}

// Event is one poll result. Consumers drop events whose peer no
// longer matches the conversation they show.
type Event interface {
	PeerID() string
}

// MessagesEvent carries a fresh conversation snapshot. Incoming is
// non-nil when the snapshot contains a new inbound message past the
// baseline.
type MessagesEvent struct {
	Peer     string
	Messages []models.Message
	Incoming *models.Message
}

func (e MessagesEvent) PeerID() string { return e.Peer }

// TypingEvent carries the peer's current typing state.
type TypingEvent struct {
	Peer   string
	Typing bool
}

func (e TypingEvent) PeerID() string { return e.Peer }

// ErrEvent reports a failed fetch. Polling continues; the previous
// data stays on screen.
type ErrEvent struct {
	Peer string
	Err  error
}

func (e ErrEvent) PeerID() string { return e.Peer }

type Engine struct {
	api      Fetcher
	notifier notify.Notifier
	interval time.Duration

	mu     sync.Mutex
	active *task
}

type task struct {
	peerID string
	cancel context.CancelFunc
	done   chan struct{}
}

// NewEngine creates an engine polling at the given interval.
func NewEngine(api Fetcher, notifier notify.Notifier, interval time.Duration) *Engine {
	return &Engine{
		api:      api,
		notifier: notifier,
		interval: interval,
	}
}

// Watch starts polling the conversation between self and peer,
// cancelling any previously active task first. The first tick runs
// immediately. The returned channel is closed when the task stops.
func (e *Engine) Watch(selfID, peerID string) <-chan Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	t := &task{
		peerID: peerID,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	e.active = t

	events := make(chan Event, 8)
	go e.run(ctx, selfID, peerID, events, t.done)

	return events
}

// Stop cancels the active polling task, if any, and waits for it to
// finish so no further fetches are issued.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if e.active == nil {
		return
	}
	e.active.cancel()
	<-e.active.done
	e.active = nil
}

func (e *Engine) run(ctx context.Context, selfID, peerID string, events chan<- Event, done chan struct{}) {
	defer close(done)
	defer close(events)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	var watermark int64
	baselined := false

	for {
		e.tick(ctx, selfID, peerID, events, &watermark, &baselined)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tick runs the two fetches of one polling cycle concurrently and
// waits for both. A fetch that hangs delays the next cycle rather
// than piling up overlapping requests.
func (e *Engine) tick(ctx context.Context, selfID, peerID string, events chan<- Event, watermark *int64, baselined *bool) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		e.fetchMessages(ctx, selfID, peerID, events, watermark, baselined)
	}()

	go func() {
		defer wg.Done()
		e.fetchTyping(ctx, selfID, peerID, events)
	}()

	wg.Wait()
}

func (e *Engine) fetchMessages(ctx context.Context, selfID, peerID string, events chan<- Event, watermark *int64, baselined *bool) {
	messages, err := e.api.GetMessages(ctx, selfID, peerID)
	if err != nil {
		logx.Logger().Debug().Err(err).Str("peer_id", peerID).Msg("message poll failed")
		emit(ctx, events, ErrEvent{Peer: peerID, Err: err})
		return
	}

	var incoming *models.Message
	if len(messages) > 0 {
		latest := messages[len(messages)-1]
		if *baselined && latest.ID > *watermark && latest.SenderID != selfID {
			incoming = &latest
			e.notifier.Incoming(senderLabel(latest), latest.Text)
		}
		if latest.ID > *watermark {
			*watermark = latest.ID
		}
	}
	*baselined = true

	emit(ctx, events, MessagesEvent{Peer: peerID, Messages: messages, Incoming: incoming})
}

func (e *Engine) fetchTyping(ctx context.Context, selfID, peerID string, events chan<- Event) {
	typing, err := e.api.GetTypingStatus(ctx, selfID, peerID)
	if err != nil {
		logx.Logger().Debug().Err(err).Str("peer_id", peerID).Msg("typing status poll failed")
		return
	}

	emit(ctx, events, TypingEvent{Peer: peerID, Typing: typing})
}

// emit delivers an event unless the task has been cancelled; a
// consumer that stopped reading never blocks task shutdown.
func emit(ctx context.Context, events chan<- Event, ev Event) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

func senderLabel(msg models.Message) string {
	if msg.SenderName != "" {
		return msg.SenderName
	}
	return msg.SenderID
}
