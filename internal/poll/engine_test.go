package poll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/models"
)

const testInterval = 5 * time.Millisecond

// fakeAPI serves a sequence of message snapshots; the last snapshot
// repeats once the sequence is exhausted.
type fakeAPI struct {
	mu        sync.Mutex
	snapshots [][]models.Message
	calls     int
	peers     []string
	typing    bool
	msgErr    error
}

func (f *fakeAPI) GetMessages(ctx context.Context, userID, otherUserID string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.peers = append(f.peers, otherUserID)
	if f.msgErr != nil {
		return nil, f.msgErr
	}
	idx := f.calls
	f.calls++
	if idx >= len(f.snapshots) {
		idx = len(f.snapshots) - 1
	}
	if idx < 0 {
		return nil, nil
	}
	return f.snapshots[idx], nil
}

func (f *fakeAPI) GetTypingStatus(ctx context.Context, userID, otherUserID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.typing, nil
}

func (f *fakeAPI) messageCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.peers)
}

func (f *fakeAPI) polledPeers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.peers...)
}

type recordingNotifier struct {
	mu      sync.Mutex
	senders []string
}

func (r *recordingNotifier) Incoming(sender, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.senders = append(r.senders, sender)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.senders)
}

// nextMessages drains events until the next MessagesEvent.
func nextMessages(t *testing.T, events <-chan Event) MessagesEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				t.Fatal("event channel closed while waiting for messages")
			}
			if messages, isMessages := event.(MessagesEvent); isMessages {
				return messages
			}
		case <-deadline:
			t.Fatal("timed out waiting for a messages event")
		}
	}
}

func msg(id int64, sender, text string) models.Message {
	return models.Message{ID: id, SenderID: sender, SenderName: sender, Text: text}
}

func TestWatch_FirstFetchEstablishesBaselineSilently(t *testing.T) {
	api := &fakeAPI{snapshots: [][]models.Message{
		{msg(1, "peer", "old"), msg(2, "peer", "older")},
	}}
	notifier := &recordingNotifier{}
	engine := NewEngine(api, notifier, testInterval)
	defer engine.Stop()

	events := engine.Watch("self", "peer")

	first := nextMessages(t, events)
	if first.Incoming != nil {
		t.Error("expected no incoming flag on the baseline fetch")
	}
	if len(first.Messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(first.Messages))
	}
	if notifier.count() != 0 {
		t.Errorf("expected no notification on first load, got %d", notifier.count())
	}
}

func TestWatch_InboundMessageNotifiesExactlyOnce(t *testing.T) {
	history := []models.Message{msg(1, "peer", "hello")}
	grown := append(append([]models.Message(nil), history...), msg(2, "peer", "hi"))
	api := &fakeAPI{snapshots: [][]models.Message{history, grown, grown, grown}}
	notifier := &recordingNotifier{}
	engine := NewEngine(api, notifier, testInterval)
	defer engine.Stop()

	events := engine.Watch("self", "peer")

	nextMessages(t, events) // baseline

	second := nextMessages(t, events)
	if second.Incoming == nil {
		t.Fatal("expected incoming message on the tick that saw id 2")
	}
	if second.Incoming.ID != 2 {
		t.Errorf("expected incoming id 2, got %d", second.Incoming.ID)
	}

	// The same snapshot repeating must not notify again.
	third := nextMessages(t, events)
	if third.Incoming != nil {
		t.Error("expected no incoming flag on an unchanged snapshot")
	}
	if notifier.count() != 1 {
		t.Errorf("expected exactly one notification, got %d", notifier.count())
	}
}

func TestWatch_OwnMessageDoesNotNotify(t *testing.T) {
	history := []models.Message{msg(1, "peer", "hello")}
	grown := append(append([]models.Message(nil), history...), msg(2, "self", "my reply"))
	api := &fakeAPI{snapshots: [][]models.Message{history, grown, grown}}
	notifier := &recordingNotifier{}
	engine := NewEngine(api, notifier, testInterval)
	defer engine.Stop()

	events := engine.Watch("self", "peer")

	nextMessages(t, events)
	second := nextMessages(t, events)
	if second.Incoming != nil {
		t.Error("expected no incoming flag for a message sent by self")
	}
	if notifier.count() != 0 {
		t.Errorf("expected no notification, got %d", notifier.count())
	}
}

func TestWatch_EmptyBaselineThenInboundNotifies(t *testing.T) {
	grown := []models.Message{msg(1, "peer", "first ever")}
	api := &fakeAPI{snapshots: [][]models.Message{nil, grown, grown}}
	notifier := &recordingNotifier{}
	engine := NewEngine(api, notifier, testInterval)
	defer engine.Stop()

	events := engine.Watch("self", "peer")

	first := nextMessages(t, events)
	if first.Incoming != nil {
		t.Error("expected no incoming flag on an empty baseline")
	}

	second := nextMessages(t, events)
	if second.Incoming == nil {
		t.Fatal("expected the first message after an empty baseline to count as incoming")
	}
	if notifier.count() != 1 {
		t.Errorf("expected one notification, got %d", notifier.count())
	}
}

func TestWatch_DeliversTypingStatus(t *testing.T) {
	api := &fakeAPI{typing: true}
	engine := NewEngine(api, &recordingNotifier{}, testInterval)
	defer engine.Stop()

	events := engine.Watch("self", "peer")

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				t.Fatal("event channel closed while waiting for typing event")
			}
			if typing, isTyping := event.(TypingEvent); isTyping {
				if !typing.Typing {
					t.Error("expected typing to be true")
				}
				if typing.PeerID() != "peer" {
					t.Errorf("expected peer id peer, got %s", typing.PeerID())
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for a typing event")
		}
	}
}

func TestWatch_FetchErrorEmitsErrEventAndRecovers(t *testing.T) {
	api := &fakeAPI{snapshots: [][]models.Message{{msg(1, "peer", "hello")}}}
	api.msgErr = errors.New("connection refused")
	engine := NewEngine(api, &recordingNotifier{}, testInterval)
	defer engine.Stop()

	events := engine.Watch("self", "peer")

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				t.Fatal("event channel closed while waiting for error event")
			}
			if errEvent, isErr := event.(ErrEvent); isErr {
				if errEvent.Err == nil {
					t.Error("expected a non-nil error")
				}
				// Recovery: clear the failure and expect a normal
				// snapshot on a later tick.
				api.mu.Lock()
				api.msgErr = nil
				api.mu.Unlock()

				recovered := nextMessages(t, events)
				if len(recovered.Messages) != 1 {
					t.Errorf("expected 1 message after recovery, got %d", len(recovered.Messages))
				}
				if recovered.Incoming != nil {
					t.Error("errored ticks must not baseline: first success is silent")
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for an error event")
		}
	}
}

func TestStop_CancelsFurtherFetches(t *testing.T) {
	api := &fakeAPI{snapshots: [][]models.Message{{msg(1, "peer", "hello")}}}
	engine := NewEngine(api, &recordingNotifier{}, testInterval)

	events := engine.Watch("self", "peer")
	nextMessages(t, events)

	engine.Stop()
	calls := api.messageCalls()

	time.Sleep(10 * testInterval)
	if got := api.messageCalls(); got != calls {
		t.Errorf("expected no fetches after Stop, got %d more", got-calls)
	}

	if _, ok := <-events; ok {
		// Drain: the channel must eventually close.
		for range events {
		}
	}
}

func TestWatch_SwitchingConversationsStopsThePreviousTask(t *testing.T) {
	api := &fakeAPI{snapshots: [][]models.Message{{msg(1, "peerA", "hello")}}}
	engine := NewEngine(api, &recordingNotifier{}, testInterval)
	defer engine.Stop()

	eventsA := engine.Watch("self", "peerA")
	nextMessages(t, eventsA)

	eventsB := engine.Watch("self", "peerB")

	// The previous task's channel closes once its in-flight events
	// are drained.
	deadline := time.After(2 * time.Second)
	for {
		var closed bool
		select {
		case _, ok := <-eventsA:
			closed = !ok
		case <-deadline:
			t.Fatal("timed out waiting for the old task's channel to close")
		}
		if closed {
			break
		}
	}

	switchPoint := api.messageCalls()
	nextMessages(t, eventsB)
	nextMessages(t, eventsB)

	for i, peer := range api.polledPeers() {
		if i >= switchPoint && peer != "peerB" {
			t.Errorf("fetch %d polled %s after switching to peerB", i, peer)
		}
	}
}
