// Package typing announces the local composer state to the peer.
//
// Every keystroke announces typing=true and re-arms an idle timer;
// the timer expiring, a send, or leaving the conversation announces
// typing=false. The peer only ever observes these announcements
// through its own polling, so the indicator may lag by up to one
// polling interval. Announcement failures are swallowed: a failed
// announcement desynchronizes the indicator until the next keystroke
// rather than interrupting the chat flow.
package typing

import (
	"context"
	"sync"
	"time"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/logx"
)

// StatusUpdater is the slice of the API client the announcer needs.
type StatusUpdater interface {
	UpdateTypingStatus(ctx context.Context, senderID, receiverID string, isTyping bool) error
}

type Announcer struct {
	api    StatusUpdater
	selfID string
	peerID string
	idle   time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewAnnouncer creates an announcer for the conversation between self
// and peer. idle is the window of composer silence after which
// typing=false is announced.
func NewAnnouncer(api StatusUpdater, selfID, peerID string, idle time.Duration) *Announcer {
	return &Announcer{
		api:    api,
		selfID: selfID,
		peerID: peerID,
		idle:   idle,
	}
}

// Keystroke announces typing=true and pushes the idle deadline out by
// the full window. Rapid keystrokes only move the deadline; they
// never fire the false announcement early.
func (a *Announcer) Keystroke() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.idle, a.idleExpired)
	a.mu.Unlock()

	go a.announce(true)
}

// Sent announces typing=false and disarms the idle timer. Called
// synchronously on send, before the composer is cleared.
func (a *Announcer) Sent() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.disarmLocked()
	a.mu.Unlock()

	a.announce(false)
}

// Stop disarms the announcer permanently. Announces typing=false when
// a keystroke had announced typing since the last false announcement.
func (a *Announcer) Stop() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.stopped = true
	hadTimer := a.timer != nil
	a.disarmLocked()
	a.mu.Unlock()

	if hadTimer {
		a.announce(false)
	}
}

func (a *Announcer) disarmLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Announcer) idleExpired() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	a.mu.Unlock()

	a.announce(false)
}

func (a *Announcer) announce(isTyping bool) {
	err := a.api.UpdateTypingStatus(context.Background(), a.selfID, a.peerID, isTyping)
	if err != nil {
		logx.Logger().Debug().
			Err(err).
			Str("peer_id", a.peerID).
			Bool("is_typing", isTyping).
			Msg("typing announcement failed")
	}
}
