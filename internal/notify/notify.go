// Package notify raises the inbound-message alert.
package notify

import (
	"fmt"
	"os"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/logx"
)

// Notifier receives the alert for a newly arrived inbound message.
type Notifier interface {
	Incoming(sender, text string)
}

// Terminal rings the terminal bell and records the message. It stands
// in for the desktop notification and audio alert of a graphical
// host.
type Terminal struct{}

func (Terminal) Incoming(sender, text string) {
	fmt.Fprint(os.Stderr, "\a")
	logx.Logger().Info().
		Str("sender", sender).
		Str("message", text).
		Msg("new message")
}

// Silent discards alerts. Used while no notifier is wanted.
type Silent struct{}

func (Silent) Incoming(sender, text string) {}
