package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/api"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/config"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/logx"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/notify"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/poll"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/session"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/store"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/ui"
)

const version = "1.0.0"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "-v", "--version":
			fmt.Printf("Digo v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		default:
			fmt.Printf("Unknown command: %s\n", os.Args[1])
			printHelp()
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := logx.Init(cfg.Client.LogPath(), cfg.Client.IsDevelopment())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	cache, err := store.Open(cfg.Client.CachePath())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer cache.Close()

	client := api.New(cfg)
	app := &ui.App{
		Cfg:      cfg,
		API:      client,
		Cache:    cache,
		Sessions: session.NewStore(cfg.Client.SessionPath()),
		Poll:     poll.NewEngine(client, notify.Terminal{}, cfg.Client.PollInterval),
	}

	// Restore the saved session as-is; there is no revalidation
	// round-trip against the auth service.
	var initialModel tea.Model
	if user, err := app.Sessions.Load(); err == nil && user != nil {
		logx.Logger().Info().Str("user_id", user.UserID).Msg("session restored")
		app.User = user
		initialModel = ui.NewChatsModel(app)
	} else {
		if err != nil {
			logx.Logger().Warn().Err(err).Msg("session restore failed")
		}
		initialModel = ui.NewAuthModel(app)
	}

	p := tea.NewProgram(initialModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	app.Poll.Stop()
}

func printHelp() {
	help := `Digo - Terminal Messenger Client

Usage:
  digo               Start the messenger
  digo version       Show version information
  digo help          Show this help message

Navigation:
  ↑/↓ or j/k        Navigate lists
  Enter             Select/Open item
  ESC               Go back
  q                 Quit from current view
  ctrl+c            Force quit

Auth:
  tab               Switch between username and password
  ctrl+r            Toggle login/register
  enter             Submit

Chats:
  enter             Open conversation
  f                 Friends and friend requests
  s                 Search users by ID
  a                 Admin panel (admins only)
  r                 Refresh
  ctrl+l            Log out

Conversation:
  enter             Send message
  ↑/↓               Scroll messages
  esc               Back to chats

Admin panel:
  b/u               Block/unblock selected user
  g/v               Grant/revoke admin rights
  x                 Delete selected account
  n                 Send a notification to all users
  l                 Toggle the audit log

Configuration:
  DIGO_AUTH_URL, DIGO_MESSAGES_URL, DIGO_ADMIN_URL
                    Service endpoints
  DIGO_DATA_DIR     Local state directory (default ~/.digo)
  DIGO_POLL_INTERVAL_MS
                    Conversation refresh cadence (default 3000)
  DIGO_TYPING_IDLE_MS
                    Typing indicator idle window (default 3000)

Notes:
  - The session is stored in DIGO_DATA_DIR/session.yml
  - Chats and messages are cached locally for instant display
  - Logs are written to DIGO_DATA_DIR/digo.log
`
	fmt.Print(help)
}
