package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/logx"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/models"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/poll"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/typing"
)

type pollEventMsg struct {
	event poll.Event
}

type pollStoppedMsg struct{}

type cachedMessagesMsg struct {
	peer     string
	messages []models.Message
}

type sendResultMsg struct {
	err error
}

// ChatModel is the conversation thread with one peer. Constructing it
// starts the polling task for the conversation; leaving the screen
// stops it.
type ChatModel struct {
	app          *App
	chat         models.Chat
	messages     []models.Message
	events       <-chan poll.Event
	announcer    *typing.Announcer
	peerTyping   bool
	offline      bool
	viewport     viewport.Model
	input        textinput.Model
	errText      string
	windowWidth  int
	windowHeight int
}

func NewChatModel(app *App, chat models.Chat) ChatModel {
	vp := viewport.New(80, 20)

	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 1000
	input.Focus()

	return ChatModel{
		app:          app,
		chat:         chat,
		events:       app.Poll.Watch(app.User.UserID, chat.ChatUserID),
		announcer:    typing.NewAnnouncer(app.API, app.User.UserID, chat.ChatUserID, app.Cfg.Client.TypingIdle),
		viewport:     vp,
		input:        input,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCacheCmd(), waitForPoll(m.events))
}

// waitForPoll blocks on the next poll event and re-issues itself from
// Update until the task's channel closes.
func waitForPoll(events <-chan poll.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return pollStoppedMsg{}
		}
		return pollEventMsg{event: event}
	}
}

func (m ChatModel) loadCacheCmd() tea.Cmd {
	return func() tea.Msg {
		messages, err := m.app.Cache.Messages(m.chat.ChatUserID)
		if err != nil {
			logx.Logger().Debug().Err(err).Msg("message cache read failed")
			return nil
		}
		return cachedMessagesMsg{peer: m.chat.ChatUserID, messages: messages}
	}
}

func (m ChatModel) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		err := m.app.API.SendMessage(context.Background(), m.app.User.UserID, m.chat.ChatUserID, text)
		return sendResultMsg{err: err}
	}
}

func (m ChatModel) leave() (tea.Model, tea.Cmd) {
	m.announcer.Stop()
	m.app.Poll.Stop()
	chatsModel := NewChatsModel(m.app)
	return resized(chatsModel, m.windowWidth, m.windowHeight)
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height

		headerHeight := 3
		inputHeight := 3
		helpHeight := 2
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - headerHeight - inputHeight - helpHeight
		m.input.Width = msg.Width - 6

		m.updateViewportContent()
		return m, nil

	case cachedMessagesMsg:
		if len(m.messages) == 0 && msg.peer == m.chat.ChatUserID {
			m.messages = msg.messages
			m.updateViewportContent()
			m.viewport.GotoBottom()
		}
		return m, nil

	case pollEventMsg:
		return m.handlePollEvent(msg.event)

	case pollStoppedMsg:
		return m, nil

	case sendResultMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.announcer.Stop()
			m.app.Poll.Stop()
			return m, tea.Quit

		case "esc":
			return m.leave()

		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd

		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			// The false announcement happens before the composer is
			// cleared; the sent message itself shows up on the next
			// poll.
			m.announcer.Sent()
			m.input.SetValue("")
			m.errText = ""
			return m, m.sendCmd(text)
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			m.announcer.Keystroke()
		}
		return m, cmd
	}

	return m, nil
}

func (m ChatModel) handlePollEvent(event poll.Event) (tea.Model, tea.Cmd) {
	// A task switched away from can still have events in flight.
	if event.PeerID() != m.chat.ChatUserID {
		return m, waitForPoll(m.events)
	}

	switch event := event.(type) {
	case poll.MessagesEvent:
		m.offline = false
		m.messages = event.Messages
		m.updateViewportContent()
		m.viewport.GotoBottom()

		writeThrough := func() tea.Msg {
			if err := m.app.Cache.ReplaceMessages(m.chat.ChatUserID, event.Messages); err != nil {
				logx.Logger().Debug().Err(err).Msg("message cache write failed")
			}
			return nil
		}
		return m, tea.Batch(writeThrough, waitForPoll(m.events))

	case poll.TypingEvent:
		m.peerTyping = event.Typing
		return m, waitForPoll(m.events)

	case poll.ErrEvent:
		m.offline = true
		return m, waitForPoll(m.events)
	}

	return m, waitForPoll(m.events)
}

func (m *ChatModel) updateViewportContent() {
	if len(m.messages) == 0 {
		m.viewport.SetContent(normalStyle.Render("  No messages yet. Say hi!"))
		return
	}

	wrapWidth := m.viewport.Width
	if wrapWidth <= 0 {
		wrapWidth = 80
	}

	var content strings.Builder
	for i, message := range m.messages {
		if i > 0 {
			content.WriteString("\n")
		}

		timestamp := ""
		if t := message.Time(); !t.IsZero() {
			timestamp = t.Format("3:04 PM")
		}

		if message.SenderID == m.app.User.UserID {
			header := messageHeaderStyle.Render(fmt.Sprintf("You • %s", timestamp))
			content.WriteString(lipgloss.NewStyle().Align(lipgloss.Right).Width(wrapWidth).Render(header) + "\n")

			wrapped := wordwrap.String(message.Text, wrapWidth-10)
			styled := messageFromMeStyle.Render(wrapped)
			content.WriteString(lipgloss.NewStyle().Align(lipgloss.Right).Width(wrapWidth).Render(styled) + "\n")
		} else {
			sender := message.SenderName
			if sender == "" {
				sender = m.chat.Username
			}
			header := messageHeaderStyle.Render(fmt.Sprintf("%s • %s", sender, timestamp))
			content.WriteString(header + "\n")

			wrapped := wordwrap.String(message.Text, wrapWidth-10)
			content.WriteString(messageFromOtherStyle.Render(wrapped) + "\n")
		}
	}

	m.viewport.SetContent(content.String())
}

func (m ChatModel) View() string {
	header := titleStyle.Render(fmt.Sprintf("💬 %s", m.chat.Username))
	if m.peerTyping {
		header += "  " + typingStyle.Render("typing...")
	}
	if m.offline {
		header += "  " + helpStyle.Render("(offline, showing last known messages)")
	}

	s := header + "\n"
	s += m.viewport.View() + "\n\n"

	if m.errText != "" {
		s += errorStyle.Render(m.errText) + "\n"
	}

	s += m.input.View() + "\n"
	s += helpStyle.Render("enter: send • ↑↓: scroll • esc: back • ctrl+c: quit")
	return s
}
