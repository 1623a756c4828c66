package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/logx"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/models"
)

type chatItem struct {
	chat models.Chat
}

func (i chatItem) Title() string       { return i.chat.Username }
func (i chatItem) Description() string { return fmt.Sprintf("ID: %s", i.chat.ChatUserID) }
func (i chatItem) FilterValue() string { return i.chat.Username }

type cachedChatsMsg struct {
	chats []models.Chat
}

type chatsFetchedMsg struct {
	chats []models.Chat
	err   error
}

type requestsFetchedMsg struct {
	requests []models.FriendRequest
	err      error
}

// ChatsModel is the home screen: the conversation list plus a badge
// for pending friend requests.
type ChatsModel struct {
	app          *App
	chats        []models.Chat
	requests     []models.FriendRequest
	list         list.Model
	loading      bool
	err          error
	spinner      spinner.Model
	windowWidth  int
	windowHeight int
}

func NewChatsModel(app *App) ChatsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("5")).
		Bold(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("8"))

	l := list.New([]list.Item{}, delegate, 80, 20)
	l.Title = "Chats"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return ChatsModel{
		app:          app,
		list:         l,
		loading:      true,
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m ChatsModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCacheCmd(), m.fetchChatsCmd(), m.fetchRequestsCmd())
}

// loadCacheCmd paints the last known chat list while the fetch is in
// flight.
func (m ChatsModel) loadCacheCmd() tea.Cmd {
	return func() tea.Msg {
		chats, err := m.app.Cache.Chats()
		if err != nil {
			logx.Logger().Debug().Err(err).Msg("chat cache read failed")
			return nil
		}
		return cachedChatsMsg{chats: chats}
	}
}

func (m ChatsModel) fetchChatsCmd() tea.Cmd {
	return func() tea.Msg {
		chats, err := m.app.API.GetChats(context.Background(), m.app.User.UserID)
		return chatsFetchedMsg{chats: chats, err: err}
	}
}

func (m ChatsModel) fetchRequestsCmd() tea.Cmd {
	return func() tea.Msg {
		requests, err := m.app.API.GetFriendRequests(context.Background(), m.app.User.UserID)
		return requestsFetchedMsg{requests: requests, err: err}
	}
}

func (m *ChatsModel) setChats(chats []models.Chat) {
	m.chats = chats
	items := make([]list.Item, len(chats))
	for i, chat := range chats {
		items[i] = chatItem{chat: chat}
	}
	m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("Chats (%d)", len(chats))
}

func (m ChatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 5)
		return m, nil

	case cachedChatsMsg:
		// Fetched data wins over the cache.
		if m.loading && len(m.chats) == 0 {
			m.setChats(msg.chats)
		}
		return m, nil

	case chatsFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.setChats(msg.chats)
		return m, func() tea.Msg {
			if err := m.app.Cache.ReplaceChats(msg.chats); err != nil {
				logx.Logger().Debug().Err(err).Msg("chat cache write failed")
			}
			return nil
		}

	case requestsFetchedMsg:
		if msg.err != nil {
			logx.Logger().Debug().Err(msg.err).Msg("friend request fetch failed")
			return m, nil
		}
		m.requests = msg.requests
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "r":
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetchChatsCmd(), m.fetchRequestsCmd())

		case "f":
			friendsModel := NewFriendsModel(m.app)
			return resized(friendsModel, m.windowWidth, m.windowHeight)

		case "s":
			searchModel := NewSearchModel(m.app)
			return resized(searchModel, m.windowWidth, m.windowHeight)

		case "a":
			if m.app.User.IsAdmin {
				adminModel := NewAdminModel(m.app)
				return resized(adminModel, m.windowWidth, m.windowHeight)
			}
			return m, nil

		case "ctrl+l":
			m.app.SignOut()
			authModel := NewAuthModel(m.app)
			return resized(authModel, m.windowWidth, m.windowHeight)

		case "enter":
			if item, ok := m.list.SelectedItem().(chatItem); ok {
				chatModel := NewChatModel(m.app, item.chat)
				return resized(chatModel, m.windowWidth, m.windowHeight)
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m ChatsModel) View() string {
	if m.loading && len(m.chats) == 0 {
		return fmt.Sprintf("\n  %s Loading chats...\n", m.spinner.View())
	}

	header := statusStyle.Render(fmt.Sprintf("%s (ID: %s)", m.app.User.Username, m.app.User.UserID))
	if len(m.requests) > 0 {
		header += "  " + badgeStyle.Render(fmt.Sprintf("● %d friend request(s), press f", len(m.requests)))
	}

	s := header + "\n"

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	if len(m.chats) == 0 && !m.loading {
		s += "\n" + normalStyle.Render("  No chats yet. Find a friend with s.") + "\n"
	} else {
		s += m.list.View() + "\n"
	}

	help := "enter: open • f: friends • s: search • r: refresh • ctrl+l: logout • q: quit"
	if m.app.User.IsAdmin {
		help = "enter: open • f: friends • s: search • a: admin • r: refresh • ctrl+l: logout • q: quit"
	}
	s += helpStyle.Render(help)
	return s
}

// resized replays the current window size into a freshly constructed
// screen so it lays out correctly before the next resize event.
func resized(model tea.Model, width, height int) (tea.Model, tea.Cmd) {
	if width <= 0 {
		return model, model.Init()
	}
	updated, cmd := model.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return updated, tea.Batch(model.Init(), cmd)
}
