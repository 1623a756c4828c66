package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/models"
)

type requestItem struct {
	request models.FriendRequest
}

func (i requestItem) Title() string {
	return fmt.Sprintf("✉ %s wants to be your friend", i.request.SenderName)
}
func (i requestItem) Description() string { return "enter: accept" }
func (i requestItem) FilterValue() string { return i.request.SenderName }

type friendItem struct {
	friend models.Friend
}

func (i friendItem) Title() string       { return i.friend.Username }
func (i friendItem) Description() string { return fmt.Sprintf("ID: %s", i.friend.UserID) }
func (i friendItem) FilterValue() string { return i.friend.Username }

type friendDataMsg struct {
	requests []models.FriendRequest
	friends  []models.Friend
	err      error
}

type acceptResultMsg struct {
	err error
}

// FriendsModel shows pending friend requests followed by the friends
// list. Accepted requests disappear on the refresh that follows the
// accept call.
type FriendsModel struct {
	app          *App
	requests     []models.FriendRequest
	friends      []models.Friend
	list         list.Model
	loading      bool
	errText      string
	spinner      spinner.Model
	windowWidth  int
	windowHeight int
}

func NewFriendsModel(app *App) FriendsModel {
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
	l.Title = "Friends"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return FriendsModel{
		app:          app,
		list:         l,
		loading:      true,
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m FriendsModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd())
}

func (m FriendsModel) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		userID := m.app.User.UserID
		requests, err := m.app.API.GetFriendRequests(context.Background(), userID)
		if err != nil {
			return friendDataMsg{err: err}
		}
		friends, err := m.app.API.GetFriends(context.Background(), userID)
		if err != nil {
			return friendDataMsg{err: err}
		}
		return friendDataMsg{requests: requests, friends: friends}
	}
}

func (m FriendsModel) acceptCmd(requestID int64) tea.Cmd {
	return func() tea.Msg {
		err := m.app.API.AcceptFriendRequest(context.Background(), requestID)
		return acceptResultMsg{err: err}
	}
}

func (m *FriendsModel) setItems() {
	items := make([]list.Item, 0, len(m.requests)+len(m.friends))
	for _, request := range m.requests {
		items = append(items, requestItem{request: request})
	}
	for _, friend := range m.friends {
		items = append(items, friendItem{friend: friend})
	}
	m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("Friends: %d (%d pending)", len(m.friends), len(m.requests))
}

func (m FriendsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case friendDataMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.requests = msg.requests
		m.friends = msg.friends
		m.setItems()
		return m, nil

	case acceptResultMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.fetchCmd())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "esc":
			chatsModel := NewChatsModel(m.app)
			return resized(chatsModel, m.windowWidth, m.windowHeight)

		case "r":
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetchCmd())

		case "enter":
			if item, ok := m.list.SelectedItem().(requestItem); ok {
				return m, m.acceptCmd(item.request.ID)
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m FriendsModel) View() string {
	if m.loading && len(m.requests) == 0 && len(m.friends) == 0 {
		return fmt.Sprintf("\n  %s Loading friends...\n", m.spinner.View())
	}

	s := ""
	if m.errText != "" {
		s += errorStyle.Render(m.errText) + "\n"
	}

	s += m.list.View() + "\n"
	s += helpStyle.Render("enter: accept request • r: refresh • esc: back • q: quit")
	return s
}
