package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/models"
)

type searchResultMsg struct {
	user *models.AdminUser
	err  error
}

type friendRequestSentMsg struct {
	err error
}

// SearchModel looks up a user by their 6-digit id and can send them a
// friend request.
type SearchModel struct {
	app          *App
	input        textinput.Model
	result       *models.AdminUser
	notice       string
	errText      string
	windowWidth  int
	windowHeight int
}

func NewSearchModel(app *App) SearchModel {
	input := textinput.New()
	input.Placeholder = "6-digit user ID"
	input.CharLimit = 6
	input.Focus()

	return SearchModel{
		app:          app,
		input:        input,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SearchModel) searchCmd(searchedID string) tea.Cmd {
	return func() tea.Msg {
		user, err := m.app.API.SearchUser(context.Background(), m.app.User.UserID, searchedID)
		return searchResultMsg{user: user, err: err}
	}
}

func (m SearchModel) requestCmd(receiverID string) tea.Cmd {
	return func() tea.Msg {
		err := m.app.API.SendFriendRequest(context.Background(), m.app.User.UserID, receiverID)
		return friendRequestSentMsg{err: err}
	}
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case searchResultMsg:
		if msg.err != nil {
			m.result = nil
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.notice = ""
		m.result = msg.user
		return m, nil

	case friendRequestSentMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.notice = "Friend request sent!"
		m.input.SetValue("")
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			chatsModel := NewChatsModel(m.app)
			return resized(chatsModel, m.windowWidth, m.windowHeight)

		case "enter":
			searchedID := strings.TrimSpace(m.input.Value())
			if searchedID == "" {
				return m, nil
			}
			m.notice = ""
			return m, m.searchCmd(searchedID)

		case "ctrl+s":
			receiverID := strings.TrimSpace(m.input.Value())
			if receiverID == "" && m.result != nil {
				receiverID = m.result.UserID
			}
			if receiverID == "" {
				return m, nil
			}
			return m, m.requestCmd(receiverID)
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m SearchModel) View() string {
	s := titleStyle.Render("🔍 Find a user") + "\n\n"
	s += inputStyle.Render("User ID") + "\n"
	s += m.input.View() + "\n\n"

	if m.result != nil {
		s += statusStyle.Render(fmt.Sprintf("Found: %s (ID: %s)", m.result.Username, m.result.UserID)) + "\n\n"
	}

	if m.notice != "" {
		s += selectedStyle.Render(m.notice) + "\n\n"
	}

	if m.errText != "" {
		s += errorStyle.Render(m.errText) + "\n\n"
	}

	s += helpStyle.Render("enter: search • ctrl+s: send friend request • esc: back • ctrl+c: quit")
	return s
}
