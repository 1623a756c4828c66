package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/models"
)

type authResultMsg struct {
	user *models.User
	err  error
}

type AuthModel struct {
	app          *App
	username     textinput.Model
	password     textinput.Model
	focusIndex   int
	registering  bool
	submitting   bool
	errText      string
	spinner      spinner.Model
	windowWidth  int
	windowHeight int
}

// NewAuthModel creates the login/register screen.
func NewAuthModel(app *App) AuthModel {
	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 64
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	return AuthModel{
		app:          app,
		username:     username,
		password:     password,
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m AuthModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m AuthModel) submitCmd() tea.Cmd {
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()
	registering := m.registering
	app := m.app

	return func() tea.Msg {
		var user *models.User
		var err error
		if registering {
			user, err = app.API.Register(context.Background(), username, password)
		} else {
			user, err = app.API.Login(context.Background(), username, password)
		}
		return authResultMsg{user: user, err: err}
	}
}

func (m AuthModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case authResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}

		m.app.SignIn(msg.user)
		chatsModel := NewChatsModel(m.app)
		return chatsModel, chatsModel.Init()

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "ctrl+r":
			m.registering = !m.registering
			m.errText = ""
			return m, nil

		case "tab", "shift+tab", "up", "down":
			if msg.String() == "shift+tab" || msg.String() == "up" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}
			if m.focusIndex > 1 {
				m.focusIndex = 0
			}
			if m.focusIndex < 0 {
				m.focusIndex = 1
			}

			var cmd tea.Cmd
			if m.focusIndex == 0 {
				cmd = m.username.Focus()
				m.password.Blur()
			} else {
				cmd = m.password.Focus()
				m.username.Blur()
			}
			return m, cmd

		case "enter":
			if m.submitting {
				return m, nil
			}
			if strings.TrimSpace(m.username.Value()) == "" || m.password.Value() == "" {
				m.errText = "Username and password required"
				return m, nil
			}
			m.submitting = true
			m.errText = ""
			return m, tea.Batch(m.spinner.Tick, m.submitCmd())
		}

		var cmd tea.Cmd
		if m.focusIndex == 0 {
			m.username, cmd = m.username.Update(msg)
		} else {
			m.password, cmd = m.password.Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

func (m AuthModel) View() string {
	mode := "Sign in"
	if m.registering {
		mode = "Create account"
	}

	s := titleStyle.Render(fmt.Sprintf("💬 Digo: %s", mode)) + "\n\n"

	s += inputStyle.Render("Username") + "\n"
	s += m.username.View() + "\n\n"
	s += inputStyle.Render("Password") + "\n"
	s += m.password.View() + "\n\n"

	if m.submitting {
		s += fmt.Sprintf("  %s Signing in...\n\n", m.spinner.View())
	}

	if m.errText != "" {
		s += errorStyle.Render(m.errText) + "\n\n"
	}

	s += helpStyle.Render("enter: submit • tab: next field • ctrl+r: switch login/register • ctrl+c: quit")
	return s
}
