package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/models"
)

type adminUserItem struct {
	user models.AdminUser
}

func (i adminUserItem) Title() string {
	title := i.user.Username
	if i.user.IsAdmin {
		title += " " + badgeStyle.Render("[admin]")
	}
	if i.user.IsBlocked {
		title += " " + errorStyle.Render("[blocked]")
	}
	return title
}
func (i adminUserItem) Description() string { return fmt.Sprintf("ID: %s", i.user.UserID) }
func (i adminUserItem) FilterValue() string { return i.user.Username }

type adminUsersMsg struct {
	users []models.AdminUser
	err   error
}

type adminLogsMsg struct {
	logs []models.AdminLogEntry
	err  error
}

type adminActionMsg struct {
	action string
	err    error
}

type broadcastMsg struct {
	recipients int
	err        error
}

// AdminModel is the moderation panel: every account with block and
// admin flags, one-key actions on the selected account, a broadcast
// composer, and the audit log. The client only hides this screen from
// non-admins; every action is authorized server-side and a rejection
// is shown without touching local state.
type AdminModel struct {
	app          *App
	users        []models.AdminUser
	logs         []models.AdminLogEntry
	list         list.Model
	broadcast    textinput.Model
	composing    bool
	showLogs     bool
	loading      bool
	notice       string
	errText      string
	spinner      spinner.Model
	windowWidth  int
	windowHeight int
}

func NewAdminModel(app *App) AdminModel {
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
	l.Title = "⚡ Admin: users"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	broadcast := textinput.New()
	broadcast.Placeholder = "Message to all users..."
	broadcast.CharLimit = 500

	return AdminModel{
		app:          app,
		list:         l,
		broadcast:    broadcast,
		loading:      true,
		spinner:      s,
		windowWidth:  80,
		windowHeight: 30,
	}
}

func (m AdminModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchUsersCmd(), m.fetchLogsCmd())
}

func (m AdminModel) fetchUsersCmd() tea.Cmd {
	return func() tea.Msg {
		users, err := m.app.API.GetAllUsers(context.Background(), m.app.User.UserID)
		return adminUsersMsg{users: users, err: err}
	}
}

func (m AdminModel) fetchLogsCmd() tea.Cmd {
	return func() tea.Msg {
		logs, err := m.app.API.GetAdminLogs(context.Background(), m.app.User.UserID)
		return adminLogsMsg{logs: logs, err: err}
	}
}

func (m AdminModel) actionCmd(action, targetID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		adminID := m.app.User.UserID

		var err error
		switch action {
		case "block":
			err = m.app.API.BlockUser(ctx, adminID, targetID)
		case "unblock":
			err = m.app.API.UnblockUser(ctx, adminID, targetID)
		case "grant admin":
			err = m.app.API.GrantAdmin(ctx, adminID, targetID)
		case "revoke admin":
			err = m.app.API.RevokeAdmin(ctx, adminID, targetID)
		case "delete":
			err = m.app.API.DeleteUser(ctx, adminID, targetID)
		}
		return adminActionMsg{action: action, err: err}
	}
}

func (m AdminModel) broadcastCmd(text string) tea.Cmd {
	return func() tea.Msg {
		recipients, err := m.app.API.NotifyAll(context.Background(), m.app.User.UserID, text)
		return broadcastMsg{recipients: recipients, err: err}
	}
}

func (m *AdminModel) setUsers(users []models.AdminUser) {
	m.users = users
	items := make([]list.Item, len(users))
	for i, user := range users {
		items[i] = adminUserItem{user: user}
	}
	m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("⚡ Admin: %d users", len(users))
}

func (m AdminModel) selectedUserID() string {
	if item, ok := m.list.SelectedItem().(adminUserItem); ok {
		return item.user.UserID
	}
	return ""
}

func (m AdminModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 6)
		return m, nil

	case adminUsersMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.setUsers(msg.users)
		return m, nil

	case adminLogsMsg:
		if msg.err == nil {
			m.logs = msg.logs
		}
		return m, nil

	case adminActionMsg:
		if msg.err != nil {
			// Server rejection: show it, mutate nothing locally.
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.notice = fmt.Sprintf("Done: %s", msg.action)
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.fetchUsersCmd(), m.fetchLogsCmd())

	case broadcastMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.notice = fmt.Sprintf("Notification sent to %d user(s)", msg.recipients)
		m.composing = false
		m.broadcast.SetValue("")
		m.broadcast.Blur()
		return m, m.fetchLogsCmd()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.composing {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc":
				m.composing = false
				m.broadcast.SetValue("")
				m.broadcast.Blur()
				return m, nil
			case "enter":
				text := strings.TrimSpace(m.broadcast.Value())
				if text == "" {
					return m, nil
				}
				return m, m.broadcastCmd(text)
			}

			var cmd tea.Cmd
			m.broadcast, cmd = m.broadcast.Update(msg)
			return m, cmd
		}

		if m.list.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "esc":
			chatsModel := NewChatsModel(m.app)
			return resized(chatsModel, m.windowWidth, m.windowHeight)

		case "r":
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetchUsersCmd(), m.fetchLogsCmd())

		case "l":
			m.showLogs = !m.showLogs
			return m, nil

		case "n":
			m.composing = true
			m.notice = ""
			return m, m.broadcast.Focus()

		case "b":
			return m.runAction("block")
		case "u":
			return m.runAction("unblock")
		case "g":
			return m.runAction("grant admin")
		case "v":
			return m.runAction("revoke admin")
		case "x":
			return m.runAction("delete")
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m AdminModel) runAction(action string) (tea.Model, tea.Cmd) {
	targetID := m.selectedUserID()
	if targetID == "" {
		return m, nil
	}
	m.notice = ""
	return m, m.actionCmd(action, targetID)
}

func (m AdminModel) View() string {
	if m.loading && len(m.users) == 0 {
		return fmt.Sprintf("\n  %s Loading admin panel...\n", m.spinner.View())
	}

	s := ""
	if m.errText != "" {
		s += errorStyle.Render(m.errText) + "\n"
	}
	if m.notice != "" {
		s += statusStyle.Render(m.notice) + "\n"
	}

	if m.showLogs {
		s += titleStyle.Render("📋 Audit log") + "\n"
		if len(m.logs) == 0 {
			s += normalStyle.Render("  No log entries.") + "\n"
		}
		for _, entry := range m.logs {
			s += selectedStyle.Render(entry.ActionType) + " " +
				normalStyle.Render(entry.Description) + " " +
				helpStyle.Render(entry.CreatedAt) + "\n"
		}
		s += "\n" + helpStyle.Render("l: back to users • esc: back • q: quit")
		return s
	}

	if m.composing {
		s += m.list.View() + "\n"
		s += inputStyle.Render("📢 Broadcast:") + "\n"
		s += m.broadcast.View() + "\n"
		s += helpStyle.Render("enter: send to all • esc: cancel")
		return s
	}

	s += m.list.View() + "\n"
	s += helpStyle.Render("b: block • u: unblock • g: grant • v: revoke • x: delete • n: notify all • l: logs • r: refresh • esc: back")
	return s
}
