package ui

import (
	"github.com/pr-poehali-dev/digo-messenger-project/internal/api"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/config"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/logx"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/models"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/poll"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/session"
	"github.com/pr-poehali-dev/digo-messenger-project/internal/store"
)

// App is the session context threaded through every screen. It is
// created once at startup; User is set at login or session restore
// and cleared at logout.
type App struct {
	Cfg      *config.Config
	API      *api.Client
	Cache    *store.Store
	Sessions *session.Store
	Poll     *poll.Engine
	User     *models.User
}

// SignIn installs the authenticated user and persists the session.
func (a *App) SignIn(user *models.User) {
	a.User = user
	if err := a.Sessions.Save(user); err != nil {
		logx.Logger().Error().Err(err).Msg("failed to persist session")
	}
}

// SignOut tears the session down: polling stops, the durable session
// and the local cache are cleared, and the identity is dropped.
func (a *App) SignOut() {
	a.Poll.Stop()
	if err := a.Sessions.Clear(); err != nil {
		logx.Logger().Error().Err(err).Msg("failed to clear session")
	}
	if err := a.Cache.Purge(); err != nil {
		logx.Logger().Error().Err(err).Msg("failed to purge cache")
	}
	a.User = nil
}
