package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/adviceboard/adviceboard/internal/advice"
	"github.com/adviceboard/adviceboard/internal/api"
	"github.com/adviceboard/adviceboard/internal/domain"
	"github.com/adviceboard/adviceboard/internal/session"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenHome    Screen = "home"
	ScreenDetails Screen = "details"
	ScreenLogin   Screen = "login"
)

// Deps bundles the shared services every screen needs.
type Deps struct {
	Client  *api.Client
	Actions *advice.Actions
	Session *session.Session
}

// Messages for screen transitions
type showDetailsMsg struct {
	advice domain.Advice
}

type showHomeMsg struct {
	scope  ListScope
	userID string
	// reload forces a fresh fetch even when returning to an already-loaded
	// list (e.g. after login).
	reload bool
}

type showLoginMsg struct{}

// loggedInMsg is emitted by the login screen once the token is persisted.
type loggedInMsg struct{}

// AppModel is the top-level coordinator model that routes messages to the
// active screen and holds the shared terminal dimensions.
type AppModel struct {
	Deps Deps

	CurrentScreen Screen

	HomeModel    HomeModel
	DetailsModel DetailsModel
	LoginModel   LoginModel

	Width  int
	Height int
}

// NewAppModel creates the application model starting on the home screen.
func NewAppModel(deps Deps) AppModel {
	return AppModel{
		Deps:          deps,
		CurrentScreen: ScreenHome,
		HomeModel:     NewHomeModel(deps, ScopeAll, ""),
	}
}

// Init starts the initial screen.
func (m AppModel) Init() tea.Cmd {
	return m.HomeModel.Init()
}

// Update handles global messages and routes the rest to the active screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.HomeModel.Width = msg.Width
		m.HomeModel.Height = msg.Height
		m.DetailsModel.Width = msg.Width
		m.DetailsModel.Height = msg.Height
		m.LoginModel.Width = msg.Width
		m.LoginModel.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.HomeModel.Loader.Stop()
			return m, tea.Quit
		}

	case showDetailsMsg:
		m.CurrentScreen = ScreenDetails
		m.DetailsModel = NewDetailsModel(m.Deps, msg.advice)
		m.DetailsModel.Width = m.Width
		m.DetailsModel.Height = m.Height
		return m, m.DetailsModel.Init()

	case showHomeMsg:
		m.CurrentScreen = ScreenHome
		if msg.reload || m.HomeModel.Scope != msg.scope || m.HomeModel.ScopeUserID != msg.userID {
			m.HomeModel.Loader.Stop()
			m.HomeModel = NewHomeModel(m.Deps, msg.scope, msg.userID)
			m.HomeModel.Width = m.Width
			m.HomeModel.Height = m.Height
			return m, m.HomeModel.Init()
		}
		return m, nil

	case backToListMsg:
		m.CurrentScreen = ScreenHome
		if msg.updated != nil {
			m.HomeModel.Advices = domain.ReplaceWith(m.HomeModel.Advices, *msg.updated)
		}
		return m, nil

	case showLoginMsg:
		m.CurrentScreen = ScreenLogin
		m.LoginModel = NewLoginModel(m.Deps)
		m.LoginModel.Width = m.Width
		m.LoginModel.Height = m.Height
		return m, m.LoginModel.Init()

	case loggedInMsg:
		// A fresh token changes _isMine on every item, so reload.
		return m.Update(showHomeMsg{scope: ScopeAll, reload: true})
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenHome:
		updated, c := m.HomeModel.Update(msg)
		m.HomeModel = updated.(HomeModel)
		cmd = c

	case ScreenDetails:
		updated, c := m.DetailsModel.Update(msg)
		m.DetailsModel = updated.(DetailsModel)
		cmd = c

	case ScreenLogin:
		updated, c := m.LoginModel.Update(msg)
		m.LoginModel = updated.(LoginModel)
		cmd = c
	}

	return m, cmd
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenHome:
		return m.HomeModel.View()
	case ScreenDetails:
		return m.DetailsModel.View()
	case ScreenLogin:
		return m.LoginModel.View()
	default:
		return "Unknown screen"
	}
}
