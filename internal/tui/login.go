package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/adviceboard/adviceboard/internal/advice"
)

// authMode switches the screen between login and registration.
type authMode int

const (
	authLogin authMode = iota
	authRegister
)

// Messages for async auth operations
type loginSucceededMsg struct{}

type registerSucceededMsg struct{}

type authFailedMsg struct {
	err error
}

// LoginModel is the login/registration screen.
type LoginModel struct {
	Deps Deps

	Mode authMode

	UsernameInput textinput.Model
	EmailInput    textinput.Model
	PasswordInput textinput.Model

	// Focus is the index into the visible fields (username only in
	// register mode).
	Focus int

	ErrMsg  string
	InfoMsg string

	Submitting bool

	Width  int
	Height int
}

// NewLoginModel creates the auth screen in login mode.
func NewLoginModel(deps Deps) LoginModel {
	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 60
	username.Width = 40

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 120
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 120
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return LoginModel{
		Deps:          deps,
		UsernameInput: username,
		EmailInput:    email,
		PasswordInput: password,
	}
}

// Init focuses the first field.
func (m LoginModel) Init() tea.Cmd {
	return m.EmailInput.Focus()
}

// fields returns the visible inputs in focus order.
func (m *LoginModel) fields() []*textinput.Model {
	if m.Mode == authRegister {
		return []*textinput.Model{&m.UsernameInput, &m.EmailInput, &m.PasswordInput}
	}
	return []*textinput.Model{&m.EmailInput, &m.PasswordInput}
}

// syncFocus applies the focus index to the inputs.
func (m *LoginModel) syncFocus() tea.Cmd {
	var cmd tea.Cmd
	for i, f := range m.fields() {
		if i == m.Focus {
			cmd = f.Focus()
		} else {
			f.Blur()
		}
	}
	return cmd
}

func (m LoginModel) loginCmd() tea.Cmd {
	actions := m.Deps.Actions
	sess := m.Deps.Session
	email := m.EmailInput.Value()
	password := m.PasswordInput.Value()

	return func() tea.Msg {
		token, err := actions.Login(context.Background(), email, password)
		if err != nil {
			return authFailedMsg{err: err}
		}
		if err := sess.SetToken(token); err != nil {
			return authFailedMsg{err: err}
		}
		return loginSucceededMsg{}
	}
}

func (m LoginModel) registerCmd() tea.Cmd {
	actions := m.Deps.Actions
	username := m.UsernameInput.Value()
	email := m.EmailInput.Value()
	password := m.PasswordInput.Value()

	return func() tea.Msg {
		if _, err := actions.Register(context.Background(), username, email, password); err != nil {
			return authFailedMsg{err: err}
		}
		return registerSucceededMsg{}
	}
}

// Update handles auth screen messages.
func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginSucceededMsg:
		return m, func() tea.Msg { return loggedInMsg{} }

	case registerSucceededMsg:
		// Back to login with the same email prefilled.
		m.Mode = authLogin
		m.Submitting = false
		m.ErrMsg = ""
		m.InfoMsg = "Account created. Log in to continue."
		m.PasswordInput.Reset()
		m.Focus = 0
		return m, m.syncFocus()

	case authFailedMsg:
		m.Submitting = false
		m.ErrMsg = advice.UserMessage(msg.err)
		return m, nil

	case tea.KeyMsg:
		if m.Submitting {
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return showHomeMsg{scope: ScopeAll} }

		case "tab", "down":
			m.Focus = (m.Focus + 1) % len(m.fields())
			return m, m.syncFocus()

		case "shift+tab", "up":
			n := len(m.fields())
			m.Focus = (m.Focus + n - 1) % n
			return m, m.syncFocus()

		case "ctrl+r":
			// Toggle between login and registration.
			if m.Mode == authLogin {
				m.Mode = authRegister
			} else {
				m.Mode = authLogin
			}
			m.ErrMsg = ""
			m.InfoMsg = ""
			m.Focus = 0
			return m, m.syncFocus()

		case "enter":
			if m.Focus < len(m.fields())-1 {
				m.Focus++
				return m, m.syncFocus()
			}
			m.Submitting = true
			m.ErrMsg = ""
			m.InfoMsg = ""
			if m.Mode == authRegister {
				return m, m.registerCmd()
			}
			return m, m.loginCmd()
		}

		focused := m.fields()[m.Focus]
		var cmd tea.Cmd
		*focused, cmd = focused.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the auth screen.
func (m LoginModel) View() string {
	var b strings.Builder

	heading := "Log In"
	if m.Mode == authRegister {
		heading = "Create Account"
	}
	b.WriteString(RenderTitle(heading))
	b.WriteString("\n")

	if m.Mode == authRegister {
		b.WriteString(m.renderField("Username", m.UsernameInput, 0))
	}
	offset := 0
	if m.Mode == authRegister {
		offset = 1
	}
	b.WriteString(m.renderField("Email", m.EmailInput, offset))
	b.WriteString(m.renderField("Password", m.PasswordInput, offset+1))

	if m.Submitting {
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Render("Signing in..."))
		b.WriteString("\n")
	}
	if m.ErrMsg != "" {
		b.WriteString("\n")
		b.WriteString(RenderError(m.ErrMsg))
		b.WriteString("\n")
	}
	if m.InfoMsg != "" {
		b.WriteString("\n")
		b.WriteString(MineMarkerStyle.Render("✓ " + m.InfoMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	toggle := "ctrl+r: create an account instead"
	if m.Mode == authRegister {
		toggle = "ctrl+r: log in instead"
	}
	footer := "enter: submit · tab: next field · " + toggle + " · esc: back"

	return RenderApplicationContainer(b.String(), footer, m.Width, m.Height)
}

// renderField renders a labelled input with its focus state.
func (m LoginModel) renderField(label string, input textinput.Model, index int) string {
	style := BlurredInputStyle
	if m.Focus == index {
		style = FocusedInputStyle
	}
	return style.Render(label) + "\n" + input.View() + "\n\n"
}
