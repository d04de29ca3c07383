package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/adviceboard/adviceboard/internal/advice"
	"github.com/adviceboard/adviceboard/internal/domain"
)

// ListScope selects which advices the home screen lists.
type ListScope string

const (
	ScopeAll  ListScope = "all"
	ScopeMine ListScope = "mine"
	ScopeUser ListScope = "user"
)

// homeMode tracks which input surface owns the keyboard.
type homeMode int

const (
	modeBrowse homeMode = iota
	modeSearch
	modeForm
	modeConfirm
)

// Messages for async list operations
type advicesLoadedMsg struct {
	advices []domain.Advice
}

type adviceLoadFailedMsg struct {
	err error
}

// spinnerGraceMsg fires when the spinner grace delay elapses. seq identifies
// the load it was scheduled for; the loader ignores stale ones.
type spinnerGraceMsg struct {
	seq int
}

// retryTickMsg fires when the retry delay elapses.
type retryTickMsg struct {
	seq int
}

type adviceSavedMsg struct {
	advice  *domain.Advice
	created bool
}

type adviceDeletedMsg struct {
	id string
}

type actionFailedMsg struct {
	err error
}

// searchFocus is the cursor position inside the search bar.
type searchFocus int

const (
	focusQuery searchFocus = iota
	focusTitle
	focusContent
	focusAnonymous
	searchFocusCount
)

// homeKeyMap defines key bindings for the home screen
type homeKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Search  key.Binding
	Clear   key.Binding
	Author  key.Binding
	Mine    key.Binding
	Refresh key.Binding
	Login   key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k homeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.New, k.Search, k.Mine, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k homeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Refresh},
		{k.New, k.Edit, k.Delete},
		{k.Search, k.Clear, k.Author, k.Mine, k.Login, k.Quit},
	}
}

func newHomeKeyMap() homeKeyMap {
	return homeKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new post")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Clear:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filter")),
		Author:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "author's posts")),
		Mine:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "my posts")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Login:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "log in")),
		Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// HomeModel is the advice list screen: loading with grace-delayed spinner,
// automatic retry on transient failures, server-side search, and the
// create/edit/delete flows.
type HomeModel struct {
	Deps Deps

	Scope       ListScope
	ScopeUserID string

	// Loader drives the fetch/spinner/retry flow; pointer so Stop from the
	// app coordinator invalidates timers on the same instance the screen
	// scheduled them on.
	Loader *advice.Loader

	Filter  advice.Filter
	Advices []domain.Advice
	Cursor  int

	Mode homeMode

	// Search bar state (modeSearch)
	SearchInput textinput.Model
	SearchFocus searchFocus
	Draft       advice.Filter

	// Form modal state (modeForm)
	Form adviceFormModel

	// Confirm state (modeConfirm)
	Confirm         ConfirmModel
	PendingDeleteID string

	// ActionErr is the last action failure, shown under the list until the
	// next action.
	ActionErr string

	Spinner spinner.Model

	Width  int
	Height int

	Help help.Model
	Keys homeKeyMap
}

// NewHomeModel creates the home screen for the given scope.
func NewHomeModel(deps Deps, scope ListScope, userID string) HomeModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	input := textinput.New()
	input.Placeholder = "Search posts..."
	input.CharLimit = 120
	input.Width = 40

	return HomeModel{
		Deps:        deps,
		Scope:       scope,
		ScopeUserID: userID,
		Loader:      advice.NewLoader(),
		Filter:      advice.DefaultFilter(),
		SearchInput: input,
		Spinner:     s,
		Help:        help.New(),
		Keys:        newHomeKeyMap(),
	}
}

// Init kicks off the first load.
func (m HomeModel) Init() tea.Cmd {
	return tea.Batch(m.effectCmds(m.Loader.Start())...)
}

// fetchCmd builds the list fetch for the current scope and filter.
func (m HomeModel) fetchCmd() tea.Cmd {
	client := m.Deps.Client
	scope := m.Scope
	userID := m.ScopeUserID
	filter := m.Filter

	return func() tea.Msg {
		ctx := context.Background()

		var (
			advices []domain.Advice
			err     error
		)
		switch {
		case scope == ScopeMine:
			// The server marks _isMine per item, so ownership filtering
			// works even when the token payload is opaque and no local
			// user id can be decoded.
			advices, err = client.ListAdvices(ctx)
			if err == nil {
				advices = domain.OnlyMine(advices)
			}
		case scope == ScopeUser:
			advices, err = client.ListAdvicesByUser(ctx, userID)
		case !filter.IsEmpty():
			advices, err = client.SearchAdvices(ctx, filter.Values())
		default:
			advices, err = client.ListAdvices(ctx)
		}

		if err != nil {
			return adviceLoadFailedMsg{err: err}
		}
		return advicesLoadedMsg{advices: advices}
	}
}

// effectCmds maps loader effects onto bubbletea commands. Timer messages
// carry the sequence number so stale firings are dropped by the loader.
func (m HomeModel) effectCmds(effects []advice.Effect) []tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e.Kind {
		case advice.EffectFetch:
			cmds = append(cmds, m.fetchCmd())
		case advice.EffectSpinnerTimer:
			seq := e.Seq
			cmds = append(cmds, tea.Tick(e.Delay, func(time.Time) tea.Msg {
				return spinnerGraceMsg{seq: seq}
			}))
		case advice.EffectRetryTimer:
			seq := e.Seq
			cmds = append(cmds, tea.Tick(e.Delay, func(time.Time) tea.Msg {
				return retryTickMsg{seq: seq}
			}))
		}
	}
	return cmds
}

// reload restarts the load flow from scratch.
func (m *HomeModel) reload() tea.Cmd {
	m.ActionErr = ""
	return tea.Batch(m.effectCmds(m.Loader.Start())...)
}

func (m HomeModel) saveCmd(editingID string, form domain.AdviceForm) tea.Cmd {
	actions := m.Deps.Actions
	return func() tea.Msg {
		if editingID == "" {
			created, err := actions.CreateAdvice(context.Background(), form)
			if err != nil {
				return actionFailedMsg{err: err}
			}
			return adviceSavedMsg{advice: created, created: true}
		}
		updated, err := actions.UpdateAdvice(context.Background(), editingID, form)
		if err != nil {
			return actionFailedMsg{err: err}
		}
		return adviceSavedMsg{advice: updated}
	}
}

func (m HomeModel) deleteCmd(id string) tea.Cmd {
	actions := m.Deps.Actions
	return func() tea.Msg {
		deleted, err := actions.DeleteAdvice(context.Background(), id)
		if err != nil {
			return actionFailedMsg{err: err}
		}
		return adviceDeletedMsg{id: deleted}
	}
}

// selected returns the advice under the cursor, or nil.
func (m *HomeModel) selected() *domain.Advice {
	if m.Cursor < 0 || m.Cursor >= len(m.Advices) {
		return nil
	}
	return &m.Advices[m.Cursor]
}

// ownedByMe reports whether the current user may edit/delete the advice.
// The server's _isMine flag wins; the local identity is the fallback for
// older payloads.
func (m *HomeModel) ownedByMe(a *domain.Advice) bool {
	if a.IsMine {
		return true
	}
	id := m.Deps.Session.UserID()
	return id != "" && a.CreatedBy.ID == id
}

// Update handles home screen messages.
func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case advicesLoadedMsg:
		m.Loader.Succeed()
		m.Advices = msg.advices
		if m.Cursor >= len(m.Advices) {
			m.Cursor = len(m.Advices) - 1
		}
		if m.Cursor < 0 {
			m.Cursor = 0
		}
		return m, nil

	case adviceLoadFailedMsg:
		effects := m.Loader.Fail(msg.err)
		cmds := m.effectCmds(effects)
		if m.Loader.SpinnerVisible() {
			cmds = append(cmds, m.Spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case spinnerGraceMsg:
		wasVisible := m.Loader.SpinnerVisible()
		m.Loader.SpinnerElapsed(msg.seq)
		if !wasVisible && m.Loader.SpinnerVisible() {
			return m, m.Spinner.Tick
		}
		return m, nil

	case retryTickMsg:
		return m, tea.Batch(m.effectCmds(m.Loader.RetryElapsed(msg.seq))...)

	case spinner.TickMsg:
		if !m.Loader.SpinnerVisible() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case adviceSavedMsg:
		m.Mode = modeBrowse
		m.ActionErr = ""
		if msg.created {
			m.Advices = append([]domain.Advice{*msg.advice}, m.Advices...)
			m.Cursor = 0
		} else {
			m.Advices = domain.ReplaceWith(m.Advices, *msg.advice)
		}
		return m, nil

	case adviceDeletedMsg:
		m.ActionErr = ""
		m.Advices = domain.RemoveByID(m.Advices, msg.id)
		if m.Cursor >= len(m.Advices) && m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil

	case actionFailedMsg:
		if advice.IsCancelled(msg.err) {
			return m, nil
		}
		message := advice.UserMessage(msg.err)
		if m.Mode == modeForm {
			// Validation and save failures keep the form open with the
			// message inline.
			m.Form.ErrMsg = message
			return m, nil
		}
		m.ActionErr = message
		return m, nil

	case tea.KeyMsg:
		switch m.Mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

// updateBrowse handles keys in the plain list mode.
func (m HomeModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}

	case key.Matches(msg, m.Keys.Down):
		if m.Cursor < len(m.Advices)-1 {
			m.Cursor++
		}

	case key.Matches(msg, m.Keys.Open):
		if sel := m.selected(); sel != nil {
			return m, func() tea.Msg { return showDetailsMsg{advice: *sel} }
		}

	case key.Matches(msg, m.Keys.New):
		if !m.Deps.Session.Authenticated() {
			m.ActionErr = "Log in to create a post"
			return m, nil
		}
		m.Mode = modeForm
		m.Form = newAdviceForm(nil)
		return m, m.Form.Focus()

	case key.Matches(msg, m.Keys.Edit):
		sel := m.selected()
		if sel == nil {
			return m, nil
		}
		if !m.ownedByMe(sel) {
			m.ActionErr = "You can only edit your own posts"
			return m, nil
		}
		m.Mode = modeForm
		m.Form = newAdviceForm(sel)
		return m, m.Form.Focus()

	case key.Matches(msg, m.Keys.Delete):
		sel := m.selected()
		if sel == nil {
			return m, nil
		}
		if !m.ownedByMe(sel) {
			m.ActionErr = "You can only delete your own posts"
			return m, nil
		}
		m.Mode = modeConfirm
		m.PendingDeleteID = sel.ID
		m.Confirm = NewConfirmModel("Are you sure you want to delete this post? This cannot be undone.")

	case key.Matches(msg, m.Keys.Search):
		if m.Scope != ScopeAll {
			return m, nil
		}
		m.Mode = modeSearch
		m.Draft = m.Filter
		m.SearchInput.SetValue(m.Draft.Query)
		m.SearchFocus = focusQuery
		return m, m.SearchInput.Focus()

	case key.Matches(msg, m.Keys.Clear):
		if !m.Filter.IsEmpty() {
			m.Filter.Reset()
			return m, m.reload()
		}

	case key.Matches(msg, m.Keys.Author):
		sel := m.selected()
		if sel == nil {
			return m, nil
		}
		// Anonymous posts never link to their author.
		if !sel.CreatedBy.Linkable(sel.Anonymous) {
			return m, nil
		}
		userID := sel.CreatedBy.ID
		return m, func() tea.Msg { return showHomeMsg{scope: ScopeUser, userID: userID, reload: true} }

	case key.Matches(msg, m.Keys.Mine):
		if !m.Deps.Session.Authenticated() {
			m.ActionErr = "Log in to see your posts"
			return m, nil
		}
		return m, func() tea.Msg { return showHomeMsg{scope: ScopeMine, reload: true} }

	case key.Matches(msg, m.Keys.Refresh):
		return m, m.reload()

	case key.Matches(msg, m.Keys.Login):
		return m, func() tea.Msg { return showLoginMsg{} }

	case key.Matches(msg, m.Keys.Quit):
		m.Loader.Stop()
		return m, tea.Quit

	case msg.String() == "esc":
		if m.Scope != ScopeAll {
			return m, func() tea.Msg { return showHomeMsg{scope: ScopeAll, reload: true} }
		}
	}

	return m, nil
}

// updateSearch handles keys while the search bar is focused.
func (m HomeModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = modeBrowse
		m.SearchInput.Blur()
		return m, nil

	case "tab", "down":
		m.SearchFocus = (m.SearchFocus + 1) % searchFocusCount
		return m, m.syncSearchFocus()

	case "shift+tab", "up":
		m.SearchFocus = (m.SearchFocus + searchFocusCount - 1) % searchFocusCount
		return m, m.syncSearchFocus()

	case "enter":
		m.Draft.Query = m.SearchInput.Value()
		if m.Draft.AnonymousOnly {
			// Anonymous-only drops the free text entirely; keeping it
			// would resurface stale input the next time the bar opens.
			m.Draft.Query = ""
			m.SearchInput.Reset()
		}
		m.Mode = modeBrowse
		m.SearchInput.Blur()
		if m.Draft.IsEmpty() {
			// Submitting an empty filter is the same as clearing it.
			m.Filter.Reset()
		} else {
			m.Filter = m.Draft
		}
		return m, m.reload()

	case " ":
		switch m.SearchFocus {
		case focusTitle:
			m.Draft.Title = !m.Draft.Title
			return m, nil
		case focusContent:
			m.Draft.Content = !m.Draft.Content
			return m, nil
		case focusAnonymous:
			m.Draft.AnonymousOnly = !m.Draft.AnonymousOnly
			return m, nil
		}
	}

	if m.SearchFocus == focusQuery {
		var cmd tea.Cmd
		m.SearchInput, cmd = m.SearchInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// syncSearchFocus focuses or blurs the query input to match the cursor.
func (m *HomeModel) syncSearchFocus() tea.Cmd {
	if m.SearchFocus == focusQuery {
		return m.SearchInput.Focus()
	}
	m.SearchInput.Blur()
	return nil
}

// updateForm routes keys into the post form modal.
func (m HomeModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	done, submitted, cmd := m.Form.Handle(msg)
	if done {
		if !submitted {
			m.Mode = modeBrowse
			return m, nil
		}
		return m, m.saveCmd(m.Form.EditingID, m.Form.Value())
	}
	return m, cmd
}

// updateConfirm handles the delete confirmation.
func (m HomeModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	confirmed, done := m.Confirm.Handle(msg)
	if !done {
		return m, nil
	}
	m.Mode = modeBrowse
	if !confirmed {
		return m, nil
	}
	return m, m.deleteCmd(m.PendingDeleteID)
}

// View renders the home screen.
func (m HomeModel) View() string {
	content := m.buildContent()
	footer := m.Help.View(m.Keys)

	base := RenderApplicationContainer(content, footer, m.Width, m.Height)

	switch m.Mode {
	case modeForm:
		return RenderModalOverlay(m.Form.View(SafeModalWidth(70, m.Width)), m.Width, m.Height)
	case modeConfirm:
		return RenderModalOverlay(m.Confirm.View(SafeModalWidth(60, m.Width)), m.Width, m.Height)
	}
	return base
}

// scopeTitle is the heading for the current list scope.
func (m HomeModel) scopeTitle() string {
	switch m.Scope {
	case ScopeMine:
		return "My Posts"
	case ScopeUser:
		return "Posts by user"
	default:
		return "Community Advice"
	}
}

// buildContent builds the list content with banners and chips.
func (m HomeModel) buildContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle(m.scopeTitle()))
	b.WriteString("\n")

	if m.Mode == modeSearch {
		b.WriteString(m.renderSearchBar())
		b.WriteString("\n\n")
	} else if terms := m.Filter.ActiveTerms(); len(terms) > 0 {
		for _, term := range terms {
			b.WriteString(ChipStyle.Render(term))
			b.WriteString(" ")
		}
		b.WriteString(SubtitleStyle.Render("(x to clear)"))
		b.WriteString("\n\n")
	}

	switch m.Loader.Phase() {
	case advice.PhaseUnauthorized:
		b.WriteString(UnauthorizedStyle.Render("Your session has expired. Press l to log in again."))
		b.WriteString("\n\n")
		return b.String()

	case advice.PhaseWaitingRetry:
		b.WriteString(RetryBannerStyle.Render(fmt.Sprintf(
			"%s Connection problem - retrying (attempt %d)...", m.Spinner.View(), m.Loader.Attempt())))
		b.WriteString("\n\n")

	case advice.PhaseLoading:
		if m.Loader.SpinnerVisible() {
			b.WriteString(SpinnerStyle.Render(m.Spinner.View() + " Loading posts..."))
			b.WriteString("\n\n")
		}
	}

	if m.Loader.Phase() == advice.PhaseLoaded && len(m.Advices) == 0 {
		if m.Filter.IsEmpty() {
			b.WriteString(EmptyStyle.Render("No posts yet. Press n to write the first one."))
		} else {
			b.WriteString(EmptyStyle.Render("No results found."))
		}
		b.WriteString("\n")
	}

	for i := range m.Advices {
		b.WriteString(m.renderItem(i))
		b.WriteString("\n")
	}

	if m.ActionErr != "" {
		b.WriteString("\n")
		b.WriteString(RenderError(m.ActionErr))
		b.WriteString("\n")
	}

	return b.String()
}

// renderSearchBar renders the query input and the three facet toggles.
func (m HomeModel) renderSearchBar() string {
	var b strings.Builder

	label := BlurredInputStyle
	if m.SearchFocus == focusQuery {
		label = FocusedInputStyle
	}
	b.WriteString(label.Render("Search: "))
	b.WriteString(m.SearchInput.View())
	b.WriteString("\n  ")

	facets := []struct {
		focus   searchFocus
		label   string
		checked bool
	}{
		{focusTitle, "title", m.Draft.Title},
		{focusContent, "content", m.Draft.Content},
		{focusAnonymous, "anonymous only", m.Draft.AnonymousOnly},
	}
	for _, f := range facets {
		rendered := RenderFacet(f.label, f.checked)
		if m.SearchFocus == f.focus {
			rendered = FocusedInputStyle.Render("› ") + rendered
		} else {
			rendered = "  " + rendered
		}
		b.WriteString(rendered)
		b.WriteString("  ")
	}

	b.WriteString("\n  ")
	b.WriteString(SubtitleStyle.Render("tab: next field · space: toggle · enter: search · esc: cancel"))
	return b.String()
}

// renderItem renders one list row.
func (m HomeModel) renderItem(i int) string {
	a := m.Advices[i]

	byline := AuthorStyle.Render("by " + a.CreatedBy.Label(a.Anonymous))
	replies := AuthorStyle.Render(fmt.Sprintf("· %d replies", len(a.Replies)))
	mine := ""
	if m.ownedByMe(&a) {
		mine = " " + MineMarkerStyle.Render("[mine]")
	}

	line := fmt.Sprintf("%s %s %s%s", a.Title, byline, replies, mine)
	if i == m.Cursor {
		return SelectedListItemStyle.Render("→ " + line)
	}
	return ListItemStyle.Render(line)
}
