package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/adviceboard/adviceboard/internal/advice"
	"github.com/adviceboard/adviceboard/internal/domain"
)

// detailsMode tracks which input surface owns the keyboard on the details
// screen. Only one reply editor can be open at a time.
type detailsMode int

const (
	detailsBrowse detailsMode = iota
	detailsReplyInput
	detailsPostForm
	detailsConfirm
)

// Messages for async details operations
type adviceRefreshedMsg struct {
	advice *domain.Advice
}

// replySavedMsg carries the parent advice the server returns for reply
// create/update; the whole entity is replaced locally.
type replySavedMsg struct {
	advice *domain.Advice
}

type replyDeletedMsg struct {
	replyID string
}

// backToListMsg returns to the list, carrying any change made here so the
// list can reconcile without a reload.
type backToListMsg struct {
	updated *domain.Advice
}

// detailsKeyMap defines key bindings for the details screen
type detailsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Reply    key.Binding
	Edit     key.Binding
	Delete   key.Binding
	EditPost key.Binding
	Refresh  key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k detailsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reply, k.Edit, k.Delete, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k detailsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Reply},
		{k.Edit, k.Delete, k.EditPost},
		{k.Refresh, k.Back, k.Quit},
	}
}

func newDetailsKeyMap() detailsKeyMap {
	return detailsKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Reply:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add reply")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit reply")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete reply")),
		EditPost: key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "edit post")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// DetailsModel shows one advice with its replies and the reply flows.
type DetailsModel struct {
	Deps Deps

	Advice domain.Advice

	Mode        detailsMode
	ReplyCursor int

	// Reply editor state. EditingReplyID is empty when composing a new
	// reply; only one editor is ever open.
	ReplyArea      textarea.Model
	ReplyAnonymous bool
	EditingReplyID string
	ReplyErr       string

	// Post edit modal
	Form adviceFormModel

	Confirm              ConfirmModel
	PendingDeleteReplyID string

	ActionErr string

	Width  int
	Height int

	Help help.Model
	Keys detailsKeyMap
}

// NewDetailsModel creates the details screen seeded from the list entity; a
// fresh fetch on Init picks up replies added since the list loaded.
func NewDetailsModel(deps Deps, a domain.Advice) DetailsModel {
	area := textarea.New()
	area.Placeholder = "Write a reply..."
	area.CharLimit = 2000
	area.SetWidth(60)
	area.SetHeight(4)

	return DetailsModel{
		Deps:      deps,
		Advice:    a,
		ReplyArea: area,
		Help:      help.New(),
		Keys:      newDetailsKeyMap(),
	}
}

// Init refreshes the advice from the server.
func (m DetailsModel) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m DetailsModel) refreshCmd() tea.Cmd {
	client := m.Deps.Client
	id := m.Advice.ID
	return func() tea.Msg {
		fresh, err := client.GetAdvice(context.Background(), id)
		if err != nil {
			return actionFailedMsg{err: err}
		}
		return adviceRefreshedMsg{advice: fresh}
	}
}

func (m DetailsModel) saveReplyCmd(editingID string, form domain.ReplyForm) tea.Cmd {
	actions := m.Deps.Actions
	adviceID := m.Advice.ID
	return func() tea.Msg {
		var (
			updated *domain.Advice
			err     error
		)
		if editingID == "" {
			updated, err = actions.AddReply(context.Background(), adviceID, form)
		} else {
			updated, err = actions.UpdateReply(context.Background(), adviceID, editingID, form)
		}
		if err != nil {
			return actionFailedMsg{err: err}
		}
		return replySavedMsg{advice: updated}
	}
}

func (m DetailsModel) deleteReplyCmd(replyID string) tea.Cmd {
	actions := m.Deps.Actions
	adviceID := m.Advice.ID
	return func() tea.Msg {
		deleted, err := actions.DeleteReply(context.Background(), adviceID, replyID)
		if err != nil {
			return actionFailedMsg{err: err}
		}
		return replyDeletedMsg{replyID: deleted}
	}
}

// selectedReply returns the reply under the cursor, or nil.
func (m *DetailsModel) selectedReply() *domain.Reply {
	if m.ReplyCursor < 0 || m.ReplyCursor >= len(m.Advice.Replies) {
		return nil
	}
	return &m.Advice.Replies[m.ReplyCursor]
}

// replyOwnedByMe reports whether the current user may edit/delete the reply.
func (m *DetailsModel) replyOwnedByMe(r *domain.Reply) bool {
	id := m.Deps.Session.UserID()
	return id != "" && r.CreatedBy.ID == id
}

// Update handles details screen messages.
func (m DetailsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case adviceRefreshedMsg:
		m.Advice = *msg.advice
		m.clampCursor()
		return m, nil

	case replySavedMsg:
		m.Advice = *msg.advice
		m.Mode = detailsBrowse
		m.ReplyErr = ""
		m.ActionErr = ""
		m.clampCursor()
		return m, nil

	case replyDeletedMsg:
		replies := m.Advice.Replies[:0]
		for _, r := range m.Advice.Replies {
			if r.ID != msg.replyID {
				replies = append(replies, r)
			}
		}
		m.Advice.Replies = replies
		m.ActionErr = ""
		m.clampCursor()
		return m, nil

	case adviceSavedMsg:
		m.Advice = *msg.advice
		m.Mode = detailsBrowse
		return m, nil

	case actionFailedMsg:
		if advice.IsCancelled(msg.err) {
			return m, nil
		}
		message := advice.UserMessage(msg.err)
		switch m.Mode {
		case detailsReplyInput:
			m.ReplyErr = message
		case detailsPostForm:
			m.Form.ErrMsg = message
		default:
			m.ActionErr = message
		}
		return m, nil

	case tea.KeyMsg:
		switch m.Mode {
		case detailsReplyInput:
			return m.updateReplyInput(msg)
		case detailsPostForm:
			return m.updatePostForm(msg)
		case detailsConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m *DetailsModel) clampCursor() {
	if m.ReplyCursor >= len(m.Advice.Replies) {
		m.ReplyCursor = len(m.Advice.Replies) - 1
	}
	if m.ReplyCursor < 0 {
		m.ReplyCursor = 0
	}
}

// updateBrowse handles keys in the plain details mode.
func (m DetailsModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Up):
		if m.ReplyCursor > 0 {
			m.ReplyCursor--
		}

	case key.Matches(msg, m.Keys.Down):
		if m.ReplyCursor < len(m.Advice.Replies)-1 {
			m.ReplyCursor++
		}

	case key.Matches(msg, m.Keys.Reply):
		if !m.Deps.Session.Authenticated() {
			m.ActionErr = "Log in to reply"
			return m, nil
		}
		m.Mode = detailsReplyInput
		m.EditingReplyID = ""
		m.ReplyAnonymous = false
		m.ReplyErr = ""
		m.ReplyArea.Reset()
		return m, m.ReplyArea.Focus()

	case key.Matches(msg, m.Keys.Edit):
		sel := m.selectedReply()
		if sel == nil {
			return m, nil
		}
		if !m.replyOwnedByMe(sel) {
			m.ActionErr = "You can only edit your own replies"
			return m, nil
		}
		m.Mode = detailsReplyInput
		m.EditingReplyID = sel.ID
		m.ReplyAnonymous = sel.Anonymous
		m.ReplyErr = ""
		m.ReplyArea.SetValue(sel.Content)
		return m, m.ReplyArea.Focus()

	case key.Matches(msg, m.Keys.Delete):
		sel := m.selectedReply()
		if sel == nil {
			return m, nil
		}
		if !m.replyOwnedByMe(sel) {
			m.ActionErr = "You can only delete your own replies"
			return m, nil
		}
		m.Mode = detailsConfirm
		m.PendingDeleteReplyID = sel.ID
		m.Confirm = NewConfirmModel("Are you sure you want to delete this reply?")

	case key.Matches(msg, m.Keys.EditPost):
		if !m.Advice.IsMine && m.Advice.CreatedBy.ID != m.Deps.Session.UserID() {
			m.ActionErr = "You can only edit your own posts"
			return m, nil
		}
		m.Mode = detailsPostForm
		m.Form = newAdviceForm(&m.Advice)
		return m, m.Form.Focus()

	case key.Matches(msg, m.Keys.Refresh):
		return m, m.refreshCmd()

	case key.Matches(msg, m.Keys.Back):
		a := m.Advice
		return m, func() tea.Msg { return backToListMsg{updated: &a} }

	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit
	}

	return m, nil
}

// updateReplyInput handles keys while the reply editor is open.
func (m DetailsModel) updateReplyInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = detailsBrowse
		m.ReplyArea.Blur()
		return m, nil

	case "ctrl+a":
		m.ReplyAnonymous = !m.ReplyAnonymous
		return m, nil

	case "ctrl+s":
		form := domain.ReplyForm{Content: m.ReplyArea.Value(), Anonymous: m.ReplyAnonymous}
		m.ReplyArea.Blur()
		return m, m.saveReplyCmd(m.EditingReplyID, form)
	}

	var cmd tea.Cmd
	m.ReplyArea, cmd = m.ReplyArea.Update(msg)
	return m, cmd
}

// updatePostForm routes keys into the post edit modal.
func (m DetailsModel) updatePostForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	done, submitted, cmd := m.Form.Handle(msg)
	if done {
		if !submitted {
			m.Mode = detailsBrowse
			return m, nil
		}
		actions := m.Deps.Actions
		id := m.Advice.ID
		form := m.Form.Value()
		return m, func() tea.Msg {
			updated, err := actions.UpdateAdvice(context.Background(), id, form)
			if err != nil {
				return actionFailedMsg{err: err}
			}
			return adviceSavedMsg{advice: updated}
		}
	}
	return m, cmd
}

// updateConfirm handles the delete-reply confirmation.
func (m DetailsModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	confirmed, done := m.Confirm.Handle(msg)
	if !done {
		return m, nil
	}
	m.Mode = detailsBrowse
	if !confirmed {
		return m, nil
	}
	return m, m.deleteReplyCmd(m.PendingDeleteReplyID)
}

// View renders the details screen.
func (m DetailsModel) View() string {
	content := m.buildContent()
	footer := m.Help.View(m.Keys)

	base := RenderApplicationContainer(content, footer, m.Width, m.Height)

	switch m.Mode {
	case detailsPostForm:
		return RenderModalOverlay(m.Form.View(SafeModalWidth(70, m.Width)), m.Width, m.Height)
	case detailsConfirm:
		return RenderModalOverlay(m.Confirm.View(SafeModalWidth(60, m.Width)), m.Width, m.Height)
	}
	return base
}

// buildContent builds the post, its replies, and any open reply editor.
func (m DetailsModel) buildContent() string {
	var b strings.Builder

	a := m.Advice

	b.WriteString(RenderTitle(a.Title))
	b.WriteString("\n")
	byline := "by " + a.CreatedBy.Label(a.Anonymous)
	if !a.CreatedAt.IsZero() {
		byline += " · " + a.CreatedAt.Format("Jan 2, 2006 15:04")
	}
	b.WriteString(AuthorStyle.Render(byline))
	b.WriteString("\n\n")
	b.WriteString(a.Content)
	b.WriteString("\n\n")

	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("Replies (%d)", len(a.Replies))))
	b.WriteString("\n")

	if len(a.Replies) == 0 {
		b.WriteString(EmptyStyle.Render("No replies yet. Press a to add one."))
		b.WriteString("\n")
	}

	for i, r := range a.Replies {
		if m.Mode == detailsReplyInput && m.EditingReplyID == r.ID {
			// The reply under edit is replaced inline by the editor.
			b.WriteString(m.renderReplyEditor("Edit reply"))
			b.WriteString("\n")
			continue
		}
		b.WriteString(m.renderReply(i, r))
		b.WriteString("\n")
	}

	if m.Mode == detailsReplyInput && m.EditingReplyID == "" {
		b.WriteString("\n")
		b.WriteString(m.renderReplyEditor("New reply"))
		b.WriteString("\n")
	}

	if m.ActionErr != "" {
		b.WriteString("\n")
		b.WriteString(RenderError(m.ActionErr))
		b.WriteString("\n")
	}

	return b.String()
}

// renderReply renders one reply row.
func (m DetailsModel) renderReply(i int, r domain.Reply) string {
	mine := ""
	if m.replyOwnedByMe(&r) {
		mine = " " + MineMarkerStyle.Render("[mine]")
	}
	line := fmt.Sprintf("%s %s%s", r.Content, AuthorStyle.Render("- "+r.CreatedBy.Label(r.Anonymous)), mine)

	if i == m.ReplyCursor && m.Mode == detailsBrowse {
		return SelectedListItemStyle.Render("→ " + line)
	}
	return ReplyStyle.Render(line)
}

// renderReplyEditor renders the open reply editor with its hints.
func (m DetailsModel) renderReplyEditor(heading string) string {
	var b strings.Builder
	b.WriteString(FocusedInputStyle.Render(heading))
	b.WriteString("\n")
	b.WriteString(m.ReplyArea.View())
	b.WriteString("\n")
	b.WriteString(RenderFacet("anonymous", m.ReplyAnonymous))
	if m.ReplyErr != "" {
		b.WriteString("\n")
		b.WriteString(RenderError(m.ReplyErr))
	}
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("ctrl+s: save · ctrl+a: toggle anonymous · esc: cancel"))
	return b.String()
}
