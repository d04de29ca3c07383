package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/adviceboard/adviceboard/internal/domain"
)

// formField is the focused element of the post form.
type formField int

const (
	fieldTitle formField = iota
	fieldContent
	fieldAnonymous
	formFieldCount
)

// adviceFormModel is the create/edit post modal. The same form serves both
// flows; EditingID is empty for a new post.
type adviceFormModel struct {
	EditingID string

	TitleInput  textinput.Model
	ContentArea textarea.Model
	Anonymous   bool

	Field formField

	// ErrMsg holds a validation or save failure, rendered inline. The form
	// stays open until the save succeeds or the user cancels.
	ErrMsg string
}

// newAdviceForm creates the form, prefilled when editing an existing post.
func newAdviceForm(editing *domain.Advice) adviceFormModel {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 120
	title.Width = 50

	content := textarea.New()
	content.Placeholder = "What do you need advice on?"
	content.CharLimit = 2000
	content.SetWidth(60)
	content.SetHeight(6)

	f := adviceFormModel{
		TitleInput:  title,
		ContentArea: content,
	}

	if editing != nil {
		f.EditingID = editing.ID
		f.TitleInput.SetValue(editing.Title)
		f.ContentArea.SetValue(editing.Content)
		f.Anonymous = editing.Anonymous
	}
	return f
}

// Focus gives the title field initial focus.
func (f *adviceFormModel) Focus() tea.Cmd {
	f.Field = fieldTitle
	f.ContentArea.Blur()
	return f.TitleInput.Focus()
}

// Value returns the current form input.
func (f *adviceFormModel) Value() domain.AdviceForm {
	return domain.AdviceForm{
		Title:     f.TitleInput.Value(),
		Content:   f.ContentArea.Value(),
		Anonymous: f.Anonymous,
	}
}

// syncFocus moves input focus to the active field.
func (f *adviceFormModel) syncFocus() tea.Cmd {
	f.TitleInput.Blur()
	f.ContentArea.Blur()
	switch f.Field {
	case fieldTitle:
		return f.TitleInput.Focus()
	case fieldContent:
		return f.ContentArea.Focus()
	}
	return nil
}

// Handle processes one key. done reports that the modal should close;
// submitted distinguishes save from cancel.
func (f *adviceFormModel) Handle(msg tea.KeyMsg) (done, submitted bool, cmd tea.Cmd) {
	switch msg.String() {
	case "esc":
		return true, false, nil

	case "ctrl+s":
		return true, true, nil

	case "tab":
		f.Field = (f.Field + 1) % formFieldCount
		return false, false, f.syncFocus()

	case "shift+tab":
		f.Field = (f.Field + formFieldCount - 1) % formFieldCount
		return false, false, f.syncFocus()

	case "enter":
		switch f.Field {
		case fieldTitle:
			f.Field = fieldContent
			return false, false, f.syncFocus()
		case fieldAnonymous:
			return true, true, nil
		}

	case " ":
		if f.Field == fieldAnonymous {
			f.Anonymous = !f.Anonymous
			return false, false, nil
		}
	}

	switch f.Field {
	case fieldTitle:
		f.TitleInput, cmd = f.TitleInput.Update(msg)
	case fieldContent:
		f.ContentArea, cmd = f.ContentArea.Update(msg)
	}
	return false, false, cmd
}

// View renders the modal at the given width.
func (f adviceFormModel) View(width int) string {
	var b strings.Builder

	heading := "New Post"
	if f.EditingID != "" {
		heading = "Edit Post"
	}
	b.WriteString(TitleStyle.Render(heading))
	b.WriteString("\n")

	titleLabel := BlurredInputStyle
	if f.Field == fieldTitle {
		titleLabel = FocusedInputStyle
	}
	b.WriteString(titleLabel.Render("Title"))
	b.WriteString("\n")
	b.WriteString(f.TitleInput.View())
	b.WriteString("\n\n")

	contentLabel := BlurredInputStyle
	if f.Field == fieldContent {
		contentLabel = FocusedInputStyle
	}
	b.WriteString(contentLabel.Render("Content"))
	b.WriteString("\n")
	b.WriteString(f.ContentArea.View())
	b.WriteString("\n\n")

	anon := RenderFacet("post anonymously", f.Anonymous)
	if f.Field == fieldAnonymous {
		anon = FocusedInputStyle.Render("› ") + anon
	} else {
		anon = "  " + anon
	}
	b.WriteString(anon)
	b.WriteString("\n")

	if f.ErrMsg != "" {
		b.WriteString("\n")
		b.WriteString(RenderError(f.ErrMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("ctrl+s: save · tab: next field · esc: cancel"))

	return ModalStyle.Width(width).Render(b.String())
}
