package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel is a small yes/no prompt rendered as a modal overlay. The
// parent screen owns the keyboard and calls Handle for each key.
type ConfirmModel struct {
	Prompt string
}

// NewConfirmModel creates a confirmation prompt.
func NewConfirmModel(prompt string) ConfirmModel {
	return ConfirmModel{Prompt: prompt}
}

// Handle interprets one key. done reports the prompt is resolved; confirmed
// is only meaningful when done. Anything other than y/Y declines.
func (c ConfirmModel) Handle(msg tea.KeyMsg) (confirmed, done bool) {
	switch msg.String() {
	case "y", "Y":
		return true, true
	case "n", "N", "esc", "enter":
		return false, true
	}
	return false, false
}

// View renders the prompt at the given width.
func (c ConfirmModel) View(width int) string {
	var b strings.Builder

	b.WriteString(ErrorStyle.Render("⚠ Confirm"))
	b.WriteString("\n\n")
	b.WriteString(c.Prompt)
	b.WriteString("\n\n")
	b.WriteString(SubtitleStyle.Render("y: yes · n/esc: no"))

	return ModalStyle.Width(width).Render(b.String())
}
