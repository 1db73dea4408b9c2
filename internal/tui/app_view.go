package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tasklist/internal/output"
	"tasklist/internal/taskclient"
)

const gridColumns = 3

func (m appModel) View() string {
	var b strings.Builder

	header := styleTitle().Render("Tasks")
	if m.loading {
		header += " " + m.spinner.View() + styleMuted().Render(" loading")
	}
	b.WriteString(header + "\n")

	for _, n := range m.center.Active() {
		b.WriteString(styleBanner(n.Severity).Render(n.Message) + "\n")
	}
	b.WriteString("\n")

	if m.mode == modeAdd {
		b.WriteString(m.input.View() + "\n\n")
	}

	if m.mode == modeConfirm {
		b.WriteString(renderConfirmModal(m.width, "Delete task", taskclient.DeletePrompt, "Delete", "Cancel", m.confirmFocus))
		b.WriteString("\n")
		return b.String()
	}

	switch {
	case len(m.tasks) == 0:
		b.WriteString(styleMuted().Render(output.EmptyList) + "\n")
	case m.layout == layoutGrid:
		b.WriteString(m.viewGrid() + "\n")
	default:
		b.WriteString(m.viewList())
	}

	b.WriteString("\n" + styleMuted().Render(m.helpLine()))
	return b.String()
}

func (m appModel) viewList() string {
	editID, editing := m.editingID()

	var b strings.Builder
	for i, t := range m.tasks {
		var line string
		if editing && t.ID == editID {
			line = fmt.Sprintf("%4d  %s", t.ID, m.editInput.View())
		} else {
			line = fmt.Sprintf("%4d  %s", t.ID, singleLine(t.Description))
			if i == m.cursor {
				line = styleSelected().Render(line)
			}
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m appModel) viewGrid() string {
	editID, editing := m.editingID()

	cardW := 24
	if m.width > 0 {
		cardW = max(16, m.width/gridColumns-4)
	}

	var rows []string
	var cards []string
	for i, t := range m.tasks {
		body := singleLine(t.Description)
		if editing && t.ID == editID {
			body = m.editInput.View()
		}
		card := styleCard(i == m.cursor).Width(cardW).Render(fmt.Sprintf("#%d\n%s", t.ID, body))
		cards = append(cards, card)
		if len(cards) == gridColumns {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
			cards = nil
		}
	}
	if len(cards) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m appModel) helpLine() string {
	switch m.mode {
	case modeAdd:
		return "enter: add   esc: cancel"
	case modeEdit:
		return "enter: save   esc: cancel"
	default:
		return "a: add   e: edit   d: delete   r: refresh   v: " + m.otherLayout() + "   x: dismiss   q: quit"
	}
}

func (m appModel) otherLayout() string {
	if m.layout == layoutList {
		return layoutGrid.String()
	}
	return layoutList.String()
}

func renderConfirmModal(width int, title string, body string, confirmLabel string, cancelLabel string, focus confirmFocus) string {
	btn := lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted)
	btnActive := btn.Foreground(colorAccent).Bold(true).Reverse(true)

	confirm := btn.Render(confirmLabel)
	cancel := btn.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)

	boxW := 50
	if width > 0 {
		boxW = min(boxW, max(20, width-4))
	}
	content := strings.Join([]string{
		styleTitle().Render(title),
		"",
		body,
		"",
		controls,
		"",
		styleMuted().Render("tab: focus   enter: select   y/n   esc: cancel"),
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorError).
		Padding(0, 1).
		Width(boxW).
		Render(content)
}

func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
