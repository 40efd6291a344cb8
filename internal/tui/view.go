package tui

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/misops/tickboard/internal/app"
	"github.com/misops/tickboard/internal/domain"
)

// View handles view.
func (m Model) View() tea.View {
	if m.err != nil {
		v := tea.NewView("error: " + m.err.Error() + "\n\npress r to retry • q quit\n")
		v.AltScreen = true
		return v
	}
	if !m.ready || m.b == nil {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	header := titleStyle.Render("tickboard")
	if summary := m.filterSummary(); summary != "" {
		header += statusStyle.Render("  " + summary)
	}

	body := m.renderColumns(accent, muted, dim)

	sections := []string{header, "", body}
	if overlay := m.renderModeOverlay(accent, muted, dim); overlay != "" {
		sections = append(sections, overlay)
	}
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	if m.height > 0 {
		helpHeight := lipgloss.Height(helpLine)
		content = fitLines(content, max(0, m.height-helpHeight))
	}

	v := tea.NewView(content + "\n" + helpLine)
	v.AltScreen = true
	return v
}

// filterSummary lists the active criteria for the header line.
func (m Model) filterSummary() string {
	parts := make([]string, 0, 4)
	if m.criteria.SearchText != "" {
		parts = append(parts, "search: "+truncate(m.criteria.SearchText, 24))
	}
	if m.criteria.Status != nil {
		parts = append(parts, "stage: "+m.criteria.Status.DisplayLabel())
	}
	if m.criteria.StartDate != nil {
		parts = append(parts, "from "+m.criteria.StartDate.Format(dateInputLayout))
	}
	if m.criteria.EndDate != nil {
		parts = append(parts, "to "+m.criteria.EndDate.Format(dateInputLayout))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderColumns(accent, muted, dim color.Color) string {
	statuses := domain.AllStatuses()
	colWidth := max(22, m.width/len(statuses)-4)
	colHeight := max(8, m.height-8)

	baseColStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(1, 2).
		MarginRight(1).
		Width(colWidth)
	selColStyle := baseColStyle.BorderForeground(accent)
	colTitle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	subStyle := lipgloss.NewStyle().Foreground(muted)

	columnViews := make([]string, 0, len(statuses))
	for colIdx, status := range statuses {
		tickets := m.filtered[status]
		lines := []string{colTitle.Render(fmt.Sprintf("%s (%d)", status.DisplayLabel(), len(tickets)))}

		if len(tickets) == 0 {
			lines = append(lines, "", emptyStyle.Render("No tickets available."))
		}
		for ticketIdx, ticket := range tickets {
			selected := colIdx == m.selectedColumn && ticketIdx == m.selectedTicket
			prefix := "  "
			if selected {
				prefix = "│ "
			}
			title := prefix + truncate(ticket.Issue, max(1, colWidth-8))
			if m.controller.State(ticket.ID) == app.TransitionPending {
				title += " …"
			}
			if selected {
				title = selectedStyle.Render(title)
			}
			lines = append(lines, "", title)

			sub := ticket.AssigneeName() + " · " + ticket.DateCreated.Format("Jan 02")
			if m.boardCfg.ShowDateFinished && ticket.DateFinished != nil {
				sub += " → " + ticket.DateFinished.Format("Jan 02")
			}
			lines = append(lines, prefix+subStyle.Render(truncate(sub, max(1, colWidth-8))))
			if m.boardCfg.ShowReporter && ticket.Reporter != "" {
				lines = append(lines, prefix+subStyle.Render(truncate("by "+ticket.Reporter, max(1, colWidth-8))))
			}
		}

		content := fitLines(strings.Join(lines, "\n"), max(1, colHeight-4))
		if colIdx == m.selectedColumn {
			columnViews = append(columnViews, selColStyle.Render(content))
		} else {
			columnViews = append(columnViews, baseColStyle.Render(content))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columnViews...)
}

// renderModeOverlay renders the active prompt below the board.
func (m Model) renderModeOverlay(accent, muted, dim color.Color) string {
	if m.mode == modeNone {
		return ""
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 2)
	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle := lipgloss.NewStyle().Foreground(muted)

	switch m.mode {
	case modeSearch:
		return boxStyle.Render(
			labelStyle.Render("search ") + m.searchInput.View() + "\n" +
				hintStyle.Render("enter apply • esc clear"))
	case modeStartDate, modeEndDate:
		label := "start date "
		if m.mode == modeEndDate {
			label = "end date "
		}
		return boxStyle.Render(
			labelStyle.Render(label) + m.dateInput.View() + "\n" +
				hintStyle.Render("enter apply • empty clears • esc cancel"))
	case modeStatusPicker:
		lines := []string{labelStyle.Render("move to")}
		for idx, status := range m.pickerStatuses {
			cursor := "  "
			if idx == m.pickerIdx {
				cursor = "> "
			}
			lines = append(lines, cursor+status.DisplayLabel())
		}
		lines = append(lines, hintStyle.Render("enter move • esc cancel"))
		return boxStyle.Render(strings.Join(lines, "\n"))
	case modeEditTicket:
		return boxStyle.Render(m.renderEditForm(labelStyle, hintStyle))
	default:
		return ""
	}
}

func (m Model) renderEditForm(labelStyle, hintStyle lipgloss.Style) string {
	marker := func(field int) string {
		if m.editField == field {
			return "> "
		}
		return "  "
	}
	statuses := domain.AllStatuses()
	assignee := "Unassigned"
	if m.editStaffIdx > 0 && m.editStaffIdx <= len(m.staff) {
		assignee = m.staff[m.editStaffIdx-1].DisplayName()
	}

	lines := []string{
		labelStyle.Render("edit ticket"),
		marker(editFieldIssue) + "issue:    " + m.issueInput.View(),
		marker(editFieldStatus) + "status:   " + statuses[clamp(m.editStatusIdx, 0, len(statuses)-1)].DisplayLabel(),
		marker(editFieldAssignee) + "assignee: " + assignee,
	}
	if m.staffErr != nil {
		lines = append(lines, hintStyle.Render("staff directory unavailable"))
	}
	lines = append(lines, hintStyle.Render("tab next field • j/k cycle value • enter save • esc cancel"))
	return strings.Join(lines, "\n")
}
