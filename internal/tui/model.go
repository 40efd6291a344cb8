package tui

import (
	"context"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/misops/tickboard/internal/app"
	"github.com/misops/tickboard/internal/board"
	"github.com/misops/tickboard/internal/domain"
)

// dateInputLayout is the format accepted by the date-range prompts.
const dateInputLayout = "2006-01-02"

// Service is the backend surface the board consumes.
type Service interface {
	ListTickets(context.Context) ([]domain.Ticket, error)
	ListStaff(context.Context) ([]domain.StaffMember, error)
	UpdateStatus(context.Context, string, domain.Status) error
	UpdateTicket(context.Context, app.TicketUpdate) error
}

// inputMode represents a selectable mode.
type inputMode int

const (
	modeNone inputMode = iota
	modeSearch
	modeStartDate
	modeEndDate
	modeStatusPicker
	modeEditTicket
)

// edit-form field indexes used by keyboard handling.
const (
	editFieldIssue = iota
	editFieldStatus
	editFieldAssignee
	editFieldCount
)

// loadedMsg carries a board refresh through update handling. A staff
// directory failure is non-fatal: the board still renders and the edit form
// degrades to keeping the current assignee.
type loadedMsg struct {
	tickets  []domain.Ticket
	staff    []domain.StaffMember
	staffErr error
	err      error
}

// transitionMsg reports the backend verdict for one optimistic move.
type transitionMsg struct {
	attempt app.Attempt
	err     error
}

// editSavedMsg reports the result of a full ticket update.
type editSavedMsg struct {
	err error
}

// Model is the board TUI state.
type Model struct {
	svc Service

	ready  bool
	width  int
	height int

	err    error
	status string

	b        *board.Board
	criteria board.Criteria
	filtered map[domain.Status][]domain.Ticket

	staff    []domain.StaffMember
	staffErr error

	selectedColumn int
	selectedTicket int

	controller *app.TransitionController
	clock      func() time.Time
	idGen      app.IDGenerator

	mode           inputMode
	searchInput    textinput.Model
	dateInput      textinput.Model
	issueInput     textinput.Model
	pickerStatuses []domain.Status
	pickerIdx      int
	pickerTicketID string
	editTicketID   string
	editField      int
	editStatusIdx  int
	editStaffIdx   int

	keys     keyMap
	help     help.Model
	boardCfg BoardConfig
}

// NewModel constructs the board model over the given backend service.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	searchInput := textinput.New()
	searchInput.Prompt = ""
	searchInput.Placeholder = "assignee or issue text"
	searchInput.CharLimit = 120
	dateInput := textinput.New()
	dateInput.Prompt = ""
	dateInput.Placeholder = dateInputLayout
	dateInput.CharLimit = 10
	issueInput := textinput.New()
	issueInput.Prompt = ""
	issueInput.Placeholder = "issue description"
	issueInput.CharLimit = 240

	m := Model{
		svc:         svc,
		status:      "loading...",
		clock:       time.Now,
		searchInput: searchInput,
		dateInput:   dateInput,
		issueInput:  issueInput,
		keys:        newKeyMap(),
		help:        h,
		boardCfg:    DefaultBoardConfig(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.controller = app.NewTransitionController(svc, m.idGen, app.Clock(m.clock))
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadData
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			if m.b == nil {
				m.err = msg.err
				return m, nil
			}
			// Keep the last known board usable; r retries.
			m.status = "reload failed: " + msg.err.Error()
			return m, nil
		}
		m.err = nil
		m.b = board.FromTickets(msg.tickets)
		m.staff = msg.staff
		m.staffErr = msg.staffErr
		m.refilter()
		if msg.staffErr != nil {
			m.status = "staff directory unavailable: " + msg.staffErr.Error()
		} else {
			m.status = "ready"
		}
		return m, nil

	case transitionMsg:
		outcome := m.controller.Resolve(m.b, msg.attempt, msg.err)
		if outcome.Stale {
			return m, nil
		}
		if outcome.Err != nil {
			m.refilter()
			m.status = "move rolled back: " + outcome.Err.Error()
			return m, nil
		}
		m.status = "moved to " + msg.attempt.To.DisplayLabel()
		return m, nil

	case editSavedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "ticket updated"
		return m, m.loadData

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	default:
		return m, nil
	}
}

// loadData fetches the ticket list and staff directory in one refresh.
func (m Model) loadData() tea.Msg {
	ctx := context.Background()
	tickets, err := m.svc.ListTickets(ctx)
	if err != nil {
		return loadedMsg{err: err}
	}
	staff, staffErr := m.svc.ListStaff(ctx)
	return loadedMsg{tickets: tickets, staff: staff, staffErr: staffErr}
}

// refilter recomputes the per-column views from the board and criteria.
// The board itself is never mutated by filtering.
func (m *Model) refilter() {
	if m.b == nil {
		return
	}
	filtered := make(map[domain.Status][]domain.Ticket, len(domain.AllStatuses()))
	for _, status := range domain.AllStatuses() {
		filtered[status] = board.Apply(m.b.Column(status), m.criteria)
	}
	m.filtered = filtered
	m.clampSelection()
}

func (m *Model) clampSelection() {
	statuses := domain.AllStatuses()
	m.selectedColumn = clamp(m.selectedColumn, 0, len(statuses)-1)
	m.selectedTicket = clamp(m.selectedTicket, 0, max(0, len(m.currentColumnTickets())-1))
}

func (m Model) currentColumnTickets() []domain.Ticket {
	return m.filtered[domain.AllStatuses()[m.selectedColumn]]
}

func (m Model) selectedTicketInColumn() (domain.Ticket, bool) {
	tickets := m.currentColumnTickets()
	if len(tickets) == 0 || m.selectedTicket >= len(tickets) {
		return domain.Ticket{}, false
	}
	return tickets[m.selectedTicket], true
}

func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case msg.String() == "esc":
		if m.help.ShowAll {
			m.help.ShowAll = false
			return m, nil
		}
		if m.criteria.SearchText != "" {
			m.criteria.SearchText = ""
			m.refilter()
			m.status = "search cleared"
		}
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		return m, m.loadData
	case key.Matches(msg, m.keys.columnLeft):
		if m.selectedColumn > 0 {
			m.selectedColumn--
			m.selectedTicket = 0
		}
		return m, nil
	case key.Matches(msg, m.keys.columnRight):
		if m.selectedColumn < len(domain.AllStatuses())-1 {
			m.selectedColumn++
			m.selectedTicket = 0
		}
		return m, nil
	case key.Matches(msg, m.keys.ticketDown):
		if tickets := m.currentColumnTickets(); len(tickets) > 0 && m.selectedTicket < len(tickets)-1 {
			m.selectedTicket++
		}
		return m, nil
	case key.Matches(msg, m.keys.ticketUp):
		if m.selectedTicket > 0 {
			m.selectedTicket--
		}
		return m, nil
	case key.Matches(msg, m.keys.moveTicket):
		ticket, ok := m.selectedTicketInColumn()
		if !ok {
			m.status = "no ticket selected"
			return m, nil
		}
		return m.startStatusPicker(ticket), nil
	case key.Matches(msg, m.keys.editTicket):
		ticket, ok := m.selectedTicketInColumn()
		if !ok {
			m.status = "no ticket selected"
			return m, nil
		}
		return m.startEditForm(ticket)
	case key.Matches(msg, m.keys.search):
		m.mode = modeSearch
		m.searchInput.SetValue(m.criteria.SearchText)
		m.status = "search"
		return m, m.searchInput.Focus()
	case key.Matches(msg, m.keys.filterStatus):
		m.cycleStatusFilter()
		m.refilter()
		return m, nil
	case key.Matches(msg, m.keys.startDate):
		return m.startDatePrompt(modeStartDate, m.criteria.StartDate)
	case key.Matches(msg, m.keys.endDate):
		return m.startDatePrompt(modeEndDate, m.criteria.EndDate)
	case key.Matches(msg, m.keys.resetFilters):
		m.criteria.Reset()
		m.refilter()
		m.status = "filters reset"
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeStartDate, modeEndDate:
		return m.handleDateKey(msg)
	case modeStatusPicker:
		return m.handleStatusPickerKey(msg)
	case modeEditTicket:
		return m.handleEditKey(msg)
	default:
		m.mode = modeNone
		return m, nil
	}
}

// handleSearchKey narrows the board on every keystroke. Enter keeps the
// query applied, esc clears it.
func (m Model) handleSearchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.searchInput.Blur()
		m.criteria.SearchText = ""
		m.refilter()
		m.status = "search cleared"
		return m, nil
	case "enter":
		m.mode = modeNone
		m.searchInput.Blur()
		if m.criteria.SearchText == "" {
			m.status = "ready"
		} else {
			m.status = "search: " + m.criteria.SearchText
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.criteria.SearchText = m.searchInput.Value()
		m.refilter()
		return m, cmd
	}
}

func (m Model) startDatePrompt(mode inputMode, current *time.Time) (tea.Model, tea.Cmd) {
	m.mode = mode
	if current != nil {
		m.dateInput.SetValue(current.Format(dateInputLayout))
	} else {
		m.dateInput.SetValue("")
	}
	if mode == modeStartDate {
		m.status = "start date"
	} else {
		m.status = "end date"
	}
	return m, m.dateInput.Focus()
}

func (m Model) handleDateKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.dateInput.Blur()
		m.status = "ready"
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.dateInput.Value())
		if text == "" {
			if m.mode == modeStartDate {
				m.criteria.StartDate = nil
			} else {
				m.criteria.EndDate = nil
			}
			m.mode = modeNone
			m.dateInput.Blur()
			m.refilter()
			m.status = "date filter cleared"
			return m, nil
		}
		date, err := time.Parse(dateInputLayout, text)
		if err != nil {
			m.status = "invalid date, expected " + dateInputLayout
			return m, nil
		}
		if m.mode == modeStartDate {
			err = m.criteria.SetStartDate(date, m.clock())
		} else {
			err = m.criteria.SetEndDate(date, m.clock())
		}
		m.mode = modeNone
		m.dateInput.Blur()
		if err != nil {
			// The prior bound stays in effect on rejection.
			m.status = err.Error()
			return m, nil
		}
		m.refilter()
		m.status = "ready"
		return m, nil
	default:
		var cmd tea.Cmd
		m.dateInput, cmd = m.dateInput.Update(msg)
		return m, cmd
	}
}

func (m Model) startStatusPicker(ticket domain.Ticket) Model {
	targets := make([]domain.Status, 0, len(domain.AllStatuses())-1)
	for _, status := range domain.AllStatuses() {
		if status != ticket.Status {
			targets = append(targets, status)
		}
	}
	m.mode = modeStatusPicker
	m.pickerStatuses = targets
	m.pickerIdx = 0
	m.pickerTicketID = ticket.ID
	m.status = "move to..."
	return m
}

func (m Model) handleStatusPickerKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.status = "ready"
		return m, nil
	case "j", "down":
		if m.pickerIdx < len(m.pickerStatuses)-1 {
			m.pickerIdx++
		}
		return m, nil
	case "k", "up":
		if m.pickerIdx > 0 {
			m.pickerIdx--
		}
		return m, nil
	case "enter":
		to := m.pickerStatuses[clamp(m.pickerIdx, 0, len(m.pickerStatuses)-1)]
		ticketID := m.pickerTicketID
		m.mode = modeNone
		return m.beginMove(ticketID, to)
	default:
		return m, nil
	}
}

// beginMove applies the move locally before the backend round trip. The
// ticket repaints in its new column immediately; transitionMsg settles it.
func (m Model) beginMove(ticketID string, to domain.Status) (tea.Model, tea.Cmd) {
	attempt, err := m.controller.Begin(m.b, ticketID, to)
	if err != nil {
		m.status = "move failed: " + err.Error()
		return m, nil
	}
	m.refilter()
	m.status = "moving to " + to.DisplayLabel() + "..."
	return m, m.confirmMove(attempt)
}

func (m Model) confirmMove(attempt app.Attempt) tea.Cmd {
	return func() tea.Msg {
		err := m.controller.Confirm(context.Background(), attempt)
		return transitionMsg{attempt: attempt, err: err}
	}
}

func (m Model) startEditForm(ticket domain.Ticket) (tea.Model, tea.Cmd) {
	m.mode = modeEditTicket
	m.editTicketID = ticket.ID
	m.editField = editFieldIssue
	m.issueInput.SetValue(ticket.Issue)

	m.editStatusIdx = 0
	for idx, status := range domain.AllStatuses() {
		if status == ticket.Status {
			m.editStatusIdx = idx
			break
		}
	}
	m.editStaffIdx = 0
	if ticket.Assignee != nil {
		for idx, member := range m.staff {
			if member.ID == ticket.Assignee.ID {
				m.editStaffIdx = idx + 1
				break
			}
		}
	}
	m.status = "edit ticket"
	return m, m.issueInput.Focus()
}

func (m Model) handleEditKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.issueInput.Blur()
		m.status = "edit cancelled"
		return m, nil
	case "tab":
		m.editField = (m.editField + 1) % editFieldCount
		return m.focusEditField()
	case "shift+tab":
		m.editField = (m.editField + editFieldCount - 1) % editFieldCount
		return m.focusEditField()
	case "enter":
		return m.submitEditForm()
	}

	switch m.editField {
	case editFieldStatus:
		statuses := domain.AllStatuses()
		switch msg.String() {
		case "j", "down", "l", "right":
			m.editStatusIdx = (m.editStatusIdx + 1) % len(statuses)
		case "k", "up", "h", "left":
			m.editStatusIdx = (m.editStatusIdx + len(statuses) - 1) % len(statuses)
		}
		return m, nil
	case editFieldAssignee:
		options := len(m.staff) + 1
		switch msg.String() {
		case "j", "down", "l", "right":
			m.editStaffIdx = (m.editStaffIdx + 1) % options
		case "k", "up", "h", "left":
			m.editStaffIdx = (m.editStaffIdx + options - 1) % options
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.issueInput, cmd = m.issueInput.Update(msg)
		return m, cmd
	}
}

func (m Model) focusEditField() (tea.Model, tea.Cmd) {
	if m.editField == editFieldIssue {
		return m, m.issueInput.Focus()
	}
	m.issueInput.Blur()
	return m, nil
}

func (m Model) submitEditForm() (tea.Model, tea.Cmd) {
	ticket, ok := m.b.Find(m.editTicketID)
	if !ok {
		m.mode = modeNone
		m.issueInput.Blur()
		m.status = "ticket no longer on the board"
		return m, nil
	}
	staffID := ""
	if m.editStaffIdx > 0 && m.editStaffIdx <= len(m.staff) {
		staffID = m.staff[m.editStaffIdx-1].ID
	}
	statuses := domain.AllStatuses()
	update, err := app.BuildTicketUpdate(ticket, m.issueInput.Value(), statuses[m.editStatusIdx], staffID, m.clock())
	if err != nil {
		// Validation failures stay local; nothing reaches the backend.
		m.status = err.Error()
		return m, nil
	}
	m.mode = modeNone
	m.issueInput.Blur()
	m.status = "saving..."
	return m, m.saveTicket(update)
}

func (m Model) saveTicket(update app.TicketUpdate) tea.Cmd {
	return func() tea.Msg {
		return editSavedMsg{err: m.svc.UpdateTicket(context.Background(), update)}
	}
}

// cycleStatusFilter steps the stage filter through all statuses and back to
// the unfiltered state.
func (m *Model) cycleStatusFilter() {
	statuses := domain.AllStatuses()
	if m.criteria.Status == nil {
		m.criteria.SetStatus(statuses[0])
		m.status = "stage: " + statuses[0].DisplayLabel()
		return
	}
	for idx, status := range statuses {
		if status != *m.criteria.Status {
			continue
		}
		if idx == len(statuses)-1 {
			m.criteria.Status = nil
			m.status = "stage filter off"
		} else {
			m.criteria.SetStatus(statuses[idx+1])
			m.status = "stage: " + statuses[idx+1].DisplayLabel()
		}
		return
	}
	m.criteria.Status = nil
}

func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(rs[:maxLen])
	}
	return string(rs[:maxLen-1]) + "…"
}

func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}
