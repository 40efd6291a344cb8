package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/misops/tickboard/internal/app"
	"github.com/misops/tickboard/internal/domain"
)

type statusCall struct {
	ticketID string
	to       domain.Status
}

type fakeService struct {
	tickets  []domain.Ticket
	staff    []domain.StaffMember
	listErr  error
	staffErr error

	statusErr   error
	statusCalls []statusCall
	updateErr   error
	updates     []app.TicketUpdate
}

func (f *fakeService) ListTickets(context.Context) ([]domain.Ticket, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Ticket, len(f.tickets))
	copy(out, f.tickets)
	return out, nil
}

func (f *fakeService) ListStaff(context.Context) ([]domain.StaffMember, error) {
	if f.staffErr != nil {
		return nil, f.staffErr
	}
	out := make([]domain.StaffMember, len(f.staff))
	copy(out, f.staff)
	return out, nil
}

func (f *fakeService) UpdateStatus(_ context.Context, ticketID string, to domain.Status) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	f.statusCalls = append(f.statusCalls, statusCall{ticketID: ticketID, to: to})
	for idx := range f.tickets {
		if f.tickets[idx].ID == ticketID {
			f.tickets[idx].ApplyStatus(to, time.Now().UTC())
		}
	}
	return nil
}

func (f *fakeService) UpdateTicket(_ context.Context, update app.TicketUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, update)
	for idx := range f.tickets {
		if f.tickets[idx].ID == update.TicketID {
			f.tickets[idx].Issue = update.Issue
			f.tickets[idx].ApplyStatus(update.Status, time.Now().UTC())
		}
	}
	return nil
}

func tuiTicket(t *testing.T, id, issue, status string, created time.Time, assignee *domain.StaffMember) domain.Ticket {
	t.Helper()
	ticket, err := domain.NewTicket(domain.TicketInput{
		ID:          id,
		Issue:       issue,
		Status:      status,
		Assignee:    assignee,
		DateCreated: created,
	})
	if err != nil {
		t.Fatalf("NewTicket(%q) error = %v", id, err)
	}
	return ticket
}

func newLoadedModel(t *testing.T, svc *fakeService, opts ...Option) Model {
	t.Helper()
	m := NewModel(svc, opts...)
	return applyMsg(t, applyCmd(t, m, m.Init()), tea.WindowSizeMsg{Width: 120, Height: 40})
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	currentCmd := cmd
	for i := 0; i < 6 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		currentCmd = nextCmd
	}
	return out
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestModelLoadPartitionsAndNavigates(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := &fakeService{
		tickets: []domain.Ticket{
			tuiTicket(t, "1", "Printer jam", "To Do", created, nil),
			tuiTicket(t, "2", "VPN down", "In Progress", created, nil),
			tuiTicket(t, "3", "Laptop swap", "Done", created, nil),
		},
	}
	m := newLoadedModel(t, svc)

	if got := len(m.filtered[domain.StatusToDo]); got != 1 {
		t.Fatalf("expected 1 todo ticket, got %d", got)
	}
	if got := len(m.filtered[domain.StatusClosed]); got != 0 {
		t.Fatalf("expected empty closed column, got %d", got)
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyRight})
	if m.selectedColumn != 1 {
		t.Fatalf("expected selectedColumn=1, got %d", m.selectedColumn)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyLeft})
	if m.selectedColumn != 0 {
		t.Fatalf("expected selectedColumn=0, got %d", m.selectedColumn)
	}
}

func TestModelLoadFailureKeepsLastBoard(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := &fakeService{tickets: []domain.Ticket{tuiTicket(t, "1", "Printer jam", "To Do", created, nil)}}
	m := newLoadedModel(t, svc)

	svc.listErr = errors.New("backend unreachable")
	m = applyMsg(t, m, keyRune('r'))
	if m.err != nil {
		t.Fatalf("expected board to stay usable, got fatal err %v", m.err)
	}
	if got := len(m.filtered[domain.StatusToDo]); got != 1 {
		t.Fatalf("expected last-known board retained, got %d todo tickets", got)
	}
	if !strings.Contains(m.status, "reload failed") {
		t.Fatalf("expected reload warning, got %q", m.status)
	}
}

func TestModelOptimisticMoveConfirmed(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := &fakeService{tickets: []domain.Ticket{tuiTicket(t, "1", "Printer jam", "To Do", created, nil)}}
	m := newLoadedModel(t, svc)

	m = applyMsg(t, m, keyRune('m'))
	if m.mode != modeStatusPicker {
		t.Fatalf("expected status picker mode, got %v", m.mode)
	}
	// First picker target for a todo ticket is In Progress.
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if got := len(m.filtered[domain.StatusInProgress]); got != 1 {
		t.Fatalf("expected ticket in inProgress column, got %d", got)
	}
	if len(svc.statusCalls) != 1 || svc.statusCalls[0].to != domain.StatusInProgress {
		t.Fatalf("unexpected backend calls %#v", svc.statusCalls)
	}
	if state := m.controller.State("1"); state != app.TransitionConfirmed {
		t.Fatalf("expected confirmed transition, got %v", state)
	}
}

func TestModelMoveRollsBackOnBackendFailure(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := &fakeService{
		tickets:   []domain.Ticket{tuiTicket(t, "1", "Printer jam", "To Do", created, nil)},
		statusErr: errors.New("503"),
	}
	m := newLoadedModel(t, svc)

	m = applyMsg(t, m, keyRune('m'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if got := len(m.filtered[domain.StatusToDo]); got != 1 {
		t.Fatalf("expected ticket restored to todo, got %d", got)
	}
	if got := len(m.filtered[domain.StatusInProgress]); got != 0 {
		t.Fatalf("expected inProgress empty after rollback, got %d", got)
	}
	if !strings.Contains(m.status, "rolled back") {
		t.Fatalf("expected rollback notice, got %q", m.status)
	}
}

func TestModelSearchFiltersAsYouType(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	jane := &domain.StaffMember{ID: "s1", FirstName: "Jane", LastName: "Doe"}
	svc := &fakeService{
		tickets: []domain.Ticket{
			tuiTicket(t, "1", "Printer jam", "To Do", created, jane),
			tuiTicket(t, "2", "VPN down", "To Do", created, nil),
		},
	}
	m := newLoadedModel(t, svc)

	m = applyMsg(t, m, keyRune('/'))
	for _, r := range "jane" {
		m = applyMsg(t, m, keyRune(r))
	}
	if got := len(m.filtered[domain.StatusToDo]); got != 1 {
		t.Fatalf("expected 1 match while typing, got %d", got)
	}
	if m.b.Len() != 2 {
		t.Fatalf("filtering must not mutate the board, got %d tickets", m.b.Len())
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.criteria.SearchText != "" {
		t.Fatalf("expected esc to clear search, got %q", m.criteria.SearchText)
	}
	if got := len(m.filtered[domain.StatusToDo]); got != 2 {
		t.Fatalf("expected full column after clear, got %d", got)
	}
}

func TestModelStatusFilterCycles(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := &fakeService{tickets: []domain.Ticket{tuiTicket(t, "1", "Printer jam", "To Do", created, nil)}}
	m := newLoadedModel(t, svc)

	m = applyMsg(t, m, keyRune('s'))
	if m.criteria.Status == nil || *m.criteria.Status != domain.StatusToDo {
		t.Fatalf("expected first cycle to select todo, got %v", m.criteria.Status)
	}
	for i := 0; i < 4; i++ {
		m = applyMsg(t, m, keyRune('s'))
	}
	if m.criteria.Status != nil {
		t.Fatalf("expected filter off after full cycle, got %v", *m.criteria.Status)
	}
}

func TestModelDatePromptRejectsInvertedRange(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := &fakeService{tickets: []domain.Ticket{tuiTicket(t, "1", "Printer jam", "To Do", created, nil)}}
	clock := func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	m := newLoadedModel(t, svc, WithClock(clock))

	m = applyMsg(t, m, keyRune('['))
	for _, r := range "2026-03-01" {
		m = applyMsg(t, m, keyRune(r))
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.criteria.StartDate == nil {
		t.Fatal("expected start date applied")
	}

	m = applyMsg(t, m, keyRune(']'))
	for _, r := range "2026-02-01" {
		m = applyMsg(t, m, keyRune(r))
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.criteria.EndDate != nil {
		t.Fatalf("expected inverted end date rejected, got %v", m.criteria.EndDate)
	}
	if !strings.Contains(m.status, "start date") {
		t.Fatalf("expected ordering warning, got %q", m.status)
	}
}

func TestModelEditFormSavesTicket(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := &fakeService{
		tickets: []domain.Ticket{tuiTicket(t, "1", "Printer jam", "To Do", created, nil)},
		staff:   []domain.StaffMember{{ID: "s1", FirstName: "Jane", LastName: "Doe"}},
	}
	m := newLoadedModel(t, svc)

	m = applyMsg(t, m, keyRune('e'))
	if m.mode != modeEditTicket {
		t.Fatalf("expected edit mode, got %v", m.mode)
	}
	// Cycle status to Done and assign Jane.
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = applyMsg(t, m, keyRune('j'))
	m = applyMsg(t, m, keyRune('j'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = applyMsg(t, m, keyRune('j'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if len(svc.updates) != 1 {
		t.Fatalf("expected one update call, got %d", len(svc.updates))
	}
	update := svc.updates[0]
	if update.Status != domain.StatusDone || update.StaffID != "s1" {
		t.Fatalf("unexpected update %#v", update)
	}
	if update.DateFinished == nil {
		t.Fatal("expected DateFinished stamped for terminal status")
	}
}

func TestModelEditFormRejectsEmptyIssue(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := &fakeService{tickets: []domain.Ticket{tuiTicket(t, "1", "Fix", "To Do", created, nil)}}
	m := newLoadedModel(t, svc)

	m = applyMsg(t, m, keyRune('e'))
	for i := 0; i < len("Fix"); i++ {
		m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyBackspace})
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if len(svc.updates) != 0 {
		t.Fatalf("expected no backend call on validation failure, got %d", len(svc.updates))
	}
	if m.mode != modeEditTicket {
		t.Fatalf("expected to stay in edit mode, got %v", m.mode)
	}
}

func TestModelResetFilters(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := &fakeService{tickets: []domain.Ticket{tuiTicket(t, "1", "Printer jam", "To Do", created, nil)}}
	m := newLoadedModel(t, svc)

	m = applyMsg(t, m, keyRune('s'))
	m = applyMsg(t, m, keyRune('R'))
	if m.criteria.Status != nil || m.criteria.SearchText != "" {
		t.Fatalf("expected criteria cleared, got %#v", m.criteria)
	}
}

func TestModelQuitKey(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := &fakeService{tickets: []domain.Ticket{tuiTicket(t, "1", "Printer jam", "To Do", created, nil)}}
	m := newLoadedModel(t, svc)

	updated, cmd := m.Update(keyRune('q'))
	if _, ok := updated.(Model); !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}
