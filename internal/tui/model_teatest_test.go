package tui

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/exp/teatest/v2"

	"github.com/misops/tickboard/internal/domain"
)

// TestModelWithTeatest drives the board through a real program loop.
func TestModelWithTeatest(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := &fakeService{
		tickets: []domain.Ticket{
			tuiTicket(t, "1", "Printer jam", "To Do", created, nil),
			tuiTicket(t, "2", "VPN down", "In Progress", created, nil),
		},
	}

	m := NewModel(svc)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 35))
	t.Cleanup(func() {
		_ = tm.Quit()
	})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return strings.Contains(string(out), "Printer jam")
	}, teatest.WithDuration(2*time.Second), teatest.WithCheckInterval(10*time.Millisecond))

	tm.Send(tea.KeyPressMsg{Code: 'q', Text: "q"})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}

// TestModelWithTeatestEmptyColumnPlaceholder renders the empty-column label.
func TestModelWithTeatestEmptyColumnPlaceholder(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := &fakeService{
		tickets: []domain.Ticket{tuiTicket(t, "1", "Printer jam", "To Do", created, nil)},
	}

	m := NewModel(svc)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 35))
	t.Cleanup(func() {
		_ = tm.Quit()
	})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return strings.Contains(string(out), "No tickets available.")
	}, teatest.WithDuration(2*time.Second), teatest.WithCheckInterval(10*time.Millisecond))

	tm.Send(tea.KeyPressMsg{Code: 'q', Text: "q"})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}
