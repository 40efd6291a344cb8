package board

import (
	"errors"
	"strings"
	"time"

	"github.com/misops/tickboard/internal/domain"
)

// Criteria validation errors, surfaced to the user as inline warnings. The
// previously accepted value is always retained on rejection.
var (
	ErrDateOrder  = errors.New("start date cannot be later than end date")
	ErrFutureYear = errors.New("date exceeds the current year")
)

// Criteria holds the compound ticket filter. The zero value passes every
// ticket. Dates go through SetStartDate/SetEndDate so an invalid range can
// never be held.
type Criteria struct {
	SearchText string
	StartDate  *time.Time
	EndDate    *time.Time
	Status     *domain.Status
}

// SetStartDate validates and applies a new lower date bound.
func (c *Criteria) SetStartDate(date, now time.Time) error {
	if date.Year() > now.Year() {
		return ErrFutureYear
	}
	if c.EndDate != nil && date.After(*c.EndDate) {
		return ErrDateOrder
	}
	d := date
	c.StartDate = &d
	return nil
}

// SetEndDate validates and applies a new upper date bound.
func (c *Criteria) SetEndDate(date, now time.Time) error {
	if date.Year() > now.Year() {
		return ErrFutureYear
	}
	if c.StartDate != nil && date.Before(*c.StartDate) {
		return ErrDateOrder
	}
	d := date
	c.EndDate = &d
	return nil
}

// SetStatus restricts the filter to one column.
func (c *Criteria) SetStatus(status domain.Status) {
	s := status
	c.Status = &s
}

// Reset clears all criteria.
func (c *Criteria) Reset() {
	*c = Criteria{}
}

// Matches reports whether a single ticket passes every criterion.
func (c Criteria) Matches(ticket domain.Ticket) bool {
	if c.Status != nil && ticket.Status != *c.Status {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(c.SearchText)); search != "" {
		assignee := strings.ToLower(ticket.AssigneeName())
		issue := strings.ToLower(ticket.Issue)
		if !strings.Contains(assignee, search) && !strings.Contains(issue, search) {
			return false
		}
	}
	if c.StartDate != nil && ticket.DateCreated.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && ticket.DateCreated.After(*c.EndDate) {
		return false
	}
	return true
}

// Apply filters a ticket sequence. It is pure: input order is preserved
// (stable, no re-sort), the input slice is never mutated, and re-applying
// the same criteria to its own output yields the same result.
func Apply(tickets []domain.Ticket, c Criteria) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if c.Matches(ticket) {
			out = append(out, ticket)
		}
	}
	return out
}
