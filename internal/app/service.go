package app

import (
	"context"

	"github.com/misops/tickboard/internal/domain"
)

// Console bundles the backend services the board consumes into one surface.
type Console struct {
	tickets TicketAPI
	staff   StaffAPI
}

// NewConsole constructs the console service over the backend ports.
func NewConsole(tickets TicketAPI, staff StaffAPI) *Console {
	return &Console{tickets: tickets, staff: staff}
}

// ListTickets fetches every ticket visible to the signed-in user.
func (c *Console) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	return c.tickets.List(ctx)
}

// ListStaff fetches the assignable staff directory.
func (c *Console) ListStaff(ctx context.Context) ([]domain.StaffMember, error) {
	return c.staff.List(ctx)
}

// UpdateStatus persists one status change.
func (c *Console) UpdateStatus(ctx context.Context, ticketID string, to domain.Status) error {
	return c.tickets.UpdateStatus(ctx, ticketID, to)
}

// UpdateTicket persists a full ticket edit.
func (c *Console) UpdateTicket(ctx context.Context, update TicketUpdate) error {
	return c.tickets.Update(ctx, update)
}
