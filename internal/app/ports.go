package app

import (
	"context"

	"github.com/misops/tickboard/internal/domain"
)

// TicketAPI is the backend ticket service as consumed by this client.
type TicketAPI interface {
	List(context.Context) ([]domain.Ticket, error)
	UpdateStatus(context.Context, string, domain.Status) error
	Update(context.Context, TicketUpdate) error
}

// StaffAPI is the backend staff directory service.
type StaffAPI interface {
	List(context.Context) ([]domain.StaffMember, error)
}

// AccountAPI is the backend registration/OTP service.
type AccountAPI interface {
	Register(context.Context, Registration) error
	VerifyOTP(context.Context, string, string) error
}

// StatusUpdater is the slice of TicketAPI the transition controller needs.
type StatusUpdater interface {
	UpdateStatus(context.Context, string, domain.Status) error
}
