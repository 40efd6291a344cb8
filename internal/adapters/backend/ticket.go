package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/misops/tickboard/internal/app"
	"github.com/misops/tickboard/internal/domain"
	"github.com/misops/tickboard/internal/session"
)

// TicketClient implements app.TicketAPI against the ticket service.
type TicketClient struct {
	transport
	service string
}

// NewTicketClient constructs a ticket service client.
func NewTicketClient(cfg Config, creds session.CredentialProvider) *TicketClient {
	return &TicketClient{transport: newTransport(cfg, creds), service: cfg.TicketService}
}

// rawTicket is the ticket service wire shape. IDs arrive as numbers or
// strings depending on the backend build, and the status is free text.
type rawTicket struct {
	ID           json.Number `json:"id"`
	TicketID     json.Number `json:"ticketId"`
	Issue        string      `json:"issue"`
	Status       string      `json:"status"`
	DateCreated  string      `json:"dateCreated"`
	DateFinished string      `json:"dateFinished"`
	MisStaff     *rawStaff   `json:"misStaff"`
	Reporter     string      `json:"reporter"`
}

// List fetches all tickets. A non-array or otherwise malformed body is a
// recoverable fetch failure reported as ErrBadPayload.
func (c *TicketClient) List(ctx context.Context) ([]domain.Ticket, error) {
	raw, err := c.do(ctx, http.MethodGet, c.service+"/tickets", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch tickets: %w", err)
	}

	var records []rawTicket
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("fetch tickets: %w: %v", ErrBadPayload, err)
	}

	tickets := make([]domain.Ticket, 0, len(records))
	for i, record := range records {
		ticket, err := record.toDomain()
		if err != nil {
			return nil, fmt.Errorf("fetch tickets: record %d: %w: %v", i, ErrBadPayload, err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

// UpdateStatus confirms one status transition. Any 2xx is success; the
// response body may be JSON or plain text and neither shape fails the call.
func (c *TicketClient) UpdateStatus(ctx context.Context, ticketID string, status domain.Status) error {
	payload := map[string]string{"status": status.WireLabel()}
	if _, err := c.do(ctx, http.MethodPut, c.service+"/updateStatus/"+ticketID, payload); err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	return nil
}

// wireTicketUpdate is the full-record update payload.
type wireTicketUpdate struct {
	TicketID     string        `json:"ticketId"`
	Issue        string        `json:"issue"`
	Status       string        `json:"status"`
	MisStaff     *wireStaffRef `json:"misStaff,omitempty"`
	DateFinished *string       `json:"dateFinished,omitempty"`
}

type wireStaffRef struct {
	StaffID string `json:"staffId"`
}

// Update sends a full-record ticket update. Field presence was validated by
// the caller; this adapter only shapes the wire payload.
func (c *TicketClient) Update(ctx context.Context, update app.TicketUpdate) error {
	payload := wireTicketUpdate{
		TicketID: update.TicketID,
		Issue:    update.Issue,
		Status:   update.Status.WireLabel(),
	}
	if update.StaffID != "" {
		payload.MisStaff = &wireStaffRef{StaffID: update.StaffID}
	}
	if update.DateFinished != nil {
		finished := update.DateFinished.UTC().Format(time.RFC3339)
		payload.DateFinished = &finished
	}

	if _, err := c.do(ctx, http.MethodPut, c.service+"/ticket/update/"+update.TicketID, payload); err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	return nil
}

func (r rawTicket) toDomain() (domain.Ticket, error) {
	id := r.ID.String()
	if id == "" {
		id = r.TicketID.String()
	}

	created, err := parseWireTime(r.DateCreated)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("dateCreated: %w", err)
	}

	var finished *time.Time
	if r.DateFinished != "" {
		ts, err := parseWireTime(r.DateFinished)
		if err != nil {
			return domain.Ticket{}, fmt.Errorf("dateFinished: %w", err)
		}
		finished = &ts
	}

	var assignee *domain.StaffMember
	if r.MisStaff != nil {
		member := r.MisStaff.toDomain()
		assignee = &member
	}

	return domain.NewTicket(domain.TicketInput{
		ID:           id,
		Issue:        r.Issue,
		Status:       r.Status,
		Assignee:     assignee,
		DateCreated:  created,
		DateFinished: finished,
		Reporter:     r.Reporter,
	})
}

// wireTimeFormats lists the timestamp shapes the ticket service emits.
var wireTimeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseWireTime(value string) (time.Time, error) {
	for _, format := range wireTimeFormats {
		if ts, err := time.Parse(format, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}
