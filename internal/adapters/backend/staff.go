package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/misops/tickboard/internal/domain"
	"github.com/misops/tickboard/internal/session"
)

// StaffClient implements app.StaffAPI against the staff directory service.
type StaffClient struct {
	transport
	service string
}

// NewStaffClient constructs a staff service client.
func NewStaffClient(cfg Config, creds session.CredentialProvider) *StaffClient {
	return &StaffClient{transport: newTransport(cfg, creds), service: cfg.StaffService}
}

type rawStaff struct {
	ID        json.Number `json:"id"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
}

func (r rawStaff) toDomain() domain.StaffMember {
	return domain.StaffMember{
		ID:        r.ID.String(),
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

// List fetches the staff directory for assignee selection. Callers degrade
// gracefully on failure; the board works without the directory.
func (c *StaffClient) List(ctx context.Context) ([]domain.StaffMember, error) {
	raw, err := c.do(ctx, http.MethodGet, c.service+"/staff", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch staff directory: %w", err)
	}

	var records []rawStaff
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("fetch staff directory: %w: %v", ErrBadPayload, err)
	}

	members := make([]domain.StaffMember, 0, len(records))
	for _, record := range records {
		members = append(members, record.toDomain())
	}
	return members, nil
}
