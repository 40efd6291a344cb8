package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/misops/tickboard/internal/app"
	"github.com/misops/tickboard/internal/session"
)

// AccountClient implements app.AccountAPI against the user service.
type AccountClient struct {
	transport
	service string
}

// NewAccountClient constructs an account service client. Registration and
// OTP verification run before a session exists, so creds may be nil.
func NewAccountClient(cfg Config, creds session.CredentialProvider) *AccountClient {
	return &AccountClient{transport: newTransport(cfg, creds), service: cfg.UserService}
}

type wireRegistration struct {
	User     wireUser      `json:"user"`
	MisStaff wireStaffInfo `json:"misStaff"`
}

type wireUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type wireStaffInfo struct {
	Email          string `json:"email"`
	MisStaffNumber string `json:"misStaffNumber"`
	FirstName      string `json:"firstName"`
	MiddleName     string `json:"middleName"`
	LastName       string `json:"lastName"`
	ContactNumber  string `json:"contactNumber"`
	Address        string `json:"address"`
	Birthdate      string `json:"birthdate"`
}

// Register submits a validated staff registration.
func (c *AccountClient) Register(ctx context.Context, reg app.Registration) error {
	payload := wireRegistration{
		User: wireUser{Username: reg.Username, Password: reg.Password},
		MisStaff: wireStaffInfo{
			Email:          reg.Email,
			MisStaffNumber: reg.StaffNumber,
			FirstName:      reg.FirstName,
			MiddleName:     reg.MiddleName,
			LastName:       reg.LastName,
			ContactNumber:  reg.ContactNumber,
			Address:        reg.Address,
			Birthdate:      reg.Birthdate,
		},
	}
	if _, err := c.do(ctx, http.MethodPost, c.service+"/register", payload); err != nil {
		return fmt.Errorf("register account: %w", err)
	}
	return nil
}

// VerifyOTP submits the one-time verification code.
func (c *AccountClient) VerifyOTP(ctx context.Context, username, otp string) error {
	payload := map[string]string{"otp": otp, "username": username}
	if _, err := c.do(ctx, http.MethodPost, c.service+"/verify-otp", payload); err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	return nil
}
