package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	emailPattern    = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
)

// Registration carries a new staff account request.
type Registration struct {
	Username      string
	Password      string
	Email         string
	StaffNumber   string
	FirstName     string
	MiddleName    string
	LastName      string
	ContactNumber string
	Address       string
	Birthdate     string
}

// Validate applies the local field rules. Failures are surfaced inline and
// never sent to the backend.
func (r Registration) Validate() error {
	if !usernamePattern.MatchString(strings.TrimSpace(r.Username)) {
		return ErrInvalidUsername
	}
	if r.Password == "" {
		return ErrPasswordRequired
	}
	if !emailPattern.MatchString(strings.TrimSpace(r.Email)) {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(r.StaffNumber) == "" {
		return ErrStaffNumber
	}
	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return ErrNameRequired
	}
	return nil
}

// Registrar runs the staff registration and OTP verification flows.
type Registrar struct {
	accounts AccountAPI
}

// NewRegistrar constructs a registrar over the account service port.
func NewRegistrar(accounts AccountAPI) *Registrar {
	return &Registrar{accounts: accounts}
}

// RegisterStaff validates locally, then submits the registration.
func (r *Registrar) RegisterStaff(ctx context.Context, reg Registration) error {
	if err := reg.Validate(); err != nil {
		return err
	}
	if err := r.accounts.Register(ctx, reg); err != nil {
		return fmt.Errorf("register staff account: %w", err)
	}
	return nil
}

// VerifyOTP submits the one-time code for a newly registered account.
func (r *Registrar) VerifyOTP(ctx context.Context, username, otp string) error {
	if strings.TrimSpace(otp) == "" {
		return ErrOTPRequired
	}
	if err := r.accounts.VerifyOTP(ctx, strings.TrimSpace(username), strings.TrimSpace(otp)); err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	return nil
}
