package app

import "errors"

var (
	ErrTransitionFailed = errors.New("status update failed, change reverted")
	ErrIssueRequired    = errors.New("issue is required")
	ErrStatusRequired   = errors.New("status is required")
	ErrInvalidUsername  = errors.New("username must be alphanumeric")
	ErrPasswordRequired = errors.New("password is required")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrStaffNumber      = errors.New("staff number is required")
	ErrNameRequired     = errors.New("first and last name are required")
	ErrOTPRequired      = errors.New("otp is required")
)
