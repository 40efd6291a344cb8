package domain

import "errors"

var (
	ErrInvalidID     = errors.New("invalid id")
	ErrInvalidIssue  = errors.New("invalid issue")
	ErrInvalidColumn = errors.New("invalid column key")
)
