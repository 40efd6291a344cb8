package domain

import "strings"

// StaffMember is one entry from the MIS staff directory.
type StaffMember struct {
	ID        string
	FirstName string
	LastName  string
}

// DisplayName returns the name shown for assignment, "First Last".
func (s StaffMember) DisplayName() string {
	name := strings.TrimSpace(s.FirstName + " " + s.LastName)
	if name == "" {
		return s.ID
	}
	return name
}
