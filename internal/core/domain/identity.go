package domain

import "strings"

// Identity models the authenticated principal of the dashboard session.
// The JSON layout is the persisted record: three strings, no version tag.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	Email       string `json:"email"`
}

// Validate returns ErrIncompleteIdentity when any field is empty or blank.
func (i Identity) Validate() error {
	switch {
	case strings.TrimSpace(i.ID) == "":
		return ErrIncompleteIdentity
	case strings.TrimSpace(i.DisplayName) == "":
		return ErrIncompleteIdentity
	case strings.TrimSpace(i.Email) == "":
		return ErrIncompleteIdentity
	}
	return nil
}

// DisplayNameFromEmail returns the local part of email: everything before the
// first '@', or the whole string when there is none.
func DisplayNameFromEmail(email string) string {
	if at := strings.IndexByte(email, '@'); at >= 0 {
		return email[:at]
	}
	return email
}
