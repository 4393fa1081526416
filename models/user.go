package models

import "time"

// RemoteProfile matches one entry of the profile service's change feed.
type RemoteProfile struct {
	ExternalID        string    `json:"external_id"`
	Username          string    `json:"username"`
	FirstName         *string   `json:"first_name,omitempty"`
	LastName          *string   `json:"last_name,omitempty"`
	ProfilePictureURL *string   `json:"profile_picture_url,omitempty"`
	AccountStatus     string    `json:"account_status"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DisplayName prefers "First Last" and falls back to the username.
func (r RemoteProfile) DisplayName() string {
	var first, last string
	if r.FirstName != nil {
		first = *r.FirstName
	}
	if r.LastName != nil {
		last = *r.LastName
	}
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return r.Username
	}
}

// ProfileChanges is the top-level change feed response.
type ProfileChanges struct {
	Users []RemoteProfile `json:"users"`
}
