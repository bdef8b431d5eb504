package user

import (
	"errors"
	"strings"
)

type User struct {
	ID   string `json:"user_id"`
	Name string `json:"user_name"`
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user ID is required")
	}
	if strings.ContainsAny(u.ID, "\r\n") {
		return errors.New("user ID must be a single line")
	}
	return nil
}

// DisplayName falls back to the ID when no name was given.
func (u User) DisplayName() string {
	if u.Name == "" {
		return u.ID
	}
	return u.Name
}
