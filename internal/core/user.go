package core

import (
	"errors"
	"strings"
)

// BookmarkedUser is a locally saved reference to a GitHub user profile.
// The JSON shape is the persisted form stored under the "users" key.
type BookmarkedUser struct {
	Login     string `json:"login" yaml:"login"`
	Name      string `json:"name" yaml:"name"`
	Bio       string `json:"bio,omitempty" yaml:"bio,omitempty"`
	AvatarURL string `json:"avatar" yaml:"avatar"`
}

// DisplayName returns the user's name, falling back to the login.
func (u BookmarkedUser) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Login
}

// ValidateLogin checks that a login is usable as a single path segment.
func ValidateLogin(login string) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return errors.New("login cannot be empty")
	}
	if strings.ContainsAny(login, "/?# \t") {
		return errors.New("login contains invalid characters")
	}
	return nil
}
