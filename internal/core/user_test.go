package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookmarkedUser_DisplayName(t *testing.T) {
	assert.Equal(t, "The Octocat", BookmarkedUser{Login: "octocat", Name: "The Octocat"}.DisplayName())
	assert.Equal(t, "octocat", BookmarkedUser{Login: "octocat"}.DisplayName())
	assert.Equal(t, "octocat", BookmarkedUser{Login: "octocat", Name: "  "}.DisplayName())
}

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		login   string
		wantErr bool
	}{
		{"octocat", false},
		{"some-user", false},
		{"", true},
		{"   ", true},
		{"a/b", true},
		{"a?page=2", true},
		{"two words", true},
	}

	for _, tt := range tests {
		t.Run(tt.login, func(t *testing.T) {
			err := ValidateLogin(tt.login)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStarredRepository_Title(t *testing.T) {
	assert.Equal(t, "octocat/hello", StarredRepository{Name: "hello", FullName: "octocat/hello"}.Title())
	assert.Equal(t, "octocat/hello", StarredRepository{Name: "hello", Owner: Owner{Login: "octocat"}}.Title())
	assert.Equal(t, "hello", StarredRepository{Name: "hello"}.Title())
}

func TestNewRepositoryViewRequest(t *testing.T) {
	req := NewRepositoryViewRequest(StarredRepository{Name: "hello", HTMLURL: "https://github.com/octocat/hello"})
	assert.Equal(t, "https://github.com/octocat/hello", req.URL)
	assert.Equal(t, "hello", req.Title)
}
