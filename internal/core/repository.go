package core

// Owner is the account that owns a starred repository.
type Owner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// StarredRepository is a repository a user has starred. It is held only in
// memory for the lifetime of a profile view and never persisted.
type StarredRepository struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
	Owner   Owner  `json:"owner"`

	// Display-only fields, present in the API payload.
	FullName    string `json:"full_name,omitempty"`
	Description string `json:"description,omitempty"`
	Stars       int    `json:"stargazers_count,omitempty"`
	Language    string `json:"language,omitempty"`
}

// Title returns owner/name when the full name is missing.
func (r StarredRepository) Title() string {
	if r.FullName != "" {
		return r.FullName
	}
	if r.Owner.Login != "" {
		return r.Owner.Login + "/" + r.Name
	}
	return r.Name
}
