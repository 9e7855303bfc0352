package core

// UserDetailRequest is passed when navigating from the bookmark list to a
// user's profile screen.
type UserDetailRequest struct {
	User BookmarkedUser
}

// RepositoryViewRequest is passed when navigating from a starred repository
// to the repository viewer.
type RepositoryViewRequest struct {
	URL   string
	Title string
}

// NewRepositoryViewRequest builds the viewer parameters for a repository.
func NewRepositoryViewRequest(repo StarredRepository) RepositoryViewRequest {
	return RepositoryViewRequest{
		URL:   repo.HTMLURL,
		Title: repo.Name,
	}
}
