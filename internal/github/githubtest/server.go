// Package githubtest provides an in-process stand-in for the GitHub REST
// endpoints gitfav uses.
package githubtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/artpar/gitfav/internal/core"
)

// Server wraps httptest.Server with canned users and starred pages.
type Server struct {
	*httptest.Server
	mu       sync.Mutex
	users    map[string]core.BookmarkedUser
	stars    map[string][][]core.StarredRepository
	failures map[string]int
	requests []*RecordedRequest
}

// RecordedRequest stores request details for verification.
type RecordedRequest struct {
	Method    string
	Path      string
	RawQuery  string
	UserAgent string
	Accept    string
	Time      time.Time
}

// New starts a server with no users.
func New() *Server {
	s := &Server{
		users:    make(map[string]core.BookmarkedUser),
		stars:    make(map[string][][]core.StarredRepository),
		failures: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/{login}", s.record(s.handleUser))
	mux.HandleFunc("GET /users/{login}/starred", s.record(s.handleStarred))

	s.Server = httptest.NewServer(mux)
	return s
}

// BaseURL returns the API root with a trailing slash.
func (s *Server) BaseURL() string {
	return s.Server.URL + "/"
}

// AddUser registers a profile.
func (s *Server) AddUser(user core.BookmarkedUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.ToLower(user.Login)] = user
}

// SetStarred sets the starred pages for login. Page n (1-based) returns
// pages[n-1]; pages past the end are empty.
func (s *Server) SetStarred(login string, pages ...[]core.StarredRepository) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stars[strings.ToLower(login)] = pages
}

// FailNext makes the next request to path answer with status.
func (s *Server) FailNext(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = status
}

// Requests returns all recorded requests.
func (s *Server) Requests() []*RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*RecordedRequest, len(s.requests))
	copy(result, s.requests)
	return result
}

// RequestCount returns the number of recorded requests.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *Server) record(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, &RecordedRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			RawQuery:  r.URL.RawQuery,
			UserAgent: r.UserAgent(),
			Accept:    r.Header.Get("Accept"),
			Time:      time.Now(),
		})
		status, fail := s.failures[r.URL.Path]
		delete(s.failures, r.URL.Path)
		s.mu.Unlock()

		if fail {
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
			return
		}
		h(w, r)
	}
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	login := r.PathValue("login")

	s.mu.Lock()
	user, ok := s.users[strings.ToLower(login)]
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"login":      user.Login,
		"name":       nullable(user.Name),
		"bio":        nullable(user.Bio),
		"avatar_url": user.AvatarURL,
	})
}

func (s *Server) handleStarred(w http.ResponseWriter, r *http.Request) {
	login := r.PathValue("login")

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad page"})
			return
		}
		page = n
	}

	s.mu.Lock()
	pages, ok := s.stars[strings.ToLower(login)]
	_, known := s.users[strings.ToLower(login)]
	s.mu.Unlock()

	if !ok && !known {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}

	// the star media type wraps each repository with its starred_at time
	wrapped := strings.Contains(r.Header.Get("Accept"), "star+json")

	items := []map[string]any{}
	if page <= len(pages) {
		for _, repo := range pages[page-1] {
			item := map[string]any{
				"id":               repo.ID,
				"name":             repo.Name,
				"full_name":        repo.FullName,
				"html_url":         repo.HTMLURL,
				"description":      nullable(repo.Description),
				"stargazers_count": repo.Stars,
				"language":         nullable(repo.Language),
				"owner": map[string]any{
					"login":      repo.Owner.Login,
					"avatar_url": repo.Owner.AvatarURL,
				},
			}
			if wrapped {
				item = map[string]any{"starred_at": "2024-01-02T03:04:05Z", "repo": item}
			}
			items = append(items, item)
		}
	}
	writeJSON(w, http.StatusOK, items)
}

// Repo builds a starred repository fixture.
func Repo(id int64, owner, name string) core.StarredRepository {
	return core.StarredRepository{
		ID:       id,
		Name:     name,
		FullName: owner + "/" + name,
		HTMLURL:  fmt.Sprintf("https://github.com/%s/%s", owner, name),
		Owner: core.Owner{
			Login:     owner,
			AvatarURL: "https://avatars.example/" + owner,
		},
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}
