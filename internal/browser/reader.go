// Package browser shows a repository page in the terminal and hands URLs to
// the system browser.
package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/artpar/gitfav/internal/core"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxPageBytes caps how much of a page is read.
const maxPageBytes = 4 << 20

// Page is the readable text of a fetched page.
type Page struct {
	URL   string
	Title string
	Lines []string
}

// Reader fetches pages and extracts their text.
type Reader struct {
	httpClient *http.Client
	userAgent  string
}

// Option configures a Reader.
type Option func(*Reader)

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Reader) {
		r.httpClient.Timeout = timeout
	}
}

// WithTransport sets a custom HTTP transport.
func WithTransport(transport http.RoundTripper) Option {
	return func(r *Reader) {
		r.httpClient.Transport = transport
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(r *Reader) {
		if ua != "" {
			r.userAgent = ua
		}
	}
}

// NewReader creates a page reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		httpClient: &http.Client{},
		userAgent:  "gitfav",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fetch downloads url and extracts its readable text.
func (r *Reader) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, core.NewNetworkError(http.MethodGet, url, 0, err)
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, core.NewNetworkError(http.MethodGet, url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, core.NewNetworkError(http.MethodGet, url, resp.StatusCode, nil)
	}

	title, lines, err := Extract(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, core.NewNetworkError(http.MethodGet, url, 0, err)
	}
	return &Page{URL: url, Title: title, Lines: lines}, nil
}

// skipped elements never contribute text.
var skipped = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true,
	atom.Svg: true, atom.Nav: true, atom.Header: true,
	atom.Footer: true, atom.Template: true, atom.Button: true,
}

// blocks start and end a line.
var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Article: true, atom.Section: true,
	atom.Ul: true, atom.Ol: true, atom.Li: true, atom.Pre: true,
	atom.Table: true, atom.Tr: true, atom.Blockquote: true, atom.Br: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Hr: true, atom.Main: true,
}

// Extract parses an HTML document and returns its title and the text of
// its main content, one paragraph per line. An <article> element is
// preferred over <body>.
func Extract(r io.Reader) (string, []string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse html: %w", err)
	}

	title := ""
	if n := find(doc, atom.Title); n != nil {
		title = collapse(textOf(n))
	}

	root := find(doc, atom.Article)
	if root == nil {
		root = find(doc, atom.Body)
	}
	if root == nil {
		return title, nil, nil
	}

	w := &textWriter{}
	w.walk(root, false)
	w.flush(false)
	return title, w.lines, nil
}

type textWriter struct {
	lines  []string
	buf    strings.Builder
	prefix string
}

func (w *textWriter) walk(n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			parts := strings.Split(n.Data, "\n")
			for i, part := range parts {
				if i > 0 {
					w.flush(true)
				}
				w.buf.WriteString(part)
			}
			return
		}
		w.buf.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipped[n.DataAtom] {
			return
		}
	}

	block := n.Type == html.ElementNode && blocks[n.DataAtom]
	if block {
		w.flush(pre)
		switch n.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			w.prefix = strings.Repeat("#", int(n.Data[1]-'0')) + " "
		case atom.Li:
			w.prefix = "• "
		case atom.Pre:
			pre = true
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, pre)
	}

	if block {
		w.flush(pre)
	}
}

// flush ends the current line, dropping it if it has no text. Raw lines
// keep their indentation.
func (w *textWriter) flush(raw bool) {
	line := collapse(w.buf.String())
	if raw && line != "" {
		line = strings.TrimRight(w.buf.String(), " \t\r")
	}
	w.buf.Reset()
	if line == "" {
		return
	}
	w.lines = append(w.lines, w.prefix+line)
	w.prefix = ""
}

func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, a); found != nil {
			return found
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
