// Package playgist loads playground scripts shared as GitHub gists.
package playgist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"cdr.dev/slog"
	"github.com/google/go-github/github"

	"oss.terrastruct.com/util-go/xdefer"

	"oss.terrastruct.com/playkit/lib/log"
	"oss.terrastruct.com/playkit/lib/urlenc"
)

const DefaultAPIURL = "https://api.github.com/"

// Identifier names a file in a gist. It's written <gist id>[:<file index>].
type Identifier struct {
	GistID    string
	FileIndex int
}

// ParseIdentifier never fails. A missing or non numeric file index selects the first file.
// Anything after a second ':' is ignored.
func ParseIdentifier(s string) Identifier {
	parts := strings.Split(s, ":")
	id := Identifier{
		GistID: strings.TrimSpace(parts[0]),
	}
	if len(parts) > 1 {
		n, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err == nil {
			id.FileIndex = n
		}
	}
	return id
}

func (id Identifier) String() string {
	return id.GistID + ":" + strconv.Itoa(id.FileIndex)
}

// Gist is the subset of the gist API response playgist cares about.
type Gist struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	HTMLURL     string `json:"html_url"`
	// Files are in the order the API listed them.
	Files Files `json:"files"`
}

type File struct {
	Filename  string `json:"filename"`
	Language  string `json:"language"`
	RawURL    string `json:"raw_url"`
	Size      int    `json:"size"`
	Truncated bool   `json:"truncated"`
	Content   string `json:"content"`
}

// Files decodes the files object of a gist into a slice that keeps the key order
// of the JSON document.
type Files []File

func (fs *Files) UnmarshalJSON(b []byte) (err error) {
	defer xdefer.Errorf(&err, "failed to unmarshal gist files")

	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*fs = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object but got %v", tok)
	}

	files := Files{}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		name := tok.(string)

		var f File
		err = dec.Decode(&f)
		if err != nil {
			return fmt.Errorf("file %q: %w", name, err)
		}
		if f.Filename == "" {
			f.Filename = name
		}
		files = append(files, f)
	}
	_, err = dec.Token()
	if err != nil {
		return err
	}
	*fs = files
	return nil
}

// Client fetches gists through the GitHub REST API.
type Client struct {
	gh *github.Client
}

// NewClient returns a Client using hc (http.DefaultClient if nil) against apiURL
// (DefaultAPIURL if empty).
func NewClient(hc *http.Client, apiURL string) (*Client, error) {
	gh := github.NewClient(hc)
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", apiURL, err)
	}
	gh.BaseURL = u
	return &Client{gh: gh}, nil
}

// Fetch retrieves the gist with id.
//
// A gist that does not exist, or a response without a files object, results in a
// *NotFoundError for ResourceGist.
func (c *Client) Fetch(ctx context.Context, id string) (_ *Gist, err error) {
	defer xdefer.Errorf(&err, "failed to fetch gist %q", id)

	if id == "" {
		return nil, &NotFoundError{Resource: ResourceGist}
	}

	req, err := c.gh.NewRequest(http.MethodGet, "gists/"+urlenc.Encode(id), nil)
	if err != nil {
		return nil, err
	}

	log.Debug(ctx, "fetching gist", slog.F("url", req.URL.String()))

	var g Gist
	_, err = c.gh.Do(ctx, req, &g)
	if err != nil {
		var rerr *github.ErrorResponse
		if errors.As(err, &rerr) && rerr.Response != nil && rerr.Response.StatusCode == http.StatusNotFound {
			return nil, &NotFoundError{Resource: ResourceGist, GistID: id}
		}
		return nil, err
	}
	if g.Files == nil {
		return nil, &NotFoundError{Resource: ResourceGist, GistID: id}
	}
	if g.ID == "" {
		g.ID = id
	}
	return &g, nil
}

// File returns the file at index i.
func (g *Gist) File(i int) (File, error) {
	if i < 0 || i >= len(g.Files) {
		return File{}, &NotFoundError{Resource: ResourceFile, GistID: g.ID, FileIndex: i}
	}
	return g.Files[i], nil
}

// Load fetches the gist named by identifier, selects the file and returns its
// code with any ```hack fence stripped.
func (c *Client) Load(ctx context.Context, identifier string) (_ string, err error) {
	defer xdefer.Errorf(&err, "failed to load %q", identifier)

	id := ParseIdentifier(identifier)
	g, err := c.Fetch(ctx, id.GistID)
	if err != nil {
		return "", err
	}
	f, err := g.File(id.FileIndex)
	if err != nil {
		return "", err
	}
	if f.Truncated {
		log.Warn(ctx, "gist file content is truncated", slog.F("filename", f.Filename), slog.F("size", f.Size))
	}
	log.Debug(ctx, "loaded gist file", slog.F("gist", id.String()), slog.F("filename", f.Filename))

	return StripFence(f.Content), nil
}
