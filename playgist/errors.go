package playgist

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every *NotFoundError with errors.Is.
var ErrNotFound = errors.New("not found")

// Resource identifies what could not be found.
type Resource int

const (
	ResourceGist Resource = iota
	ResourceFile
)

func (r Resource) String() string {
	switch r {
	case ResourceGist:
		return "gist"
	case ResourceFile:
		return "file"
	default:
		return fmt.Sprintf("Resource(%d)", int(r))
	}
}

// NotFoundError is returned when a gist does not exist or has no file at the
// requested index.
type NotFoundError struct {
	Resource  Resource
	GistID    string
	FileIndex int
}

func (e *NotFoundError) Error() string {
	if e.Resource == ResourceFile {
		return fmt.Sprintf("file #%d not found", e.FileIndex)
	}
	return fmt.Sprintf("gist %q not found", e.GistID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
