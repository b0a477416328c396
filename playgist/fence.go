package playgist

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Scripts are often pasted into gists inside a markdown fence so that GitHub
// highlights them. hack is the closest language GitHub knows.
const (
	fenceOpen  = "```hack"
	fenceClose = "```"
)

var markdown = goldmark.New()

// StripFence returns the body of content when it starts with a ```hack fence and
// content unchanged otherwise.
func StripFence(content string) string {
	if !strings.HasPrefix(content, fenceOpen) {
		return content
	}
	content = strings.TrimSpace(content)
	if body, ok := fencedBody(content); ok {
		return body
	}
	// Not a well formed fence, drop the opening line and closing fence by width.
	if len(content) <= len(fenceOpen)+1+len(fenceClose)+1 {
		return ""
	}
	return content[len(fenceOpen)+1 : len(content)-len(fenceClose)-1]
}

// fencedBody extracts the body of the hack fenced code block that content consists of.
func fencedBody(content string) (string, bool) {
	if !strings.HasSuffix(content, "\n"+fenceClose) {
		return "", false
	}

	source := []byte(content)
	doc := markdown.Parser().Parse(text.NewReader(source))
	fcb, ok := doc.FirstChild().(*ast.FencedCodeBlock)
	if !ok || fcb.NextSibling() != nil {
		return "", false
	}
	if string(fcb.Language(source)) != "hack" {
		return "", false
	}

	var b bytes.Buffer
	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	body := strings.TrimSuffix(b.String(), "\n")
	body = strings.TrimSuffix(body, "\r")
	return body, true
}
