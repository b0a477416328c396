// Package urlenc encodes playground scripts for embedding in URLs.
package urlenc

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"io"
	"net/url"
	"strings"

	"oss.terrastruct.com/util-go/xdefer"
)

const upperhex = "0123456789ABCDEF"

// Encode percent-encodes s for literal inclusion in a URL path segment, query value or
// fragment.
//
// It escapes everything encodeURIComponent escapes and additionally the marks
// * . _ - ~ ' ! ( ) so that only ASCII letters and digits are left as is.
// Multi-byte characters are escaped byte by byte with uppercase hex.
func Encode(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// Decode reverses Encode. '+' is not treated as a space.
func Decode(encoded string) (_ string, err error) {
	defer xdefer.Errorf(&err, "failed to decode %q", encoded)
	return url.PathUnescape(encoded)
}

// Deflate compresses a script and encodes it as URL safe base64 for compact share links.
func Deflate(raw string) (_ string, err error) {
	defer xdefer.Errorf(&err, "failed to deflate script")

	b := &bytes.Buffer{}

	zw, err := flate.NewWriterDict(b, flate.BestCompression, nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(zw, strings.NewReader(raw)); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(b.Bytes()), nil
}

// Inflate reverses Deflate.
func Inflate(encoded string) (_ string, err error) {
	defer xdefer.Errorf(&err, "failed to inflate script")

	b64Decoded, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}

	zr := flate.NewReaderDict(bytes.NewReader(b64Decoded), nil)
	var b bytes.Buffer
	if _, err := io.Copy(&b, zr); err != nil {
		return "", err
	}
	if err := zr.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}
