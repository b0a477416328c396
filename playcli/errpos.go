package playcli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"oss.terrastruct.com/util-go/xdefer"
	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/playkit/playerr"
)

func errposCmd(ctx context.Context, ms *xmain.State, asJSON bool) (err error) {
	if len(ms.Opts.Flags.Args()) != 3 {
		return xmain.UsageErrorf(`errpos must be passed a filepath (or '-' for stdin) and an error message`)
	}
	inputPath := ms.Opts.Flags.Arg(1)
	msg := ms.Opts.Flags.Arg(2)

	defer xdefer.Errorf(&err, "failed to locate error in %s", ms.HumanPath(inputPath))

	if inputPath != "-" {
		inputPath = ms.AbsPath(inputPath)
	}
	code, err := ms.ReadPath(inputPath)
	if err != nil {
		return err
	}

	s, ok := playerr.Find(string(code), msg)
	if !ok {
		return fmt.Errorf("no error offset in %q", msg)
	}
	ms.Log.Debug.Printf("%q points at %v", msg, s)

	if asJSON {
		b, err := json.Marshal(s)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(ms.Stdout, "%s\n", b)
		return err
	}

	_, err = fmt.Fprintf(ms.Stdout, "%s:%v: %s\n%s", ms.HumanPath(inputPath), s, msg, excerpt(string(code), s))
	return err
}

// excerpt renders the first line of s with a caret underline.
func excerpt(code string, s playerr.Span) string {
	lines := strings.Split(code, "\n")
	if s.From.Line >= len(lines) {
		return ""
	}
	line := lines[s.From.Line]

	col := s.From.Column
	if col > len(line) {
		col = len(line)
	}
	width := len(line) - col
	if s.OneLine() {
		width = s.To.Column - s.From.Column
	}
	if col+width > len(line) {
		width = len(line) - col
	}
	if width < 1 {
		width = 1
	}

	var pad strings.Builder
	for i := 0; i < col; i++ {
		if line[i] == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	return fmt.Sprintf("  %s\n  %s%s\n", line, pad.String(), strings.Repeat("^", width))
}
