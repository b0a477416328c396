package playcli

import (
	"fmt"
	"path/filepath"

	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/playkit/lib/version"
)

func help(ms *xmain.State) {
	fmt.Fprintf(ms.Stdout, `%[1]s %[2]s
Usage:
  %[1]s encode [text | -]
  %[1]s errpos file "error message"
  %[1]s gist id[:index]
  %[1]s share file
  %[1]s play file
  %[1]s watch file
  %[1]s serve

Use - to have %[1]s read from stdin.

Flags:
%[3]s

Subcommands:
  %[1]s encode - Percent-encodes text for embedding in a URL, escaping everything but letters and digits
  %[1]s errpos - Prints the line:column span an evaluator error message (" at <start>[:<end>]") points at
  %[1]s gist - Prints the script stored in a GitHub gist, index selects the file (default 0)
  %[1]s share - Prints a playground link that loads file
  %[1]s play - Opens file in the playground
  %[1]s watch - Prints a fresh playground link every time file changes
  %[1]s serve - Serves the encode, errpos and gist operations as a JSON API
`, filepath.Base(ms.Name), version.Version, ms.Opts.Defaults())
}
