package playcli

import (
	"context"
	"fmt"
	"strings"

	"oss.terrastruct.com/util-go/xdefer"
	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/playkit/lib/urlenc"
)

func encodeCmd(ctx context.Context, ms *xmain.State) (err error) {
	defer xdefer.Errorf(&err, "failed to encode")

	args := ms.Opts.Flags.Args()[1:]
	var s string
	switch {
	case len(args) == 0 || len(args) == 1 && args[0] == "-":
		b, err := ms.ReadPath("-")
		if err != nil {
			return err
		}
		s = string(b)
	default:
		s = strings.Join(args, " ")
	}

	_, err = fmt.Fprintln(ms.Stdout, urlenc.Encode(s))
	return err
}
