package playcli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/playkit/lib/log"
	"oss.terrastruct.com/playkit/playgist"
)

func gistCmd(ctx context.Context, ms *xmain.State, gc *playgist.Client, timeout time.Duration) error {
	if len(ms.Opts.Flags.Args()) != 2 {
		return xmain.UsageErrorf("gist must be passed one argument: the gist id optionally followed by :<file index>")
	}
	identifier := ms.Opts.Flags.Arg(1)

	ctx, cancel := log.WithTimeout(ctx, timeout)
	defer cancel()

	code, err := gc.Load(ctx, identifier)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	_, err = fmt.Fprint(ms.Stdout, code)
	return err
}
