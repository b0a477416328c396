package playcli

import (
	"context"
	"fmt"

	"oss.terrastruct.com/util-go/xbrowser"
	"oss.terrastruct.com/util-go/xdefer"
	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/playkit/lib/urlenc"
)

// sharer builds playground links that carry a script in the URL fragment.
type sharer struct {
	base     string
	compress bool
}

// URL returns base#c=<urlenc.Encode(code)>, or base#z=<urlenc.Deflate(code)> when
// compressing.
func (sh sharer) URL(code string) (string, error) {
	if sh.compress {
		z, err := urlenc.Deflate(code)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s#z=%s", sh.base, z), nil
	}
	return fmt.Sprintf("%s#c=%s", sh.base, urlenc.Encode(code)), nil
}

func shareCmd(ctx context.Context, ms *xmain.State, sh sharer) (err error) {
	defer xdefer.Errorf(&err, "failed to share")

	url, err := shareInput(ms, sh, "share")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ms.Stdout, url)
	return err
}

func playCmd(ctx context.Context, ms *xmain.State, sh sharer) (err error) {
	defer xdefer.Errorf(&err, "failed to play")

	url, err := shareInput(ms, sh, "play")
	if err != nil {
		return err
	}
	openBrowser(ctx, ms, url)
	return nil
}

func shareInput(ms *xmain.State, sh sharer, cmd string) (string, error) {
	if len(ms.Opts.Flags.Args()) != 2 {
		return "", xmain.UsageErrorf("%s must be passed one argument: either a filepath or '-' for stdin", cmd)
	}
	inputPath := ms.Opts.Flags.Arg(1)
	if inputPath != "-" {
		inputPath = ms.AbsPath(inputPath)
	}

	code, err := ms.ReadPath(inputPath)
	if err != nil {
		return "", err
	}
	return sh.URL(string(code))
}

func openBrowser(ctx context.Context, ms *xmain.State, url string) {
	if ms.Env.Getenv("BROWSER") == "0" {
		ms.Log.Info.Printf("playground: %s", url)
		return
	}
	ms.Log.Info.Printf("opening playground: %s", url)

	err := xbrowser.Open(ctx, ms.Env, url)
	if err != nil {
		ms.Log.Warn.Printf("failed to open browser to %v: %v", url, err)
	}
}
