// Package playcli implements the playkit command.
package playcli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cdr.dev/slog"
	"github.com/spf13/pflag"

	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/playkit/lib/log"
	"oss.terrastruct.com/playkit/lib/version"
	"oss.terrastruct.com/playkit/playgist"
)

const DefaultPlaygroundURL = "https://min.sc/playground/"

func Run(ctx context.Context, ms *xmain.State) (err error) {
	debugFlag, err := ms.Opts.Bool("DEBUG", "debug", "d", false, "print debug logs.")
	if err != nil {
		return err
	}
	playgroundFlag := ms.Opts.String("PLAYKIT_PLAYGROUND_URL", "playground-url", "", DefaultPlaygroundURL, "base URL of the playground that share, play and watch link to")
	githubAPIFlag := ms.Opts.String("PLAYKIT_GITHUB_API", "github-api", "", playgist.DefaultAPIURL, "base URL of the GitHub REST API gists are loaded from")
	timeoutFlag, err := ms.Opts.Int64("PLAYKIT_TIMEOUT", "timeout", "", 30, "the maximum number of seconds to wait for the gist API")
	if err != nil {
		return err
	}
	debounceFlag, err := ms.Opts.Int64("PLAYKIT_DEBOUNCE", "debounce", "", 300, "milliseconds watch waits for edits to settle before printing a new link")
	if err != nil {
		return err
	}
	compressFlag, err := ms.Opts.Bool("PLAYKIT_COMPRESS", "compress", "z", false, "share compressed links (#z=) instead of percent-encoded ones (#c=)")
	if err != nil {
		return err
	}
	jsonFlag, err := ms.Opts.Bool("", "json", "j", false, "print errpos results as JSON")
	if err != nil {
		return err
	}
	hostFlag := ms.Opts.String("HOST", "host", "h", "localhost", "host listening address for serve")
	portFlag := ms.Opts.String("PORT", "port", "p", "0", "port listening address for serve")
	browserFlag := ms.Opts.String("BROWSER", "browser", "", "", "browser executable that play opens. Setting to 0 opens no browser.")
	versionFlag, err := ms.Opts.Bool("", "version", "v", false, "get the version")
	if err != nil {
		return err
	}

	err = ms.Opts.Flags.Parse(ms.Opts.Args)
	if !errors.Is(err, pflag.ErrHelp) && err != nil {
		return xmain.UsageErrorf("failed to parse flags: %v", err)
	}
	if errors.Is(err, pflag.ErrHelp) {
		help(ms)
		return nil
	}

	if *versionFlag {
		fmt.Fprintln(ms.Stdout, version.Version)
		return nil
	}

	ctx = log.WithWriter(ctx, ms.Stderr)
	if *debugFlag {
		ctx = log.Leveled(ctx, slog.LevelDebug)
		ms.Env.Setenv("DEBUG", "1")
	}
	if *browserFlag != "" {
		ms.Env.Setenv("BROWSER", *browserFlag)
	}

	if len(ms.Opts.Flags.Args()) == 0 {
		help(ms)
		return xmain.UsageErrorf("no subcommand given")
	}

	sh := sharer{
		base:     *playgroundFlag,
		compress: *compressFlag,
	}

	switch ms.Opts.Flags.Arg(0) {
	case "encode":
		return encodeCmd(ctx, ms)
	case "errpos":
		return errposCmd(ctx, ms, *jsonFlag)
	case "gist":
		gc, err := playgist.NewClient(nil, *githubAPIFlag)
		if err != nil {
			return xmain.UsageErrorf("%v", err)
		}
		return gistCmd(ctx, ms, gc, time.Duration(*timeoutFlag)*time.Second)
	case "share":
		return shareCmd(ctx, ms, sh)
	case "play":
		return playCmd(ctx, ms, sh)
	case "watch":
		if *debounceFlag <= 0 {
			return xmain.UsageErrorf("--debounce must be greater than 0. You provided: %d", *debounceFlag)
		}
		return watchCmd(ctx, ms, sh, time.Duration(*debounceFlag)*time.Millisecond)
	case "serve":
		gc, err := playgist.NewClient(nil, *githubAPIFlag)
		if err != nil {
			return xmain.UsageErrorf("%v", err)
		}
		return serveCmd(ctx, ms, gc, *hostFlag, *portFlag, time.Duration(*timeoutFlag)*time.Second)
	case "version":
		if len(ms.Opts.Flags.Args()) > 1 {
			return xmain.UsageErrorf("version subcommand accepts no arguments")
		}
		fmt.Fprintln(ms.Stdout, version.Version)
		return nil
	default:
		return xmain.UsageErrorf("unknown subcommand %q", ms.Opts.Flags.Arg(0))
	}
}
