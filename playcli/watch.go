package playcli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/multierr"

	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/playkit/lib/debounce"
)

// watcher prints a new playground link for inputPath whenever it changes.
//
// Editors tend to emit several events per save so events go through a Debouncer:
// the first event of a burst is answered immediately and the last one once the
// burst settles.
type watcher struct {
	ms        *xmain.State
	sh        sharer
	inputPath string

	fw *fsnotify.Watcher
	d  *debounce.Debouncer[fsnotify.Event]

	// Leading and trailing calls run on different goroutines.
	printMu  sync.Mutex
	lastCode string
	printed  bool
}

func watchCmd(ctx context.Context, ms *xmain.State, sh sharer, wait time.Duration) error {
	if len(ms.Opts.Flags.Args()) != 2 {
		return xmain.UsageErrorf("watch must be passed one argument: a filepath")
	}
	inputPath := ms.Opts.Flags.Arg(1)
	if inputPath == "-" {
		return xmain.UsageErrorf("watch cannot read from stdin")
	}

	w, err := newWatcher(ms, sh, ms.AbsPath(inputPath), wait)
	if err != nil {
		return err
	}
	return w.run(ctx)
}

func newWatcher(ms *xmain.State, sh sharer, inputPath string, wait time.Duration) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// The directory is watched rather than the file as editors often save by
	// replacing the file.
	err = fw.Add(filepath.Dir(inputPath))
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to watch %s: %w", ms.HumanPath(inputPath), err), fw.Close())
	}

	w := &watcher{
		ms:        ms,
		sh:        sh,
		inputPath: filepath.Clean(inputPath),
		fw:        fw,
	}
	w.d = debounce.New(w.share, wait)
	return w, nil
}

func (w *watcher) run(ctx context.Context) (err error) {
	defer func() {
		w.d.Stop()
		err = multierr.Append(err, w.fw.Close())
	}()

	w.ms.Log.Info.Printf("watching %s", w.ms.HumanPath(w.inputPath))
	w.share(fsnotify.Event{Name: w.inputPath, Op: fsnotify.Create})

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			if filepath.Clean(ev.Name) != w.inputPath || ev.Op == fsnotify.Chmod {
				continue
			}
			w.ms.Log.Debug.Printf("received file system event %v", ev)
			w.d.Call(ev)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			w.ms.Log.Error.Printf("fsnotify error: %v", err)
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		}
	}
}

func (w *watcher) share(ev fsnotify.Event) {
	w.printMu.Lock()
	defer w.printMu.Unlock()

	code, err := os.ReadFile(w.inputPath)
	if err != nil {
		if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) || errors.Is(err, os.ErrNotExist) {
			w.ms.Log.Warn.Printf("%s is gone, waiting for it to come back", w.ms.HumanPath(w.inputPath))
			return
		}
		w.ms.Log.Error.Printf("failed to read %s: %v", w.ms.HumanPath(w.inputPath), err)
		return
	}
	if w.printed && string(code) == w.lastCode {
		return
	}

	url, err := w.sh.URL(string(code))
	if err != nil {
		w.ms.Log.Error.Print(err)
		return
	}
	w.lastCode = string(code)
	w.printed = true
	fmt.Fprintln(w.ms.Stdout, url)
}
