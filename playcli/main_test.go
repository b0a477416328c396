package playcli_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/util-go/xmain"
	"oss.terrastruct.com/util-go/xos"

	"oss.terrastruct.com/playkit/lib/urlenc"
	"oss.terrastruct.com/playkit/lib/version"
	"oss.terrastruct.com/playkit/playcli"
)

func TestCLI(t *testing.T) {
	t.Parallel()

	gistAPI := newGistAPI(t)

	tca := []struct {
		name string
		run  func(t *testing.T, ctx context.Context, dir string, env *xos.Env)
	}{
		{
			name: "encode",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				stdout, err := runTestMain(t, ctx, dir, env, nil, "encode", "pk(A) && older(10)")
				assert.NoError(t, err)
				assert.Equal(t, "pk%28A%29%20%26%26%20older%2810%29\n", stdout)
			},
		},
		{
			name: "encode_stdin",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				stdout, err := runTestMain(t, ctx, dir, env, strings.NewReader("a.b_c"), "encode", "-")
				assert.NoError(t, err)
				assert.Equal(t, "a%2Eb%5Fc\n", stdout)
			},
		},
		{
			name: "errpos",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				writeFile(t, dir, "in.hack", "abc\ndef\nghi")
				stdout, err := runTestMain(t, ctx, dir, env, nil, "errpos", "in.hack", "unexpected token at 5")
				assert.NoError(t, err)
				assert.Contains(t, stdout, "2:2-2:3: unexpected token at 5\n")
				assert.True(t, strings.HasSuffix(stdout, "  def\n   ^\n"), stdout)
			},
		},
		{
			name: "errpos_json",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				writeFile(t, dir, "in.hack", "abc\ndef\nghi")
				stdout, err := runTestMain(t, ctx, dir, env, nil, "--json", "errpos", "in.hack", "unterminated call at 2:9")
				assert.NoError(t, err)
				assert.Equal(t, `{"from":{"line":0,"ch":2},"to":{"line":2,"ch":1}}`+"\n", stdout)
			},
		},
		{
			name: "errpos_no_offset",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				writeFile(t, dir, "in.hack", "abc")
				_, err := runTestMain(t, ctx, dir, env, nil, "errpos", "in.hack", "type error")
				assert.ErrorContains(t, err, `no error offset in "type error"`)
			},
		},
		{
			name: "errpos_usage",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				_, err := runTestMain(t, ctx, dir, env, nil, "errpos", "in.hack")
				assert.ErrorContains(t, err, "bad usage: errpos must be passed a filepath")
			},
		},
		{
			name: "gist",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				stdout, err := runTestMain(t, ctx, dir, env, nil, "--github-api", gistAPI, "gist", "abc123:1")
				assert.NoError(t, err)
				assert.Equal(t, "older(10)\n", stdout)
			},
		},
		{
			name: "gist_fenced",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				stdout, err := runTestMain(t, ctx, dir, env, nil, "--github-api", gistAPI, "gist", "fenced")
				assert.NoError(t, err)
				assert.Equal(t, "CODE\n", stdout)
			},
		},
		{
			name: "gist_file_not_found",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				_, err := runTestMain(t, ctx, dir, env, nil, "--github-api", gistAPI, "gist", "abc123:5")
				assert.ErrorContains(t, err, "file #5 not found")
			},
		},
		{
			name: "gist_not_found",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				_, err := runTestMain(t, ctx, dir, env, nil, "--github-api", gistAPI, "gist", "nope")
				assert.ErrorContains(t, err, `gist "nope" not found`)
			},
		},
		{
			name: "share",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				writeFile(t, dir, "in.hack", "pk(A)")
				stdout, err := runTestMain(t, ctx, dir, env, nil, "--playground-url", "https://play.example.com/", "share", "in.hack")
				assert.NoError(t, err)
				assert.Equal(t, "https://play.example.com/#c=pk%28A%29\n", stdout)
			},
		},
		{
			name: "share_compressed",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				writeFile(t, dir, "in.hack", "thresh(2, pk(A), pk(B), pk(C))")
				stdout, err := runTestMain(t, ctx, dir, env, nil, "--compress", "share", "in.hack")
				assert.NoError(t, err)

				prefix := playcli.DefaultPlaygroundURL + "#z="
				if assert.True(t, strings.HasPrefix(stdout, prefix), stdout) {
					script, err := urlenc.Inflate(strings.TrimSpace(strings.TrimPrefix(stdout, prefix)))
					assert.NoError(t, err)
					assert.Equal(t, "thresh(2, pk(A), pk(B), pk(C))", script)
				}
			},
		},
		{
			name: "play_no_browser",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				writeFile(t, dir, "in.hack", "pk(A)")
				_, err := runTestMain(t, ctx, dir, env, nil, "--browser", "0", "play", "in.hack")
				assert.NoError(t, err)
			},
		},
		{
			name: "version",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				stdout, err := runTestMain(t, ctx, dir, env, nil, "version")
				assert.NoError(t, err)
				assert.Equal(t, version.Version+"\n", stdout)
			},
		},
		{
			name: "unknown_subcommand",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				_, err := runTestMain(t, ctx, dir, env, nil, "compile")
				assert.ErrorContains(t, err, `bad usage: unknown subcommand "compile"`)
			},
		},
		{
			name: "bad_debounce",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				_, err := runTestMain(t, ctx, dir, env, nil, "--debounce=0", "watch", "in.hack")
				assert.ErrorContains(t, err, "bad usage: --debounce must be greater than 0")
			},
		},
	}

	ctx := context.Background()
	for _, tc := range tca {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()

			dir := t.TempDir()
			env := xos.NewEnv(nil)

			tc.run(t, ctx, dir, env)
		})
	}
}

func runTestMain(tb testing.TB, ctx context.Context, dir string, env *xos.Env, stdin io.Reader, args ...string) (string, error) {
	stdout := &bytes.Buffer{}
	tms := &xmain.TestState{
		Run:  playcli.Run,
		Env:  env,
		Args: append([]string{"playkit"}, args...),
		PWD:  dir,
	}
	if stdin != nil {
		tms.Stdin = stdin
	}
	tms.Stdout = stdout
	tms.Start(tb, ctx)
	defer tms.Cleanup(tb)
	err := tms.Wait(ctx)
	return stdout.String(), err
}

func writeFile(tb testing.TB, dir, fp, data string) {
	tb.Helper()
	err := os.WriteFile(filepath.Join(dir, fp), []byte(data), 0644)
	assert.NoError(tb, err)
}

// newGistAPI serves a tiny fake of the GitHub gist API and returns its base URL.
func newGistAPI(tb testing.TB) string {
	gists := map[string]string{
		"abc123": `{"id": "abc123", "files": {
			"policy.hack": {"content": "pk(A)"},
			"alt.hack": {"content": "older(10)"}
		}}`,
		"fenced": `{"id": "fenced", "files": {"README.md": {"content": "` + "```hack\\nCODE\\n```" + `"}}}`,
		"broken": ``,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := gists[strings.TrimPrefix(r.URL.Path, "/gists/")]
		w.Header().Set("Content-Type", "application/json")
		switch {
		case !ok:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message": "Not Found"}`))
		case body == "":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message": "Server Error"}`))
		default:
			_, _ = w.Write([]byte(body))
		}
	}))
	tb.Cleanup(srv.Close)
	return srv.URL
}
