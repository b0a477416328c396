package playcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"oss.terrastruct.com/util-go/xhttp"
	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/playkit/lib/log"
	"oss.terrastruct.com/playkit/lib/urlenc"
	"oss.terrastruct.com/playkit/playerr"
	"oss.terrastruct.com/playkit/playgist"
)

// server exposes encode, errpos and gist over HTTP for the playground front end.
type server struct {
	ms      *xmain.State
	gc      *playgist.Client
	timeout time.Duration
}

func serveCmd(ctx context.Context, ms *xmain.State, gc *playgist.Client, host, port string, timeout time.Duration) error {
	l, err := net.Listen("tcp", net.JoinHostPort(host, port))
	if err != nil {
		return err
	}
	ms.Log.Success.Printf("listening on http://%v", l.Addr())

	s := &server{
		ms:      ms,
		gc:      gc,
		timeout: timeout,
	}
	hs := xhttp.NewServer(ms.Log.Warn, xhttp.Log(ms.Log, s.handler()))
	return xhttp.Serve(ctx, time.Second*30, hs, l)
}

func (s *server) handler() http.Handler {
	m := http.NewServeMux()
	m.Handle("/api/encode", xhttp.HandlerFuncAdapter{Log: s.ms.Log, Func: s.handleEncode})
	m.Handle("/api/errpos", xhttp.HandlerFuncAdapter{Log: s.ms.Log, Func: s.handleErrpos})
	m.Handle("/api/gist", xhttp.HandlerFuncAdapter{Log: s.ms.Log, Func: s.handleGist})
	return m
}

type encodeResponse struct {
	Encoded string `json:"encoded"`
}

func (s *server) handleEncode(w http.ResponseWriter, r *http.Request) error {
	if r.Method != http.MethodGet {
		return xhttp.Errorf(http.StatusMethodNotAllowed, nil, "%s not allowed", r.Method)
	}
	q := r.URL.Query()
	if !q.Has("s") {
		return xhttp.Errorf(http.StatusBadRequest, "missing query parameter s", "missing query parameter s")
	}
	xhttp.JSON(s.ms.Log, w, http.StatusOK, encodeResponse{
		Encoded: urlenc.Encode(q.Get("s")),
	})
	return nil
}

type errposRequest struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (s *server) handleErrpos(w http.ResponseWriter, r *http.Request) error {
	if r.Method != http.MethodPost {
		return xhttp.Errorf(http.StatusMethodNotAllowed, nil, "%s not allowed", r.Method)
	}
	var req errposRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		return xhttp.Errorf(http.StatusBadRequest, "invalid JSON body", "failed to decode errpos request: %v", err)
	}

	span, ok := playerr.Find(req.Code, req.Error)
	if !ok {
		return xhttp.Errorf(http.StatusUnprocessableEntity, "no error offset in message", "no error offset in %q", req.Error)
	}
	xhttp.JSON(s.ms.Log, w, http.StatusOK, span)
	return nil
}

type gistResponse struct {
	Code string `json:"code"`
}

func (s *server) handleGist(w http.ResponseWriter, r *http.Request) error {
	if r.Method != http.MethodGet {
		return xhttp.Errorf(http.StatusMethodNotAllowed, nil, "%s not allowed", r.Method)
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		return xhttp.Errorf(http.StatusBadRequest, "missing query parameter id", "missing query parameter id")
	}

	ctx, cancel := log.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	code, err := s.gc.Load(ctx, id)
	if err != nil {
		var nerr *playgist.NotFoundError
		if errors.As(err, &nerr) {
			return xhttp.ErrorWrap(http.StatusNotFound, nerr.Error(), err)
		}
		return xhttp.ErrorWrap(http.StatusBadGateway, fmt.Sprintf("failed to load gist %s", id), err)
	}
	xhttp.JSON(s.ms.Log, w, http.StatusOK, gistResponse{Code: code})
	return nil
}
