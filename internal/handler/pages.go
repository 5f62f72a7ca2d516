package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/akhadeatharv/Crowd-Funding-Project/pkg/auth"
)

// Pages はビルド済み SPA を配信する。存在しないパスは index.html にフォールバックする
type Pages struct {
	root   fs.FS
	files  http.Handler
	secret []byte

	// authRequired=false の場合はゲートを外し、DevAuth と同じく全ページを開放する
	authRequired bool
}

// NewPages は dir 配下の SPA バンドルを配信する Pages を生成する
func NewPages(dir string, sessionSecret []byte, authRequired bool) *Pages {
	return NewPagesFS(os.DirFS(dir), sessionSecret, authRequired)
}

// NewPagesFS is NewPages over an arbitrary file system.
func NewPagesFS(root fs.FS, sessionSecret []byte, authRequired bool) *Pages {
	return &Pages{
		root:         root,
		files:        http.FileServerFS(root),
		secret:       sessionSecret,
		authRequired: authRequired,
	}
}

// Register はページルートを mux に登録する
func (p *Pages) Register(mux *http.ServeMux) {
	index := http.HandlerFunc(p.serveIndex)
	if !p.authRequired {
		mux.Handle("GET /create", auth.DevAuth(index))
		mux.Handle("GET /signin", index)
		mux.Handle("GET /signup", index)
	} else {
		mux.Handle("GET /create", auth.PrivateRoute(p.secret, "/signin")(index))
		mux.Handle("GET /signin", auth.PublicOnlyRoute(p.secret, "/")(index))
		mux.Handle("GET /signup", auth.PublicOnlyRoute(p.secret, "/")(index))
	}
	mux.HandleFunc("GET /", p.serve)
}

func (p *Pages) serve(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "api" || strings.HasPrefix(name, "api/") {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if name != "" && name != "index.html" {
		if info, err := fs.Stat(p.root, name); err == nil && !info.IsDir() {
			p.files.ServeHTTP(w, r)
			return
		}
		// 拡張子付きのパスはアセット扱い。フォールバックしない
		if path.Ext(name) != "" {
			http.NotFound(w, r)
			return
		}
	}
	p.serveIndex(w, r)
}

func (p *Pages) serveIndex(w http.ResponseWriter, r *http.Request) {
	b, err := fs.ReadFile(p.root, "index.html")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "frontend bundle not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(b)
}
