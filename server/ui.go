package server

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
)

//go:embed webui/*
var uiFS embed.FS

// embed.FS не хранит mtime, для If-Modified-Since берём время старта
var uiModTime = time.Now()

// RegisterWebUI отдаёт встроенную страницу поиска под prefix ("/ui/" по умолчанию),
// а "/" и "/ui" редиректит на неё.
func (a *App) RegisterWebUI(prefix string) error {
	if prefix == "" {
		prefix = "/ui/"
	}
	dir := path.Clean("/"+prefix) + "/"

	static, err := fs.Sub(uiFS, "webui")
	if err != nil {
		return fmt.Errorf("webui: %w", err)
	}
	index, err := fs.ReadFile(static, "index.html")
	if err != nil {
		return fmt.Errorf("webui: index.html not embedded: %w", err)
	}

	toIndex := func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, dir, http.StatusFound)
	}

	// index отдаём сами: FileServer на каталог отвечает 301
	a.Router.HandleFunc(dir, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		http.ServeContent(w, r, "index.html", uiModTime, bytes.NewReader(index))
	}).Methods(http.MethodGet, http.MethodHead)
	a.Router.PathPrefix(dir).Handler(http.StripPrefix(dir, http.FileServer(http.FS(static))))

	if dir != "/" {
		a.Router.HandleFunc(strings.TrimSuffix(dir, "/"), toIndex).Methods(http.MethodGet)
		a.Router.HandleFunc("/", toIndex).Methods(http.MethodGet)
	}
	return nil
}
