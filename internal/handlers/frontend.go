package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// NewFrontendHandler serves the built single-page app from dir. Paths that do
// not name a file get index.html so client-side routes resolve. Unknown API
// paths get a JSON 404.
func NewFrontendHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}

		r = r.Clone(r.Context())
		r.URL.Path = path.Clean("/" + r.URL.Path)

		name := filepath.Join(dir, filepath.FromSlash(r.URL.Path))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			http.ServeFile(w, r, name)
			return
		}

		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err != nil {
			writeError(w, http.StatusNotFound, "Frontend not built")
			return
		}
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, index)
	}
}
