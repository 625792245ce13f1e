package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"ingredient-scout/scout/pkg/api/types"
)

// IndexFile is served for "/" and for directories.
const IndexFile = "index.html"

// NewStaticHandler serves the front-end files under dir. "/" resolves to
// index.html, directories without an index are 404 instead of a listing,
// and unknown paths under /api/ get a JSON 404.
func NewStaticHandler(dir string) http.Handler {
	files := http.FileServer(indexOnlyFS{http.Dir(dir)})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			types.WriteError(w, http.StatusNotFound, types.MsgNotFound)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			types.WriteMethodNotAllowed(w, http.MethodGet, http.MethodHead)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// indexOnlyFS hides directories that have no index file.
type indexOnlyFS struct {
	fs http.FileSystem
}

func (f indexOnlyFS) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if !info.IsDir() {
		return file, nil
	}

	index, err := f.fs.Open(path.Join(name, IndexFile))
	if err != nil {
		_ = file.Close()
		if errors.Is(err, fs.ErrNotExist) {
			return nil, os.ErrNotExist
		}
		return nil, err
	}
	_ = index.Close()
	return file, nil
}
