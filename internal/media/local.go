// AngelaMos | 2026
// local.go

package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

type LocalStorage struct {
	dir        string
	publicPath string
}

func NewLocalStorage(dir, publicPath string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}

	publicPath = "/" + strings.Trim(publicPath, "/")

	return &LocalStorage{dir: dir, publicPath: publicPath}, nil
}

func (s *LocalStorage) PublicPath() string {
	return s.publicPath
}

func (s *LocalStorage) Save(
	_ context.Context,
	name, _ string,
	r io.Reader,
) (string, error) {
	if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
		return "", fmt.Errorf("local storage: invalid name %q", name)
	}

	path := filepath.Join(s.dir, name)

	//nolint:gosec // G304: name is a single sanitized path element
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("local storage create %s: %w", name, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("local storage write %s: %w", name, err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("local storage close %s: %w", name, err)
	}

	return s.publicPath + "/" + name, nil
}

// Handler serves stored uploads. Directory listings are refused.
func (s *LocalStorage) Handler() http.Handler {
	files := http.StripPrefix(s.publicPath, http.FileServer(http.Dir(s.dir)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
