package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/fintrack/internal/filex"
)

// httpClient is a test seam.
var httpClient = http.DefaultClient

// DownloadFromPresignedURL fetches url and writes the body to w.
func DownloadFromPresignedURL(ctx context.Context, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}
	return io.Copy(w, resp.Body)
}

// DownloadToFile saves the object behind url as dir/name. A partially
// written file is removed on failure.
func DownloadToFile(ctx context.Context, url, dir, name string) (string, error) {
	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(name))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if _, err := DownloadFromPresignedURL(ctx, url, f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}
