package vocab

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cache directory resolution order: TIKTOKEN_CACHE_DIR, DATA_GYM_CACHE_DIR,
// then a fixed directory under the system temp dir. Setting either variable
// to an empty string disables disk caching entirely.
const (
	tiktokenCacheDirEnv = "TIKTOKEN_CACHE_DIR"
	dataGymCacheDirEnv  = "DATA_GYM_CACHE_DIR"
	defaultCacheSubdir  = "data-gym-cache"
)

var defaultClient = http.Client{
	Timeout: 120 * time.Second,
	Transport: &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 15 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// readCached returns the contents of url, serving from the on-disk cache
// when possible and populating it after a remote read.
func readCached(url string) ([]byte, error) {
	dir := cacheDir()
	if dir == "" {
		return readRemote(url)
	}

	path := filepath.Join(dir, cacheFilename(url))
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}

	data, err := readRemote(url)
	if err != nil {
		return nil, err
	}

	if err := writeCacheFile(dir, path, data); err != nil {
		return nil, fmt.Errorf("caching %s: %w", url, err)
	}

	return data, nil
}

func readRemote(url string) ([]byte, error) {
	resp, err := defaultClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response for %s: %w", url, err)
	}

	return data, nil
}

// writeCacheFile writes through a uniquely named temp file and renames it
// into place so concurrent processes never observe a partial file.
func writeCacheFile(dir, path string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	tmp := path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

func cacheDir() string {
	if dir, ok := os.LookupEnv(tiktokenCacheDirEnv); ok {
		return dir
	}
	if dir, ok := os.LookupEnv(dataGymCacheDirEnv); ok {
		return dir
	}
	return filepath.Join(os.TempDir(), defaultCacheSubdir)
}

// cacheFilename derives a stable filename from the URL: the uppercase hex
// SHA-256 of the URL string.
func cacheFilename(url string) string {
	sum := sha256.Sum256([]byte(url))
	return strings.ToUpper(fmt.Sprintf("%x", sum))
}
