package vocab

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestParseRankFile(t *testing.T) {
	// base64 of "hello", "world", and " ".
	data := []byte("aGVsbG8= 0\nd29ybGQ= 1\n\nIA== 220\n")

	ranks, err := parseRankFile(data)
	if err != nil {
		t.Fatalf("parseRankFile: %v", err)
	}

	want := map[string]int{"hello": 0, "world": 1, " ": 220}
	if len(ranks) != len(want) {
		t.Fatalf("parsed %d ranks, want %d", len(ranks), len(want))
	}
	for piece, rank := range want {
		if got := ranks[piece]; got != rank {
			t.Fatalf("rank of %q = %d, want %d", piece, got, rank)
		}
	}
}

func TestParseRankFileErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad base64", "!!! 0\n"},
		{"bad rank", "aGVsbG8= zero\n"},
		{"extra fields", "aGVsbG8= 0 extra\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseRankFile([]byte(tt.data)); err == nil {
				t.Fatalf("parseRankFile(%q) did not fail", tt.data)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv(tiktokenCacheDirEnv, t.TempDir())

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("aGVsbG8= 0\nd29ybGQ= 1\n"))
	}))
	defer srv.Close()

	url := srv.URL + "/test.tiktoken"

	ranks, err := Load(url)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ranks["hello"] != 0 || ranks["world"] != 1 {
		t.Fatalf("Load = %v", ranks)
	}

	// Second load must come from the disk cache.
	if _, err := Load(url); err != nil {
		t.Fatalf("cached Load: %v", err)
	}
	if hits != 1 {
		t.Fatalf("server hit %d times, want 1", hits)
	}
}

func TestLoadStatusError(t *testing.T) {
	t.Setenv(tiktokenCacheDirEnv, t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := Load(srv.URL + "/missing"); err == nil {
		t.Fatal("Load of a 404 did not fail")
	}
}

// =============================================================================

func TestCacheFilename(t *testing.T) {
	got := cacheFilename("https://openaipublic.blob.core.windows.net/encodings/cl100k_base.tiktoken")
	want := "26B9C229141B3D34DCAC6D3728F94F1E40ABB67EF4A84CA1351ABC0A20E6B701"

	if got != want {
		t.Fatalf("cacheFilename = %q, want %q", got, want)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv(tiktokenCacheDirEnv, "/tiktoken/cache/dir")
	if got := cacheDir(); got != "/tiktoken/cache/dir" {
		t.Fatalf("cacheDir = %q", got)
	}

	t.Setenv(dataGymCacheDirEnv, "/data/gym/cache/dir")
	os.Unsetenv(tiktokenCacheDirEnv)
	if got := cacheDir(); got != "/data/gym/cache/dir" {
		t.Fatalf("cacheDir = %q", got)
	}

	os.Unsetenv(dataGymCacheDirEnv)
	if got := cacheDir(); got != filepath.Join(os.TempDir(), defaultCacheSubdir) {
		t.Fatalf("cacheDir = %q", got)
	}
}

// An empty cache dir env value disables disk caching: every read goes to
// the network.
func TestCacheDisabled(t *testing.T) {
	t.Setenv(tiktokenCacheDirEnv, "")

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("aGVsbG8= 0\n"))
	}))
	defer srv.Close()

	for n := 0; n < 2; n++ {
		if _, err := Load(srv.URL); err != nil {
			t.Fatalf("Load: %v", err)
		}
	}

	if hits != 2 {
		t.Fatalf("server hit %d times, want 2", hits)
	}
}
