//go:build !rust_ffi

package onnx

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPlatform(t *testing.T) {
	t.Parallel()

	platform := detectPlatform()

	assert.Contains(t, platform, runtime.GOOS)
	assert.Contains(t, platform, runtime.GOARCH)
	assert.Equal(t, runtime.GOOS+"-"+runtime.GOARCH, platform)
}

func TestGetRuntimeLibName(t *testing.T) {
	t.Parallel()

	switch runtime.GOOS {
	case "darwin":
		assert.Equal(t, "onnxruntime.dylib", getRuntimeLibName())
	case "windows":
		assert.Equal(t, "onnxruntime.dll", getRuntimeLibName())
	default:
		assert.Equal(t, "onnxruntime.so", getRuntimeLibName())
	}
}

// tarGzOf builds a gzip-compressed tar archive containing name -> content
// pairs, for feeding to extractTarGz or a mock download server.
func tarGzOf(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gzw)

	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:    name,
			Mode:    0o644,
			Size:    int64(len(content)),
			ModTime: time.Now(),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gzw.Close())
	return buf.Bytes()
}

func runtimeArchive(t *testing.T) []byte {
	return tarGzOf(t, map[string]string{getRuntimeLibName(): "fake runtime library"})
}

func modelArchive(t *testing.T) []byte {
	files := make(map[string]string, len(ModelFiles))
	for _, name := range ModelFiles {
		files[name] = "fake model file: " + name
	}
	return tarGzOf(t, files)
}

func skipOnWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("tar.gz extraction test, not exercised on windows")
	}
}

func TestDownloadRuntimeOverHTTP(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	archive := runtimeArchive(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "test.tar.gz", time.Now(), bytes.NewReader(archive))
	}))
	defer server.Close()

	dir := t.TempDir()
	var progress []int
	downloader := newDownloaderWithBaseURL(server.URL)

	err := downloader.DownloadRuntime(context.Background(), dir, func(p int) { progress = append(progress, p) })

	require.NoError(t, err)
	require.NotEmpty(t, progress)
	assert.Equal(t, 100, progress[len(progress)-1])
	assert.True(t, RuntimeExists(dir))
}

func TestDownloadEmbeddingModelOverHTTP(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	archive := modelArchive(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "test.tar.gz", time.Now(), bytes.NewReader(archive))
	}))
	defer server.Close()

	dir := t.TempDir()
	var progress []int
	downloader := newDownloaderWithBaseURL(server.URL)

	err := downloader.DownloadEmbeddingModel(context.Background(), dir, func(p int) { progress = append(progress, p) })

	require.NoError(t, err)
	require.NotEmpty(t, progress)
	assert.Equal(t, 100, progress[len(progress)-1])
	assert.True(t, EmbeddingModelExists(dir))
}

func TestDownloadProgressIsMonotonicAndBounded(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	archive := runtimeArchive(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/gzip")
		w.WriteHeader(http.StatusOK)
		w.Write(archive)
	}))
	defer server.Close()

	dir := t.TempDir()
	var progress []int
	downloader := newDownloaderWithBaseURL(server.URL)

	err := downloader.DownloadRuntime(context.Background(), dir, func(p int) { progress = append(progress, p) })
	require.NoError(t, err)
	require.NotEmpty(t, progress)
	assert.Equal(t, 100, progress[len(progress)-1])

	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1])
	}
	for _, p := range progress {
		assert.GreaterOrEqual(t, p, 0)
		assert.LessOrEqual(t, p, 100)
	}
}

func TestDownloadRetriesBeforeSucceeding(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	archive := runtimeArchive(t)
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		http.ServeContent(w, r, "test.tar.gz", time.Now(), bytes.NewReader(archive))
	}))
	defer server.Close()

	dir := t.TempDir()
	downloader := newDownloaderWithBaseURL(server.URL)

	err := downloader.DownloadRuntime(context.Background(), dir, nil)

	require.NoError(t, err)
	assert.Equal(t, int32(3), attempts.Load())
	assert.True(t, RuntimeExists(dir))
}

func TestDownloadGivesUpAfterRetriesExhausted(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	dir := t.TempDir()
	downloader := newDownloaderWithBaseURL(server.URL)

	err := downloader.DownloadRuntime(context.Background(), dir, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "download failed after")
	assert.Equal(t, int32(downloadRetries), attempts.Load())
}

func TestDownloadStopsOnContextCancellation(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	archive := runtimeArchive(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/gzip")
		w.WriteHeader(http.StatusOK)

		chunk := 100
		for i := 0; i < len(archive); i += chunk {
			end := i + chunk
			if end > len(archive) {
				end = len(archive)
			}
			w.Write(archive[i:end])
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
			time.Sleep(50 * time.Millisecond)
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	downloader := newDownloaderWithBaseURL(server.URL)
	err := downloader.DownloadRuntime(ctx, t.TempDir(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractTarGzWritesFiles(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	archive := modelArchive(t)
	tmp, err := os.CreateTemp("", "test-*.tar.gz")
	require.NoError(t, err)
	defer os.Remove(tmp.Name())
	_, err = tmp.Write(archive)
	require.NoError(t, err)
	require.NoError(t, tmp.Close())

	destDir := t.TempDir()
	require.NoError(t, extractTarGz(tmp.Name(), destDir))

	for _, name := range ModelFiles {
		content, err := os.ReadFile(filepath.Join(destDir, name))
		require.NoError(t, err)
		assert.Contains(t, string(content), "fake model file")
	}
}

func TestExtractTarGzPreservesSubdirectories(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gzw)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "subdir/", Mode: 0o755, Typeflag: tar.TypeDir, ModTime: time.Now()}))
	content := []byte("nested file")
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "subdir/test.txt", Mode: 0o644, Size: int64(len(content)), ModTime: time.Now()}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gzw.Close())

	tmp, err := os.CreateTemp("", "test-*.tar.gz")
	require.NoError(t, err)
	defer os.Remove(tmp.Name())
	_, err = tmp.Write(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, tmp.Close())

	destDir := t.TempDir()
	require.NoError(t, extractTarGz(tmp.Name(), destDir))

	info, err := os.Stat(filepath.Join(destDir, "subdir"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	extracted, err := os.ReadFile(filepath.Join(destDir, "subdir", "test.txt"))
	require.NoError(t, err)
	assert.Equal(t, content, extracted)
}

func TestExtractTarGzRejectsPathTraversal(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gzw)
	content := []byte("malicious content")
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "../../../etc/passwd", Mode: 0o644, Size: int64(len(content)), ModTime: time.Now()}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gzw.Close())

	tmp, err := os.CreateTemp("", "test-*.tar.gz")
	require.NoError(t, err)
	defer os.Remove(tmp.Name())
	_, err = tmp.Write(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, tmp.Close())

	err = extractTarGz(tmp.Name(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal file path")
}

func TestDownloadWithProgressWithoutContentLength(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	data := []byte("test data for download")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		// Flushing before the handler returns sends the body chunked, so the
		// server never adds a Content-Length header.
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}))
	defer server.Close()

	tmp, err := os.CreateTemp("", "test-*.dat")
	require.NoError(t, err)
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	var progress []int
	err = downloadWithProgress(context.Background(), server.URL, tmp, func(p int) { progress = append(progress, p) })
	require.NoError(t, err)
	assert.Equal(t, 100, progress[len(progress)-1])

	_, err = tmp.Seek(0, 0)
	require.NoError(t, err)
	downloaded, err := io.ReadAll(tmp)
	require.NoError(t, err)
	assert.Equal(t, data, downloaded)
}
