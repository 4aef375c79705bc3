package transfer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comfy-org/comfy-fs/internal/remotefs"
)

// recordingProgress captures events for assertions.
type recordingProgress struct {
	mu        sync.Mutex
	started   map[string]int64
	completed []string
	failed    []string
}

func newRecordingProgress() *recordingProgress {
	return &recordingProgress{started: make(map[string]int64)}
}

func (r *recordingProgress) Start(name string, size int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started[name] = size
}

func (r *recordingProgress) Complete(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, name)
}

func (r *recordingProgress) Fail(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, name)
}

func TestDownloadFiles_ParallelBatch(t *testing.T) {
	fs := newFakeFS()
	fs.addFile("/a.bin", bytes.Repeat([]byte("a"), 100))
	fs.addFile("/b.bin", bytes.Repeat([]byte("b"), 200))
	fs.addFile("/c.bin", bytes.Repeat([]byte("c"), 300))

	dir := t.TempDir()
	progress := newRecordingProgress()
	d := NewDownloader(fs, 2, progress)

	results := d.DownloadFiles(context.Background(), []Item{
		{"/a.bin", filepath.Join(dir, "a.bin")},
		{"/b.bin", filepath.Join(dir, "b.bin")},
		{"/c.bin", filepath.Join(dir, "c.bin")},
	})

	require.Len(t, results, 3)
	for _, res := range results {
		assert.NoError(t, res.Err)
	}

	for name, want := range map[string]int64{"a.bin": 100, "b.bin": 200, "c.bin": 300} {
		content, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Len(t, content, int(want))
		assert.EqualValues(t, want, progress.started[name])
	}
	assert.Len(t, progress.completed, 3)
	assert.Empty(t, progress.failed)
}

func TestDownloadFiles_PartialFailure(t *testing.T) {
	fs := newFakeFS()
	fs.addFile("/success.txt", []byte("ok"))
	fs.sizeErrs["/fail.txt"] = errors.New("boom")

	dir := t.TempDir()
	d := NewDownloader(fs, 2, NopProgress{})

	results := d.DownloadFiles(context.Background(), []Item{
		{"/fail.txt", filepath.Join(dir, "fail.txt")},
		{"/success.txt", filepath.Join(dir, "success.txt")},
	})

	require.Len(t, results, 2)
	var ok, failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			assert.Equal(t, "/fail.txt", res.RemotePath)
		} else {
			ok++
			assert.Equal(t, "/success.txt", res.RemotePath)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, failed)

	assert.FileExists(t, filepath.Join(dir, "success.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "fail.txt"))
}

func TestDownloadFiles_ResultPerItem(t *testing.T) {
	fs := newFakeFS()
	d := NewDownloader(fs, 4, NopProgress{})

	assert.Empty(t, d.DownloadFiles(context.Background(), nil))

	dir := t.TempDir()
	items := make([]Item, 7) // nothing exists remotely; all must fail
	for i := range items {
		items[i] = Item{RemotePath: "/missing.bin", LocalPath: filepath.Join(dir, "missing.bin")}
	}
	results := d.DownloadFiles(context.Background(), items)
	require.Len(t, results, len(items))
	for _, res := range results {
		assert.ErrorIs(t, res.Err, remotefs.ErrNotFound)
	}
}

func TestDownloadFiles_CreatesParentDirs(t *testing.T) {
	fs := newFakeFS()
	fs.addFile("/doc.txt", []byte("hello"))

	dir := t.TempDir()
	target := filepath.Join(dir, "deep", "nested", "doc.txt")
	d := NewDownloader(fs, 1, NopProgress{})

	results := d.DownloadFiles(context.Background(), []Item{{"/doc.txt", target}})
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.FileExists(t, target)
}

func TestDownloadDirectory_SkipsSubdirectories(t *testing.T) {
	fs := newFakeFS()
	fs.addFile("/test/file1.txt", bytes.Repeat([]byte("x"), 100))
	fs.addFile("/test/file2.pdf", bytes.Repeat([]byte("y"), 200))
	fs.addListing("/test",
		file("file1.txt", "/test/file1.txt", 100),
		folder("subdir", "/test/subdir"),
		file("file2.pdf", "/test/file2.pdf", 200),
	)

	dir := t.TempDir()
	d := NewDownloader(fs, 2, NopProgress{})

	results, err := d.DownloadDirectory(context.Background(), "/test", dir)
	require.NoError(t, err)
	assert.Len(t, results, 2, "directories are filtered out")
	assert.FileExists(t, filepath.Join(dir, "file1.txt"))
	assert.FileExists(t, filepath.Join(dir, "file2.pdf"))
	assert.NoDirExists(t, filepath.Join(dir, "subdir"))
}

func TestDownloadDirectory_ListFailure(t *testing.T) {
	fs := newFakeFS()
	d := NewDownloader(fs, 2, NopProgress{})

	_, err := d.DownloadDirectory(context.Background(), "/nope", t.TempDir())
	assert.ErrorIs(t, err, remotefs.ErrNotFound)
}
