package transfer

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/comfy-org/comfy-fs/internal/remotefs"
	"github.com/comfy-org/comfy-fs/internal/utils"
)

// fakeFS is an in-memory remotefs.Client. Paths map to file contents;
// entries under dir are the immediate children reported by List.
type fakeFS struct {
	mu sync.Mutex

	files map[string][]byte // remote path -> content
	dirs  map[string][]remotefs.RemoteFile

	sizeErrs map[string]error // remote path -> forced Size failure

	uploads   []string
	downloads []string
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		files:    make(map[string][]byte),
		dirs:     make(map[string][]remotefs.RemoteFile),
		sizeErrs: make(map[string]error),
	}
}

func (f *fakeFS) addFile(path string, content []byte) {
	f.files[path] = content
}

func (f *fakeFS) addListing(dir string, entries ...remotefs.RemoteFile) {
	f.dirs[dir] = entries
}

func file(name, path string, size int64) remotefs.RemoteFile {
	return remotefs.RemoteFile{Name: name, Path: path, Size: size, Modified: time.Now()}
}

func folder(name, path string) remotefs.RemoteFile {
	return remotefs.RemoteFile{Name: name, Path: path, Modified: time.Now(), IsDir: true}
}

func (f *fakeFS) Connect(ctx context.Context) error    { return nil }
func (f *fakeFS) Disconnect(ctx context.Context) error { return nil }

func (f *fakeFS) List(ctx context.Context, path string) ([]remotefs.RemoteFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, ok := f.dirs[path]
	if !ok {
		return nil, fmt.Errorf("list %s: %w", path, remotefs.ErrNotFound)
	}
	return entries, nil
}

func (f *fakeFS) Download(ctx context.Context, remotePath, localPath string) error {
	f.mu.Lock()
	content, ok := f.files[remotePath]
	f.downloads = append(f.downloads, remotePath)
	f.mu.Unlock()
	if !ok {
		return fmt.Errorf("download %s: %w", remotePath, remotefs.ErrNotFound)
	}
	if err := utils.EnsureParent(localPath); err != nil {
		return err
	}
	return os.WriteFile(localPath, content, 0o644)
}

func (f *fakeFS) Upload(ctx context.Context, localPath, remotePath string) error {
	content, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[remotePath] = content
	f.uploads = append(f.uploads, remotePath)
	return nil
}

func (f *fakeFS) Mkdir(ctx context.Context, path string) error  { return nil }
func (f *fakeFS) Delete(ctx context.Context, path string) error { return nil }

func (f *fakeFS) Size(ctx context.Context, path string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.sizeErrs[path]; ok {
		return 0, err
	}
	content, ok := f.files[path]
	if !ok {
		return 0, fmt.Errorf("size %s: %w", path, remotefs.ErrNotFound)
	}
	return int64(len(content)), nil
}
