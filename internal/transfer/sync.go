package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/comfy-org/comfy-fs/internal/remotefs"
	"github.com/comfy-org/comfy-fs/internal/utils"
)

// syncConcurrency caps parallel downloads during a sync run.
const syncConcurrency = 4

// Upload is one unit of upload work in a sync plan.
type Upload struct {
	LocalPath  string
	RemotePath string
}

// Plan is the reconciliation between one local and one remote directory:
// remote files that are missing locally or differ in size are downloaded,
// local files unknown to the remote are uploaded. Nothing is ever deleted
// and directories are not recursed.
type Plan struct {
	Downloads []Item
	Uploads   []Upload
}

func (p *Plan) Empty() bool {
	return len(p.Downloads) == 0 && len(p.Uploads) == 0
}

// Stats summarizes one sync run.
type Stats struct {
	Downloaded     int
	DownloadFailed int
	Uploaded       int
	UploadFailed   int
}

// Syncer reconciles a local directory with a remote one.
type Syncer struct {
	fs       remotefs.Client
	progress Progress
}

func NewSyncer(fs remotefs.Client, progress Progress) *Syncer {
	if progress == nil {
		progress = LogProgress{}
	}
	return &Syncer{fs: fs, progress: progress}
}

// Plan computes the download and upload sets. The local directory is created
// if it does not exist, in which case the local file set is empty; size
// equality is the only freshness test.
func (s *Syncer) Plan(ctx context.Context, localDir, remoteDir string) (*Plan, error) {
	local, err := scanLocalFiles(localDir)
	if err != nil {
		return nil, err
	}

	remote, err := s.fs.List(ctx, remoteDir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", remoteDir, err)
	}

	plan := &Plan{}
	remoteNames := make(map[string]struct{}, len(remote))
	for _, file := range remote {
		if file.IsDir {
			continue
		}
		remoteNames[file.Name] = struct{}{}

		localSize, exists := local[file.Name]
		if !exists || localSize != file.Size {
			plan.Downloads = append(plan.Downloads, Item{
				RemotePath: file.Path,
				LocalPath:  filepath.Join(localDir, file.Name),
			})
		}
	}

	for name := range local {
		if _, exists := remoteNames[name]; exists {
			continue
		}
		plan.Uploads = append(plan.Uploads, Upload{
			LocalPath:  filepath.Join(localDir, name),
			RemotePath: strings.TrimRight(remoteDir, "/") + "/" + name,
		})
	}
	return plan, nil
}

// Run computes the plan and executes it: downloads through the parallel
// engine, uploads sequentially. Per-item failures are counted, never fatal.
func (s *Syncer) Run(ctx context.Context, localDir, remoteDir string) (*Stats, error) {
	plan, err := s.Plan(ctx, localDir, remoteDir)
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	if len(plan.Downloads) > 0 {
		slog.Info("sync downloading", "files", len(plan.Downloads))
		downloader := NewDownloader(s.fs, syncConcurrency, s.progress)
		for _, res := range downloader.DownloadFiles(ctx, plan.Downloads) {
			if res.Err != nil {
				stats.DownloadFailed++
			} else {
				stats.Downloaded++
			}
		}
	}

	for _, up := range plan.Uploads {
		if err := s.fs.Upload(ctx, up.LocalPath, up.RemotePath); err != nil {
			slog.Error("sync upload failed", "file", up.LocalPath, "error", err)
			stats.UploadFailed++
			continue
		}
		stats.Uploaded++
	}
	return stats, nil
}

// scanLocalFiles maps the names of the immediate regular files in dir to
// their sizes, creating dir when absent.
func scanLocalFiles(dir string) (map[string]int64, error) {
	if !utils.DirExists(dir) {
		if err := utils.EnsureDir(dir); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
		return map[string]int64{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	files := make(map[string]int64, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		files[entry.Name()] = info.Size()
	}
	return files, nil
}
