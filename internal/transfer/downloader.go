// Package transfer implements the batch download engine and the directory
// sync planner on top of the remote-filesystem capability.
package transfer

import (
	"context"
	"path"
	"path/filepath"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/comfy-org/comfy-fs/internal/remotefs"
	"github.com/comfy-org/comfy-fs/internal/utils"
)

// Item is one unit of download work.
type Item struct {
	RemotePath string
	LocalPath  string
}

// Result is the outcome of one item. Results arrive in completion order, not
// submission order; callers that need submission order can match on the Item.
type Result struct {
	Item
	Err error
}

// Downloader runs batches of downloads with bounded concurrency. Backends
// are session-per-operation, so the cap is the only throttle on in-flight
// transfers against the server.
type Downloader struct {
	fs            remotefs.Client
	maxConcurrent int64
	progress      Progress
}

func NewDownloader(fs remotefs.Client, maxConcurrent int, progress Progress) *Downloader {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if progress == nil {
		progress = LogProgress{}
	}
	return &Downloader{fs: fs, maxConcurrent: int64(maxConcurrent), progress: progress}
}

// DownloadFiles transfers every item and returns exactly one result per
// item. A failed item never aborts the batch.
func (d *Downloader) DownloadFiles(ctx context.Context, items []Item) []Result {
	results := make(chan Result)
	sem := semaphore.NewWeighted(d.maxConcurrent)

	var wg sync.WaitGroup
	for _, item := range items {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				results <- Result{Item: item, Err: err}
				return
			}
			defer sem.Release(1)
			results <- Result{Item: item, Err: d.downloadOne(ctx, item)}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]Result, 0, len(items))
	for res := range results {
		collected = append(collected, res)
	}
	return collected
}

func (d *Downloader) downloadOne(ctx context.Context, item Item) error {
	name := path.Base(item.RemotePath)

	size, err := d.fs.Size(ctx, item.RemotePath)
	if err != nil {
		d.progress.Fail(name, err)
		return err
	}
	d.progress.Start(name, size)

	if err := utils.EnsureParent(filepath.Clean(item.LocalPath)); err != nil {
		d.progress.Fail(name, err)
		return err
	}
	if err := d.fs.Download(ctx, item.RemotePath, item.LocalPath); err != nil {
		d.progress.Fail(name, err)
		return err
	}

	d.progress.Complete(name)
	return nil
}

// DownloadDirectory downloads every file directly under remoteDir into
// localDir. Subdirectories are not recursed.
func (d *Downloader) DownloadDirectory(ctx context.Context, remoteDir, localDir string) ([]Result, error) {
	files, err := d.fs.List(ctx, remoteDir)
	if err != nil {
		return nil, err
	}

	var items []Item
	for _, file := range files {
		if file.IsDir {
			continue
		}
		items = append(items, Item{
			RemotePath: file.Path,
			LocalPath:  filepath.Join(localDir, file.Name),
		})
	}
	return d.DownloadFiles(ctx, items), nil
}
