package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comfy-org/comfy-fs/internal/remotefs"
	"github.com/comfy-org/comfy-fs/internal/transfer"
	"github.com/comfy-org/comfy-fs/internal/utils"
)

const downloadConcurrency = 4

var downloadCmd = &cobra.Command{
	Use:   "download <remote-path>",
	Short: "Download a file, or files matching a wildcard pattern",
	Long: "Download a single file from the server, or several at once by giving a\n" +
		"wildcard pattern such as '/reports/*.pdf'. Matching files download in\n" +
		"parallel.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dest, _ := cmd.Flags().GetString("dest")

		client, err := loadSession(cmd.Context())
		if err != nil {
			return err
		}

		remote := args[0]
		if strings.Contains(remote, "*") {
			return downloadPattern(cmd, client, remote, dest)
		}

		local := filepath.Join(dest, filepath.Base(remote))
		if err := utils.EnsureParent(local); err != nil {
			return err
		}
		if err := client.Download(cmd.Context(), remote, local); err != nil {
			return fmt.Errorf("download %s: %w", remote, err)
		}
		fmt.Printf("%s %s -> %s\n", green("✓"), remote, local)
		return nil
	},
}

func downloadPattern(cmd *cobra.Command, client remotefs.Client, pattern, dest string) error {
	dir, glob := splitPattern(pattern)

	files, err := client.List(cmd.Context(), dir)
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}

	var items []transfer.Item
	for _, f := range files {
		if f.IsDir || !utils.GlobMatch(f.Name, glob) {
			continue
		}
		items = append(items, transfer.Item{
			RemotePath: f.Path,
			LocalPath:  filepath.Join(dest, f.Name),
		})
	}
	if len(items) == 0 {
		fmt.Printf("No files match %s\n", pattern)
		return nil
	}

	fmt.Printf("Downloading %d files matching %s\n", len(items), pattern)
	engine := transfer.NewDownloader(client, downloadConcurrency, consoleProgress{})
	results := engine.DownloadFiles(cmd.Context(), items)

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	fmt.Printf("\nDownload complete: %d successful, %d failed\n", len(results)-failed, failed)
	return nil
}

// splitPattern separates a wildcard path into the directory to list and the
// glob to match names against. The directory is everything before the first
// '*', cut back to the last slash; the glob is the final path segment.
func splitPattern(pattern string) (dir, glob string) {
	star := strings.Index(pattern, "*")
	dir = pattern[:star]
	if idx := strings.LastIndex(dir, "/"); idx >= 0 {
		dir = dir[:idx]
	}
	if dir == "" {
		dir = "/"
	}
	glob = pattern
	if idx := strings.LastIndex(pattern, "/"); idx >= 0 {
		glob = pattern[idx+1:]
	}
	return dir, glob
}

// consoleProgress prints one line per finished transfer.
type consoleProgress struct{}

func (consoleProgress) Start(name string, size int64) {}

func (consoleProgress) Complete(name string) {
	fmt.Printf("%s %s\n", green("✓"), name)
}

func (consoleProgress) Fail(name string, err error) {
	fmt.Printf("%s %s: %v\n", red("✗"), name, err)
}

func init() {
	downloadCmd.Flags().StringP("dest", "d", ".", "local destination directory")
}
