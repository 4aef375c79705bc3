package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comfy-org/comfy-fs/internal/transfer"
)

var syncCmd = &cobra.Command{
	Use:   "sync <local-dir> <remote-dir>",
	Short: "Synchronize a local directory with a server directory",
	Long: "Sync downloads server files that are missing locally or differ in size,\n" +
		"and uploads local files the server does not have. Nothing is ever\n" +
		"deleted on either side.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		localDir, remoteDir := args[0], args[1]

		client, err := loadSession(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Syncing %s <-> %s\n", localDir, cyan(remoteDir))

		syncer := transfer.NewSyncer(client, consoleProgress{})
		stats, err := syncer.Run(cmd.Context(), localDir, remoteDir)
		if err != nil {
			return fmt.Errorf("sync: %w", err)
		}

		fmt.Printf("\nSync complete: %d downloaded, %d uploaded", stats.Downloaded, stats.Uploaded)
		if stats.DownloadFailed > 0 || stats.UploadFailed > 0 {
			fmt.Printf(", %s", red(fmt.Sprintf("%d failed", stats.DownloadFailed+stats.UploadFailed)))
		}
		fmt.Println()
		return nil
	},
}
