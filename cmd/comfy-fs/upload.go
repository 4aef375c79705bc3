package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comfy-org/comfy-fs/internal/utils"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload files to the server",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dest, _ := cmd.Flags().GetString("dest")

		client, err := loadSession(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Uploading %d files to %s\n", len(args), dest)

		var successful, failed int
		for _, local := range args {
			if !utils.FileExists(local) {
				fmt.Printf("%s %s: file not found\n", red("✗"), local)
				failed++
				continue
			}

			remote := strings.TrimRight(dest, "/") + "/" + filepath.Base(local)
			if err := client.Upload(cmd.Context(), local, remote); err != nil {
				fmt.Printf("%s %s: %v\n", red("✗"), local, err)
				failed++
				continue
			}
			fmt.Printf("%s %s -> %s\n", green("✓"), local, remote)
			successful++
		}

		fmt.Printf("\nUpload complete: %d successful, %d failed\n", successful, failed)
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringP("dest", "d", "/", "destination directory on the server")
}
