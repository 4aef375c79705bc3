package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/comfy-org/comfy-fs/internal/browser"
)

var browseCmd = &cobra.Command{
	Use:   "browse [path]",
	Short: "Browse server files interactively",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := "/"
		if len(args) > 0 {
			start = args[0]
		}
		return runBrowse(cmd.Context(), start)
	},
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Interactive TUI mode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse(cmd.Context(), "/")
	},
}

func runBrowse(ctx context.Context, startPath string) error {
	client, err := loadSession(ctx)
	if err != nil {
		return err
	}
	return browser.Run(client, startPath)
}
