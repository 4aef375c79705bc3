package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comfy-org/comfy-fs/internal/browser"
	"github.com/comfy-org/comfy-fs/internal/utils"
)

var listCmd = &cobra.Command{
	Use:     "list [path]",
	Aliases: []string{"ls"},
	Short:   "List files in a server directory",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/"
		if len(args) > 0 {
			path = args[0]
		}
		sortFlag, _ := cmd.Flags().GetString("sort")
		reverse, _ := cmd.Flags().GetBool("reverse")

		client, err := loadSession(cmd.Context())
		if err != nil {
			return err
		}

		files, err := client.List(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("list %s: %w", path, err)
		}

		entries := make([]browser.Entry, 0, len(files))
		for _, f := range files {
			entries = append(entries, browser.EntryFromRemote(f))
		}
		browser.SortEntries(entries, browser.ParseSortMode(sortFlag), reverse)

		fmt.Printf("%s\n\n", cyan(path))
		fmt.Printf("%-40s %10s  %s\n", "Name", "Size", "Modified")
		for _, e := range entries {
			size := utils.FormatBytes(e.Size)
			name := e.Name
			if e.IsDir {
				size = "DIR"
				name += "/"
			}
			fmt.Printf("%-40s %10s  %s\n", name, size, e.Modified.Format("2006-01-02 15:04"))
		}
		fmt.Printf("\n%d items\n", len(entries))
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("sort", "s", "modified", "sort order: modified, name, size or type")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse the sort order")
}
