package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/comfy-org/comfy-fs/internal/config"
	"github.com/comfy-org/comfy-fs/internal/connection"
	"github.com/comfy-org/comfy-fs/internal/remotefs"
)

var (
	green = color.New(color.FgHiGreen).SprintFunc()
	red   = color.New(color.FgHiRed).SprintFunc()
	cyan  = color.New(color.FgHiCyan).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "comfy-fs",
	Short: "Browse, transfer and sync files on the company file server",
	Long: "comfy-fs is a client for the company file server. It speaks SMB and FTP,\n" +
		"picking whichever the server answers on, and offers an interactive browser\n" +
		"plus batch upload, download, list and sync commands.",
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse(cmd.Context(), "/")
	},
}

func init() {
	verbose := false
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cobra.OnInitialize(func() {
		setupLogging(verbose)
	})

	rootCmd.AddCommand(
		browseCmd,
		interactiveCmd,
		uploadCmd,
		downloadCmd,
		listCmd,
		syncCmd,
		configCmd,
	)
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))
}

// loadSession loads the configuration (running first-time setup when
// needed), prompts for the password and connects to the server.
func loadSession(ctx context.Context) (remotefs.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if !cfg.IsConfigured() {
		if err := cfg.InteractiveSetup(); err != nil {
			return nil, err
		}
	}
	if err := cfg.EnsurePassword(); err != nil {
		return nil, err
	}

	return connection.NewManager(cfg).Connect(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), err)
		os.Exit(1)
	}
}
